package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by parseEnv. A .env file, when present, is
// loaded into the process environment by the binaries before LoadConfig.
const (
	EnvHTTPAddr        = "URBANNEST_HTTP_ADDR"
	EnvDatabaseDSN     = "URBANNEST_DATABASE_DSN"
	EnvSecretKey       = "URBANNEST_SECRET_KEY"
	EnvSessionValidity = "URBANNEST_SESSION_VALIDITY"
	EnvSecureCookies   = "URBANNEST_SECURE_COOKIES"
	EnvRequestTimeout  = "URBANNEST_REQUEST_TIMEOUT"
	EnvAllowedOrigins  = "URBANNEST_ALLOWED_ORIGINS"
	EnvStorageBackend  = "URBANNEST_STORAGE_BACKEND"
	EnvUploadDir       = "URBANNEST_UPLOAD_DIR"
	EnvS3User          = "URBANNEST_S3_ROOT_USER"
	EnvS3Password      = "URBANNEST_S3_ROOT_PASSWORD"
	EnvS3Bucket        = "URBANNEST_S3_BUCKET"
	EnvS3Region        = "URBANNEST_S3_REGION"
	EnvS3BaseEndpoint  = "URBANNEST_S3_BASE_ENDPOINT"
	EnvS3PublicURL     = "URBANNEST_S3_PUBLIC_URL"
	EnvRedisAddr       = "URBANNEST_REDIS_ADDR"
	EnvRateLimit       = "URBANNEST_RATE_LIMIT_PER_MINUTE"
)

// parseEnv overlays values found in the environment. Malformed durations,
// booleans or integers panic, like a malformed JSON file does.
func parseEnv(config *Config) {
	envString(EnvHTTPAddr, &config.EndpointAddrHTTP)
	envString(EnvDatabaseDSN, &config.DatabaseDSN)
	envString(EnvSecretKey, &config.SecretKey)
	envDuration(EnvSessionValidity, &config.SessionValidityDuration)
	envDuration(EnvRequestTimeout, &config.RequestTimeout)

	if v, ok := os.LookupEnv(EnvSecureCookies); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvSecureCookies, err))
		}
		config.SecureCookies = b
	}

	if v, ok := os.LookupEnv(EnvAllowedOrigins); ok && v != "" {
		config.AllowedOrigins = splitList(v)
	}

	envString(EnvStorageBackend, &config.StorageBackend)
	envString(EnvUploadDir, &config.UploadDir)
	envString(EnvS3User, &config.S3RootUser)
	envString(EnvS3Password, &config.S3RootPassword)
	envString(EnvS3Bucket, &config.S3Bucket)
	envString(EnvS3Region, &config.S3Region)
	envString(EnvS3BaseEndpoint, &config.S3BaseEndpoint)
	envString(EnvS3PublicURL, &config.S3PublicURL)

	// an explicitly empty value disables rate limiting
	if v, ok := os.LookupEnv(EnvRedisAddr); ok {
		config.RedisAddr = v
	}

	if v, ok := os.LookupEnv(EnvRateLimit); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvRateLimit, err))
		}
		config.RateLimitPerMinute = n
	}
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", key, err))
	}
	*dst = d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
