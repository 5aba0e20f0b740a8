package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/urbannest/internal/flagx"
	"github.com/dmitrijs2005/urbannest/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations
// accept "168h" style strings or integer nanoseconds. Only keys present in
// the file override the current values.
type JsonConfig struct {
	EndpointAddrHTTP        string          `json:"endpoint_addr_http"`
	DatabaseDSN             string          `json:"database_dsn"`
	SecretKey               string          `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	SecureCookies           *bool           `json:"secure_cookies"`
	RequestTimeout          *timex.Duration `json:"request_timeout"`
	AllowedOrigins          []string        `json:"allowed_origins"`
	StorageBackend          string          `json:"storage_backend"`
	UploadDir               string          `json:"upload_dir"`
	S3RootUser              string          `json:"s3_root_user"`
	S3RootPassword          string          `json:"s3_root_password"`
	S3Bucket                string          `json:"s3_bucket"`
	S3Region                string          `json:"s3_region"`
	S3BaseEndpoint          string          `json:"s3_base_endpoint"`
	S3PublicURL             string          `json:"s3_public_url"`
	RedisAddr               *string         `json:"redis_addr"`
	RateLimitPerMinute      *int            `json:"rate_limit_per_minute"`
}

// parseJson loads the file named by -c/-config (or URBANNEST_CONFIG) into
// config. Without a file nothing changes. An unreadable file or invalid JSON
// panics: the server must not start on a half-read configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFile()

	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.SecureCookies != nil {
		config.SecureCookies = *c.SecureCookies
	}
	if c.RequestTimeout != nil {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.UploadDir, c.UploadDir)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.RateLimitPerMinute != nil {
		config.RateLimitPerMinute = *c.RateLimitPerMinute
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
