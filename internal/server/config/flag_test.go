package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret", "-t", "24", "-k=true",
			"-o", "s3", "-f", "/srv/uploads",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-w", "http://cdn", "-r", "redis:6379", "-l", "5",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP:        "127.0.0.1:9090",
				DatabaseDSN:             "db",
				SecretKey:               "secret",
				SessionValidityDuration: 24 * time.Hour,
				SecureCookies:           true,
				StorageBackend:          "s3",
				UploadDir:               "/srv/uploads",
				S3RootUser:              "user",
				S3RootPassword:          "password",
				S3Bucket:                "bucket",
				S3Region:                "us-west-1",
				S3BaseEndpoint:          "http://endpoint",
				S3PublicURL:             "http://cdn",
				RedisAddr:               "redis:6379",
				RateLimitPerMinute:      5,
			}},
		{name: "foreign flags ignored", args: []string{"cmd",
			"-c", "cfg.json", "-a", ":9000", "-x", "ignored",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP: ":9000",
			}},
		{name: "bad int panics", args: []string{"cmd", "-l", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
