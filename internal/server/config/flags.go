package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   cookie signing secret
//	-t int      session validity, hours
//	-k bool     secure cookies (use -k=true / -k=false)
//	-o string   upload storage back end: local or s3
//	-f string   upload directory for the local back end
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL of the bucket
//	-r string   Redis address for rate limiting (empty disables)
//	-l int      rate limit, requests per minute per client
//
// The args are first filtered through flagx.FilterArgs so -c/-config and
// flags of other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-k", "-o", "-f", "-u", "-p", "-b", "-g", "-e", "-w", "-r", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Hours()), "session validity (in hours)")

	fs.BoolVar(&config.SecureCookies, "k", config.SecureCookies, "set Secure flag on session cookie")
	fs.StringVar(&config.StorageBackend, "o", config.StorageBackend, "upload storage back end (local|s3)")
	fs.StringVar(&config.UploadDir, "f", config.UploadDir, "upload directory")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "w", config.S3PublicURL, "S3 public base URL")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address")
	fs.IntVar(&config.RateLimitPerMinute, "l", config.RateLimitPerMinute, "rate limit per minute")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Hour
}
