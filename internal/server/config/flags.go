package config

import (
	"flag"
	"os"

	"github.com/sermonmate/sermonmate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   webhook signing secret
//	-r string   Redis address for idempotency
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 archive bucket
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l float    webhook rate limit, requests per second
//	-debug      debug logging
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c and -E flags.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-s", "-r", "-u", "-p", "-b", "-e", "-l", "-debug"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve webhooks on")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port of the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.WebhookSecret, "s", config.WebhookSecret, "webhook signing secret")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 access key")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.Float64Var(&config.RateLimit, "l", config.RateLimit, "webhook requests per second per client")
	fs.BoolVar(&config.Debug, "debug", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
