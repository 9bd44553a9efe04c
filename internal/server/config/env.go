package config

import (
	"errors"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/sermonmate/sermonmate/internal/flagx"
)

type envConfig struct {
	EndpointAddrHTTP string `env:"WEBHOOK_HTTP_ADDR"`
	EndpointAddrGRPC string `env:"WEBHOOK_GRPC_ADDR"`
	DatabaseDSN      string `env:"DATABASE_DSN"`
	WebhookSecret    string `env:"CLERK_WEBHOOK_SECRET"`
	RedisAddr        string `env:"REDIS_ADDR"`
	S3RootUser       string `env:"S3_ACCESS_KEY"`
	S3RootPassword   string `env:"S3_SECRET_KEY"`
	S3Bucket         string `env:"S3_BUCKET"`
	S3Region         string `env:"S3_REGION"`
	S3BaseEndpoint   string `env:"S3_ENDPOINT"`
	Debug            string `env:"WEBHOOK_DEBUG"`
}

// parseEnv loads the dotenv file (if any) and overlays config with the
// variables that are set. An explicitly named dotenv file that cannot be read
// panics; a missing ./.env is ignored.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else {
		_ = godotenv.Load()
	}

	var ec envConfig
	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, ec.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, ec.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, ec.DatabaseDSN)
	setString(&config.WebhookSecret, ec.WebhookSecret)
	setString(&config.RedisAddr, ec.RedisAddr)
	setString(&config.S3RootUser, ec.S3RootUser)
	setString(&config.S3RootPassword, ec.S3RootPassword)
	setString(&config.S3Bucket, ec.S3Bucket)
	setString(&config.S3Region, ec.S3Region)
	setString(&config.S3BaseEndpoint, ec.S3BaseEndpoint)

	if ec.Debug != "" {
		debug, err := strconv.ParseBool(ec.Debug)
		if err != nil {
			panic(err)
		}
		config.Debug = debug
	}
}
