package config

import (
	"encoding/json"
	"os"

	"github.com/sermonmate/sermonmate/internal/flagx"
	"github.com/sermonmate/sermonmate/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. DedupeTTL accepts both "24h" strings and integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	WebhookSecret    string         `json:"webhook_secret"`
	WebhookPath      string         `json:"webhook_path"`
	RedisAddr        string         `json:"redis_addr"`
	DedupeTTL        timex.Duration `json:"dedupe_ttl"`
	S3RootUser       string         `json:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	RateLimit        float64        `json:"rate_limit"`
	RateBurst        int            `json:"rate_burst"`
	Debug            *bool          `json:"debug"`
}

// parseJson loads configuration values from the file named by -c or -config.
// Fields missing from the file keep their current values. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.WebhookSecret, c.WebhookSecret)
	setString(&config.WebhookPath, c.WebhookPath)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.DedupeTTL.Duration > 0 {
		config.DedupeTTL = c.DedupeTTL.Duration
	}
	if c.RateLimit > 0 {
		config.RateLimit = c.RateLimit
	}
	if c.RateBurst > 0 {
		config.RateBurst = c.RateBurst
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
