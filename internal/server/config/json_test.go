package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http": "www.example:8081",
		"endpoint_addr_grpc": "www.example:9000",
		"database_dsn":       "postgres://db",
		"webhook_secret":     "whsec_abc",
		"webhook_path":       "/hooks/clerk",
		"redis_addr":         "redis:6379",
		"dedupe_ttl":         "1h",
		"s3_root_user":       "user",
		"s3_root_password":   "password",
		"s3_bucket":          "bucket",
		"s3_region":          "region",
		"s3_base_endpoint":   "base_endpoint",
		"rate_limit":         2.5,
		"rate_burst":         4,
		"debug":              true,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:8081", cfg.EndpointAddrHTTP)
		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "whsec_abc", cfg.WebhookSecret)
		assert.Equal(t, "/hooks/clerk", cfg.WebhookPath)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, time.Hour, cfg.DedupeTTL)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 2.5, cfg.RateLimit)
		assert.Equal(t, 4, cfg.RateBurst)
		assert.True(t, cfg.Debug)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		p := writeTempJSON(t, dir, "partial.json", map[string]any{"webhook_secret": "whsec_x"})
		os.Args = []string{"testbin", "-c", p}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "whsec_x", cfg.WebhookSecret)
		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
		assert.Equal(t, 24*time.Hour, cfg.DedupeTTL)
	})

	t.Run("no flag → nothing loaded", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{}
		require.NotPanics(t, func() { parseJson(cfg) })
		assert.Equal(t, Config{}, *cfg)
	})

	t.Run("bad file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "missing.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("bad json → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
