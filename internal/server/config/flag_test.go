package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:8081", "-g", "127.0.0.1:9090", "-d", "db", "-s", "whsec_secret",
			"-r", "redis:6379", "-u", "user", "-p", "password", "-b", "bucket", "-e", "http://endpoint", "-l", "3.5",
		}, expectPanic: false,
			expected: &Config{
				EndpointAddrHTTP: "127.0.0.1:8081",
				EndpointAddrGRPC: "127.0.0.1:9090",
				DatabaseDSN:      "db",
				WebhookSecret:    "whsec_secret",
				RedisAddr:        "redis:6379",
				S3RootUser:       "user",
				S3RootPassword:   "password",
				S3Bucket:         "bucket",
				S3BaseEndpoint:   "http://endpoint",
				RateLimit:        3.5,
			}},
		{name: "other flags ignored", args: []string{"cmd", "-c", "cfg.json", "-debug"},
			expected: &Config{Debug: true}},
		{name: "incorrect rate", args: []string{"cmd", "-l", "fast"}, expectPanic: true, expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
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
