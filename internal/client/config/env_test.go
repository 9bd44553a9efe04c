package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Chdir(t.TempDir())

	t.Run("nothing set → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}
		cfg := &Config{}
		cfg.LoadDefaults()

		require.NotPanics(t, func() { parseEnv(cfg) })
		assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	})

	t.Run("variables override", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("SERMONMATE_API_URL", "http://env.example/api/v1")
		t.Setenv("SERMONMATE_DEBUG", "true")

		cfg := &Config{}
		parseEnv(cfg)

		assert.Equal(t, "http://env.example/api/v1", cfg.APIBaseURL)
		assert.True(t, cfg.Debug)
	})

	t.Run("dotenv file", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), "sm.env")
		require.NoError(t, os.WriteFile(envFile, []byte("SERMONMATE_AGENT_ID=dotenv-agent\n"), 0o600))
		t.Cleanup(func() { _ = os.Unsetenv("SERMONMATE_AGENT_ID") })

		os.Args = []string{"testbin", "-E", envFile}
		cfg := &Config{}
		parseEnv(cfg)

		assert.Equal(t, "dotenv-agent", cfg.AgentID)
	})

	t.Run("missing named dotenv → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-envfile", filepath.Join(t.TempDir(), "nope.env")}
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
