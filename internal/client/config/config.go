package config

import "time"

const (
	DefaultAPIBaseURL     = "https://sermonmate.bobakdevs.com/api/v1"
	DefaultRequestTimeout = 30 * time.Second
	DefaultDataDir        = "~/.sermonmate"
)

// Config holds runtime settings for the SermonMate CLI.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
	AgentID        string
	Debug          bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = DefaultRequestTimeout
	c.DataDir = DefaultDataDir
	c.AgentID = ""
	c.Debug = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take precedence
// over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
