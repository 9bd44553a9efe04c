package config

import (
	"errors"
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/sermonmate/sermonmate/internal/flagx"
)

type envConfig struct {
	APIBaseURL string `env:"SERMONMATE_API_URL"`
	AgentID    string `env:"SERMONMATE_AGENT_ID"`
	DataDir    string `env:"SERMONMATE_DATA_DIR"`
	Debug      string `env:"SERMONMATE_DEBUG"`
}

// parseEnv loads the dotenv file (if any) and overlays cfg with the
// SERMONMATE_* variables that are set. An explicitly named dotenv file that
// cannot be read panics; a missing ./.env is ignored.
func parseEnv(cfg *Config) {
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

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.AgentID != "" {
		cfg.AgentID = ec.AgentID
	}
	if ec.DataDir != "" {
		cfg.DataDir = ec.DataDir
	}
	if ec.Debug != "" {
		debug, err := strconv.ParseBool(ec.Debug)
		if err != nil {
			panic(err)
		}
		cfg.Debug = debug
	}
}
