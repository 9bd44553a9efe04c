package config

import (
	"encoding/json"
	"os"

	"github.com/sermonmate/sermonmate/internal/flagx"
	"github.com/sermonmate/sermonmate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DataDir        string         `json:"data_dir"`
	AgentID        string         `json:"agent_id"`
	Debug          *bool          `json:"debug"`
}

// parseJson overlays cfg with the fields present in the file named by -c or
// -config. Missing fields keep their current values. Read and decode errors
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.AgentID != "" {
		cfg.AgentID = jc.AgentID
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
