// Package config loads runtime configuration for the SermonMate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment, after an optional dotenv file (-E or -envfile, else ./.env).
//  4. Command-line flags, which override everything above.
//
// Supported flags
//
//	-a string   base URL of the versioned REST API
//	-t int      request timeout (seconds)
//	-d string   local data directory (cache database, device secret)
//	-v string   voice agent id
//
// Environment
//
//	SERMONMATE_API_URL, SERMONMATE_AGENT_ID, SERMONMATE_DATA_DIR,
//	SERMONMATE_DEBUG
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://sermonmate.bobakdevs.com/api/v1",
//	  "request_timeout": "30s",
//	  "data_dir": "~/.sermonmate",
//	  "agent_id": "agent_123",
//	  "debug": false
//	}
package config
