package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sermonmate/sermonmate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL (default from Config)
//	-t int      request timeout in seconds, must be positive (default from Config)
//	-d string   data directory
//	-v string   voice agent id
//	-debug      verbose request logging
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-v", "-debug"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	fs.StringVar(&cfg.AgentID, "v", cfg.AgentID, "voice agent id")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log every API request")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "t" {
			return
		}
		if *timeout <= 0 {
			panic(fmt.Sprintf("invalid request timeout: %d", *timeout))
		}
		cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	})
}
