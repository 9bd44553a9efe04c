package main

import (
	"context"
	"log"
	"os"

	"github.com/sermonmate/sermonmate/internal/buildinfo"
	"github.com/sermonmate/sermonmate/internal/logging"
	"github.com/sermonmate/sermonmate/internal/server"
	"github.com/sermonmate/sermonmate/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()

	logger, err := logging.NewProductionZapLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg, logger)

	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		return
	}

	app.Run(ctx)

}
