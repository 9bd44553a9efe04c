package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sermonmate/sermonmate/internal/buildinfo"
	"github.com/sermonmate/sermonmate/internal/client/cli"
	"github.com/sermonmate/sermonmate/internal/client/config"
	"github.com/sermonmate/sermonmate/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.Debug)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
