package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/samvad-hq/itunes-screenshots/internal/app"
	"github.com/samvad-hq/itunes-screenshots/internal/config"
	"github.com/samvad-hq/itunes-screenshots/internal/logger"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "screenshots failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := applyFlags(cfg, args); err != nil {
		return err
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("screenshots starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	viewer, err := app.NewViewer(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize viewer", "error", err)
		return err
	}

	if err := viewer.Run(ctx); err != nil {
		return fmt.Errorf("viewer run: %w", err)
	}
	return nil
}

// applyFlags overrides config values with the flags that were set explicitly.
func applyFlags(cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("screenshots", pflag.ContinueOnError)
	id := fs.String("id", cfg.AppID, "App Store id of the app to look up")
	index := fs.Int("index", cfg.InitialIndex, "screenshot to show first")
	format := fs.String("format", cfg.RenderFormat, "render format: text or html")
	out := fs.String("out", cfg.HTMLOutput, "html output file")
	fixture := fs.String("fixture", cfg.FixtureFile, "serve the lookup from a JSON fixture instead of the network")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.AppID = *id
	cfg.InitialIndex = *index
	cfg.RenderFormat = *format
	cfg.HTMLOutput = *out
	cfg.FixtureFile = *fixture
	if fs.NArg() > 0 && cfg.AppID == "" {
		cfg.AppID = fs.Arg(0)
	}
	return cfg.Normalize()
}
