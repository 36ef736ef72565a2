package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"spine-mod-loader/cli"
	"spine-mod-loader/config"
	"spine-mod-loader/history"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Load and validate configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return cli.ExitFailure
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration validation failed: %v\n", err)
		return cli.ExitFailure
	}

	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		return cli.ExitFailure
	}
	defer logger.Sync() //nolint:errcheck

	if !cfg.EnvFileLoaded {
		logger.Debug(".env file not found, using process environment")
	}
	logger.Debug("configuration loaded",
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.String("asset_repo", cfg.AssetRepoURL),
		zap.String("cutscene_repo", cfg.CutsceneRepoURL),
		zap.String("history_db", cfg.HistoryDB))

	deps := cli.Dependencies{
		Logger:          logger,
		HTTPClient:      &http.Client{Timeout: cfg.HTTPTimeout},
		RepoURL:         cfg.AssetRepoURL,
		CutsceneRepoURL: cfg.CutsceneRepoURL,
		Out:             os.Stdout,
		Err:             os.Stderr,
		Version:         version,
	}

	if cfg.HistoryEnabled() {
		store, err := history.Open(cfg.HistoryDB, logger.Named("history"))
		if err != nil {
			// history is a convenience, keep going without it
			logger.Warn("history unavailable", zap.String("path", cfg.HistoryDB), zap.Error(err))
		} else {
			defer store.Close()
			deps.History = store
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewApp(deps).Execute(ctx, os.Args[1:])
}
