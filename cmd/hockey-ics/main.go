package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jaws696969/hockey-ics/external/bondsports"
	"github.com/jaws696969/hockey-ics/internal/config"
	"github.com/jaws696969/hockey-ics/internal/ics"
	"github.com/jaws696969/hockey-ics/internal/platform/logging"
	"github.com/jaws696969/hockey-ics/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	outputDir := flag.String("out", "", "override the configured output directory")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewConsole(level)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	client := bondsports.NewClient(bondsports.ClientConfig{
		Timeout:    cfg.FetchTimeout.Std(),
		MaxRetries: cfg.Retries(),
		Logger:     logger,
	})

	svc, err := usecase.NewGenerateService(cfg, client, ics.NewBuilder(), logger)
	if err != nil {
		logger.Error("build generator", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, runErr := svc.Run(ctx)
	for _, row := range report.Results {
		if row.Status == usecase.TeamStatusSuccess {
			logger.Info("team done", "slug", row.Slug, "path", row.Path, "events", row.Events, "duration_ms", row.DurationMs)
			continue
		}
		logger.Error("team failed", "slug", row.Slug, "cause", row.Message, "duration_ms", row.DurationMs)
	}

	if runErr != nil {
		logger.Error("run finished with failures", "error", runErr)
		os.Exit(1)
	}
	logger.Info("done", "teams", report.SuccessCount)
}
