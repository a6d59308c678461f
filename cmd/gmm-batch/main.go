package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gmmbatch/internal/config"
	"gmmbatch/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to load .env file", map[string]interface{}{"error": err.Error()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}
	if len(os.Args) > 1 {
		cfg.InputFile = os.Args[1]
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	logger.Info("Starting gmm-batch", map[string]interface{}{
		"version":  config.GetVersion(),
		"provider": cfg.Provider,
		"service":  cfg.Service,
		"input":    cfg.InputFile,
		"models":   cfg.Models,
		"output":   cfg.OutputMode,
	})

	runner, err := NewRunner(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize runner", err)
	}

	files, err := runner.Run(ctx)
	closeErr := runner.Close()
	if err != nil {
		logger.Fatal("Batch run failed", err)
	}
	if closeErr != nil {
		logger.Warn("Failed to close runner", map[string]interface{}{"error": closeErr.Error()})
	}
	logger.Infof("Run stored in %s", files.FolderPath)
}
