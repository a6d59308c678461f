package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gmmbatch/internal/charts"
	"gmmbatch/internal/client"
	"gmmbatch/internal/config"
	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
	"gmmbatch/internal/providers"
	"gmmbatch/internal/reports"
	"gmmbatch/internal/storage"
)

// Runner executes one configured batch and persists its outputs
type Runner struct {
	config   *config.Config
	provider providers.Provider
	client   *client.Client
	files    *reports.FileGenerator
	storage  storage.StorageClient
	service  models.Service
}

// NewRunner wires provider, client, report generation and storage from cfg
func NewRunner(ctx context.Context, cfg *config.Config) (*Runner, error) {
	service, err := models.ParseService(cfg.Service)
	if err != nil {
		return nil, err
	}

	provider, err := providers.New(providers.Options{
		Kind:        cfg.Provider,
		ServiceURL:  cfg.ServiceURL,
		Timeout:     cfg.RequestTimeout,
		LibraryPath: cfg.LibraryPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	store, err := storage.NewStorageClient(ctx, storage.ParseOutputMode(cfg.OutputMode), cfg)
	if err != nil {
		closeProvider(provider)
		return nil, err
	}

	title := "Response Spectra"
	if cfg.IMT != "" {
		title = "Ground Motion " + cfg.IMT
	}

	return &Runner{
		config:   cfg,
		provider: provider,
		client: client.New(provider, client.Options{
			Service: service,
			RMin:    cfg.RMin,
			RMax:    cfg.RMax,
		}),
		files:   reports.NewFileGenerator(charts.NewChartGenerator(title)),
		storage: store,
		service: service,
	}, nil
}

// Run loads the input file, submits it once and stores the run folder
func (r *Runner) Run(ctx context.Context) (*reports.GeneratedFiles, error) {
	started := time.Now()

	f, err := os.Open(r.config.InputFile)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", models.ErrInputFormat, r.config.InputFile, err)
	}
	defer f.Close()

	batch, err := r.client.Run(ctx, f, models.NewModelSelection(r.config.IMT, r.config.Models...))
	if err != nil {
		return nil, err
	}

	run := &reports.RunInfo{
		ID:        storage.NewRunID(),
		Timestamp: started,
		InputFile: r.config.InputFile,
		Service:   r.service,
		Version:   config.GetVersion(),
		Batch:     batch,
	}
	files, err := r.files.Generate(run)
	if err != nil {
		return nil, err
	}
	if err := reports.NewStorageOrchestrator(r.storage).StoreAllFiles(ctx, files); err != nil {
		return nil, err
	}

	logger.Info("Batch run finished", map[string]interface{}{
		"run":      run.ID,
		"folder":   files.FolderPath,
		"rows":     len(batch.Rows),
		"duration": time.Since(started).String(),
	})
	return files, nil
}

// Close releases the provider and storage
func (r *Runner) Close() error {
	closeProvider(r.provider)
	return r.storage.Close()
}

func closeProvider(p providers.Provider) {
	if c, ok := p.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close provider", map[string]interface{}{"error": err.Error()})
		}
	}
}
