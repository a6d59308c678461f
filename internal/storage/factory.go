package storage

import (
	"context"
	"fmt"
	"strings"

	"gmmbatch/internal/config"
)

// OutputMode selects where run files are written
type OutputMode string

const (
	OutputLocal OutputMode = "local"
	OutputGCS   OutputMode = "gcs"
	OutputS3    OutputMode = "s3"
)

// ParseOutputMode normalises an OUTPUT_MODE value
func ParseOutputMode(s string) OutputMode {
	return OutputMode(strings.ToLower(strings.TrimSpace(s)))
}

// NewStorageClient creates a storage client for the output mode
func NewStorageClient(ctx context.Context, mode OutputMode, cfg *config.Config) (StorageClient, error) {
	switch mode {
	case OutputLocal:
		dir := cfg.LocalOutputDir
		if dir == "" {
			dir = "runs"
		}
		localClient, err := NewLocalStorageClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case OutputGCS:
		if cfg.GCSBucket == "" {
			return nil, fmt.Errorf("GCS output requires a bucket")
		}
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	case OutputS3:
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("S3 output requires a bucket")
		}
		s3Client, err := NewS3Client(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return s3Client, nil

	default:
		return nil, fmt.Errorf("unsupported output mode: %s", mode)
	}
}
