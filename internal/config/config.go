package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all configuration for a GMM batch run
type Config struct {
	// Calculation provider
	Provider       string        `env:"GMM_PROVIDER,default=remote"`
	ServiceURL     string        `env:"GMM_SERVICE_URL,default=https://earthquake.usgs.gov/nshmp-haz-ws"`
	Service        string        `env:"GMM_SERVICE,default=spectra"`
	LibraryPath    string        `env:"GMM_LIB_PATH"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=60s"`

	// Batch definition
	InputFile string   `env:"INPUT_FILE,default=gmm-inputs.csv"`
	Models    []string `env:"GMM_MODELS,default=AB_06_PRIME"`
	IMT       string   `env:"GMM_IMT"`
	RMin      float64  `env:"GMM_R_MIN,default=0"`
	RMax      float64  `env:"GMM_R_MAX,default=200"`

	// Output storage
	OutputMode     string `env:"OUTPUT_MODE,default=local"`
	LocalOutputDir string `env:"LOCAL_OUTPUT_DIR,default=./runs"`
	GCSBucket      string `env:"GCS_BUCKET"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Endpoint     string `env:"S3_ENDPOINT"`
	S3Region       string `env:"S3_REGION,default=auto"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field requirements envconfig cannot express
func (c *Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "remote":
		if c.ServiceURL == "" {
			return fmt.Errorf("GMM_SERVICE_URL is required for the remote provider")
		}
	case "embedded":
		if c.LibraryPath == "" {
			return fmt.Errorf("GMM_LIB_PATH is required for the embedded provider")
		}
	default:
		return fmt.Errorf("unsupported GMM_PROVIDER: %q", c.Provider)
	}

	switch strings.ToLower(c.OutputMode) {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required for gcs output")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for s3 output")
		}
	default:
		return fmt.Errorf("unsupported OUTPUT_MODE: %q", c.OutputMode)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}
