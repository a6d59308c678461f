package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		expectError bool
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "remote", cfg.Provider)
				assert.Equal(t, "https://earthquake.usgs.gov/nshmp-haz-ws", cfg.ServiceURL)
				assert.Equal(t, "spectra", cfg.Service)
				assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
				assert.Equal(t, []string{"AB_06_PRIME"}, cfg.Models)
				assert.Empty(t, cfg.IMT)
				assert.Equal(t, "local", cfg.OutputMode)
				assert.Equal(t, "./runs", cfg.LocalOutputDir)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "json", cfg.LogFormat)
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"GMM_SERVICE_URL": "http://localhost:8080/nshmp-haz-ws",
				"GMM_SERVICE":     "distance",
				"GMM_MODELS":      "AB_06_PRIME,CAMPBELL_03",
				"GMM_IMT":         "PGA",
				"GMM_R_MAX":       "300",
				"REQUEST_TIMEOUT": "5s",
				"OUTPUT_MODE":     "gcs",
				"GCS_BUCKET":      "gmm-runs",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:8080/nshmp-haz-ws", cfg.ServiceURL)
				assert.Equal(t, "distance", cfg.Service)
				assert.Equal(t, []string{"AB_06_PRIME", "CAMPBELL_03"}, cfg.Models)
				assert.Equal(t, "PGA", cfg.IMT)
				assert.Equal(t, 300.0, cfg.RMax)
				assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
				assert.Equal(t, "gmm-runs", cfg.GCSBucket)
			},
		},
		{
			name: "embedded provider with library",
			envVars: map[string]string{
				"GMM_PROVIDER": "embedded",
				"GMM_LIB_PATH": "/opt/nshmp/libnshmp.so",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/opt/nshmp/libnshmp.so", cfg.LibraryPath)
			},
		},
		{
			name:        "embedded provider without library",
			envVars:     map[string]string{"GMM_PROVIDER": "embedded"},
			expectError: true,
		},
		{
			name:        "unknown provider",
			envVars:     map[string]string{"GMM_PROVIDER": "grpc"},
			expectError: true,
		},
		{
			name:        "gcs without bucket",
			envVars:     map[string]string{"OUTPUT_MODE": "gcs"},
			expectError: true,
		},
		{
			name:        "s3 without bucket",
			envVars:     map[string]string{"OUTPUT_MODE": "s3"},
			expectError: true,
		},
		{
			name:        "unknown output mode",
			envVars:     map[string]string{"OUTPUT_MODE": "ftp"},
			expectError: true,
		},
		{
			name:        "invalid timeout",
			envVars:     map[string]string{"REQUEST_TIMEOUT": "soon"},
			expectError: true,
		},
		{
			name:        "zero timeout",
			envVars:     map[string]string{"REQUEST_TIMEOUT": "0s"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load(context.Background(), envconfig.MapLookuper(tt.envVars))
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}
