package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmmbatch/internal/config"
)

func TestNewStorageClientLocal(t *testing.T) {
	cfg := &config.Config{LocalOutputDir: t.TempDir()}

	client, err := NewStorageClient(context.Background(), OutputLocal, cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &LocalStorageClient{}, client)
}

func TestNewStorageClientS3(t *testing.T) {
	cfg := &config.Config{
		S3Bucket:    "gmm-runs",
		S3Endpoint:  "http://127.0.0.1:9000",
		S3Region:    "auto",
		S3AccessKey: "key",
		S3SecretKey: "secret",
	}

	client, err := NewStorageClient(context.Background(), OutputS3, cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.IsType(t, &S3Client{}, client)
}

func TestNewStorageClientRequiresBucket(t *testing.T) {
	_, err := NewStorageClient(context.Background(), OutputGCS, &config.Config{})
	assert.Error(t, err)

	_, err = NewStorageClient(context.Background(), OutputS3, &config.Config{})
	assert.Error(t, err)
}

func TestNewStorageClientUnsupported(t *testing.T) {
	_, err := NewStorageClient(context.Background(), OutputMode("ftp"), &config.Config{})
	assert.Error(t, err)
}

func TestParseOutputMode(t *testing.T) {
	assert.Equal(t, OutputS3, ParseOutputMode(" S3 "))
	assert.Equal(t, OutputLocal, ParseOutputMode("local"))
}
