package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gmmbatch/internal/logger"
)

// LocalStorageClient stores runs under a directory on disk
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates the base directory if needed
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStorageClient{baseDir: baseDir}, nil
}

// BaseDir returns the storage root
func (l *LocalStorageClient) BaseDir() string {
	return l.baseDir
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile implements StorageClient
func (l *LocalStorageClient) StoreFile(ctx context.Context, folderPath, filename string, data []byte) error {
	filePath := filepath.Join(l.baseDir, filepath.FromSlash(folderPath), filename)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	logger.Debug("Stored file locally", map[string]interface{}{"path": filePath, "bytes": len(data)})
	return nil
}

// GetFile implements StorageClient
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(filePath)))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListRuns implements StorageClient
func (l *LocalStorageClient) ListRuns(ctx context.Context, limit int) ([]string, error) {
	var names []string
	err := filepath.WalkDir(l.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != IndexFile {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", l.baseDir, err)
	}
	return runsFromObjects(names, limit), nil
}
