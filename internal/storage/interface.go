package storage

import (
	"context"
)

// StorageClient persists the files of a batch run
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile writes data as folderPath/filename
	StoreFile(ctx context.Context, folderPath, filename string, data []byte) error

	// GetFile reads a file by its path relative to the storage root
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListRuns returns run folders holding an index.html, newest first.
	// A limit of zero or less returns all of them.
	ListRuns(ctx context.Context, limit int) ([]string, error)
}
