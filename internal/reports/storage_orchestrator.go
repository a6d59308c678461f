package reports

import (
	"context"
	"fmt"

	"gmmbatch/internal/logger"
	"gmmbatch/internal/storage"
)

// StorageOrchestrator writes generated files through a storage client
type StorageOrchestrator struct {
	storage storage.StorageClient
}

// NewStorageOrchestrator creates a new storage orchestrator
func NewStorageOrchestrator(client storage.StorageClient) *StorageOrchestrator {
	return &StorageOrchestrator{storage: client}
}

// StoreAllFiles stores every file of the run; index.html goes last so a
// listed run is always complete.
func (so *StorageOrchestrator) StoreAllFiles(ctx context.Context, files *GeneratedFiles) error {
	for _, name := range files.Names() {
		if err := so.storage.StoreFile(ctx, files.FolderPath, name, files.Files[name]); err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
	}

	logger.Info("Run files stored", map[string]interface{}{
		"folder": files.FolderPath,
		"files":  len(files.Files),
	})
	return nil
}
