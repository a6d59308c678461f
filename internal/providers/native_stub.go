//go:build !cgo_nshmp

package providers

import (
	"fmt"

	"gmmbatch/internal/models"
)

// OpenLibrary is unavailable without the cgo_nshmp build tag.
// Rebuild with: go build -tags cgo_nshmp
func OpenLibrary(path string) (Library, error) {
	return nil, fmt.Errorf("%w: %w (built without cgo_nshmp tag, path %q)", models.ErrTransport, ErrLibraryUnavailable, path)
}
