package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gmmbatch/internal/models"
)

// Provider performs one blocking GMM batch calculation
type Provider interface {
	// Name identifies the provider in logs and reports
	Name() string

	// Submit issues exactly one call for the payload and decodes the result.
	// Failures wrap models.ErrTransport or models.ErrDecode.
	Submit(ctx context.Context, payload *models.RequestPayload) (*models.ServiceResponse, error)
}

// Options selects and configures a provider
type Options struct {
	Kind        string // remote or embedded
	ServiceURL  string
	Timeout     time.Duration
	LibraryPath string
}

// New builds the provider named by opts.Kind
func New(opts Options) (Provider, error) {
	switch strings.ToLower(opts.Kind) {
	case "", "remote":
		return NewRemoteServiceProvider(opts.ServiceURL, opts.Timeout), nil
	case "embedded":
		lib, err := OpenLibrary(opts.LibraryPath)
		if err != nil {
			return nil, err
		}
		return NewEmbeddedLibraryProvider(lib), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", opts.Kind)
	}
}
