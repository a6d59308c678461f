package providers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
)

// ErrLibraryUnavailable is returned when no native GMM library can be loaded
var ErrLibraryUnavailable = errors.New("native GMM library unavailable")

// Spectrum is a library spectrum result; Means are natural log values
type Spectrum struct {
	Periods []float64
	Means   []float64
	Sigmas  []float64
}

// GroundMotion is a single-IMT library result
type GroundMotion struct {
	Mean  float64 // natural log
	Sigma float64
}

// Library is an in-process GMM calculator for one scenario at a time
type Library interface {
	Spectrum(gmm string, input models.Scenario) (Spectrum, error)
	GroundMotion(gmm, imt string, input models.Scenario) (GroundMotion, error)
	Close() error
}

// EmbeddedLibraryProvider evaluates a batch row by row against a Library and
// returns the same response shape the remote service produces.
type EmbeddedLibraryProvider struct {
	lib Library
	mu  sync.Mutex
	log *logger.Logger
}

// NewEmbeddedLibraryProvider wraps an opened library
func NewEmbeddedLibraryProvider(lib Library) *EmbeddedLibraryProvider {
	return &EmbeddedLibraryProvider{
		lib: lib,
		log: logger.GetGlobalLogger().WithComponent("embedded-provider"),
	}
}

// Name implements Provider
func (p *EmbeddedLibraryProvider) Name() string {
	return "embedded"
}

// Close releases the library
func (p *EmbeddedLibraryProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lib.Close()
}

// Submit implements Provider. Library failures for a model are reported the
// way the service reports them: as an error status, not a Go error.
func (p *EmbeddedLibraryProvider) Submit(ctx context.Context, payload *models.RequestPayload) (*models.ServiceResponse, error) {
	if payload.Service != models.ServiceSpectra {
		return nil, fmt.Errorf("%w: embedded provider does not support the %s service", models.ErrTransport, payload.Service)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	out := &models.ServiceResponse{
		Name:   "Deterministic Response Spectra Results",
		Status: models.StatusSuccess,
		Date:   time.Now().UTC().Format(time.RFC3339),
	}

	sel := payload.Selection
	for i, row := range payload.Table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrTransport, err)
		}

		scenario := models.ScenarioFromRow(row)
		rowResp, err := p.evaluate(sel, scenario)
		if err != nil {
			p.log.Error("Library calculation failed", err, map[string]interface{}{"row": i})
			return &models.ServiceResponse{
				Status:  models.StatusError,
				Message: fmt.Sprintf("row %d: %v", i, err),
			}, nil
		}
		out.Response = append(out.Response, rowResp)
	}

	p.log.Debug("Embedded batch complete", map[string]interface{}{
		"rows":   len(out.Response),
		"models": len(sel.Models),
	})
	return out, nil
}

func (p *EmbeddedLibraryProvider) evaluate(sel models.ModelSelection, scenario models.Scenario) (models.RowResponse, error) {
	xLabel := "Period (s)"
	row := models.RowResponse{
		Status: models.StatusSuccess,
		Request: models.EchoedRequest{
			GMMs:  sel.Models,
			Input: scenario.Echo(),
			IMT:   sel.IMT,
		},
		Means:  &models.XYDataGroup{Label: "Means", XLabel: xLabel, YLabel: "Median ground motion (g)"},
		Sigmas: &models.XYDataGroup{Label: "Sigmas", XLabel: xLabel, YLabel: "Standard deviation"},
	}

	for _, gmm := range sel.Models {
		var spec Spectrum
		if sel.IMT == "" {
			s, err := p.lib.Spectrum(gmm, scenario)
			if err != nil {
				return row, fmt.Errorf("%s spectrum: %w", gmm, err)
			}
			spec = s
		} else {
			gm, err := p.lib.GroundMotion(gmm, sel.IMT, scenario)
			if err != nil {
				return row, fmt.Errorf("%s %s: %w", gmm, sel.IMT, err)
			}
			spec = Spectrum{
				Periods: []float64{scalarPeriod(sel.IMT)},
				Means:   []float64{gm.Mean},
				Sigmas:  []float64{gm.Sigma},
			}
		}

		medians := make([]float64, len(spec.Means))
		for i, m := range spec.Means {
			medians[i] = math.Exp(m)
		}
		row.Means.Data = append(row.Means.Data, models.Series{
			ID:    gmm,
			Label: gmm,
			Data:  models.XYSequence{Xs: spec.Periods, Ys: medians},
		})
		row.Sigmas.Data = append(row.Sigmas.Data, models.Series{
			ID:    gmm,
			Label: gmm,
			Data:  models.XYSequence{Xs: spec.Periods, Ys: spec.Sigmas},
		})
	}
	return row, nil
}

// scalarPeriod is the x value a single-IMT result is reported at
func scalarPeriod(imt string) float64 {
	period, ok := models.ImtPeriod(imt)
	if !ok {
		// PGV and other non-spectral IMTs sit at the PGA position
		return 0
	}
	return period
}
