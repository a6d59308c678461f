package mocks

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"gmmbatch/internal/inputs"
	"gmmbatch/internal/models"
	"gmmbatch/internal/providers"
)

// SpectrumPeriods are the periods the mock service and library report
var SpectrumPeriods = []float64{0, 0.1, 0.2, 0.5, 1.0, 2.0}

// LnMean is the mock ground motion relation: it varies with dip, magnitude
// and period so rows differing in one parameter give different spectra.
func LnMean(s models.Scenario, period float64) float64 {
	return -1.0 + 0.5*(s.Mw-6.5) - s.Dip/100.0 - period
}

// Sigma is the mock aleatory variability for a period
func Sigma(period float64) float64 {
	return 0.6 + period/10.0
}

// MockGMMService is an in-memory stand-in for the /gmm/* endpoints
type MockGMMService struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest

	// Status forces the top-level status of every response when non-empty
	Status string
	// Message is returned alongside a forced error status
	Message string
	// DropSigmas omits the sigmas section from every row
	DropSigmas bool
	// RawBody replaces the JSON response entirely when non-nil
	RawBody []byte
	// HTTPStatus replaces 200 when non-zero
	HTTPStatus int
}

// RecordedRequest is what the mock observed for one call
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	GMMs        []string
	IMT         string
	Body        string
}

// NewMockGMMService starts the mock; callers Close it
func NewMockGMMService() *MockGMMService {
	m := &MockGMMService{}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the service base URL
func (m *MockGMMService) URL() string {
	return m.Server.URL
}

// Close shuts the server down
func (m *MockGMMService) Close() {
	m.Server.Close()
}

// Requests returns a copy of the recorded calls
func (m *MockGMMService) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

func (m *MockGMMService) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	body := string(raw)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		GMMs:        r.URL.Query()["gmm"],
		IMT:         r.URL.Query().Get("imt"),
		Body:        body,
	})
	m.mu.Unlock()

	if m.HTTPStatus != 0 {
		w.WriteHeader(m.HTTPStatus)
		fmt.Fprint(w, "service unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if m.RawBody != nil {
		w.Write(m.RawBody)
		return
	}
	if m.Status == models.StatusError {
		json.NewEncoder(w).Encode(models.ServiceResponse{
			Status:  models.StatusError,
			Message: m.Message,
		})
		return
	}

	gmms := r.URL.Query()["gmm"]
	if len(gmms) == 0 {
		json.NewEncoder(w).Encode(models.ServiceResponse{Status: models.StatusUsage})
		return
	}

	table, err := inputs.LoadInputs(strings.NewReader(body))
	if err != nil {
		json.NewEncoder(w).Encode(models.ServiceResponse{
			Status:  models.StatusError,
			Message: err.Error() + " (see logs)",
		})
		return
	}

	resp := models.ServiceResponse{
		Name:   "Deterministic Response Spectra Results",
		Status: models.StatusSuccess,
		URL:    r.URL.String(),
	}
	if m.Status != "" {
		resp.Status = m.Status
	}
	for _, row := range table.Rows {
		resp.Response = append(resp.Response, m.rowResponse(gmms, models.ScenarioFromRow(row)))
	}
	json.NewEncoder(w).Encode(resp)
}

func (m *MockGMMService) rowResponse(gmms []string, s models.Scenario) models.RowResponse {
	row := models.RowResponse{
		Status:  models.StatusSuccess,
		Request: models.EchoedRequest{GMMs: gmms, Input: s.Echo()},
		Means:   &models.XYDataGroup{Label: "Means", XLabel: "Period (s)", YLabel: "Median ground motion (g)"},
	}
	if !m.DropSigmas {
		row.Sigmas = &models.XYDataGroup{Label: "Sigmas", XLabel: "Period (s)", YLabel: "Standard deviation"}
	}

	lib := &MockLibrary{}
	for _, gmm := range gmms {
		spec, _ := lib.Spectrum(gmm, s)
		medians := make([]float64, len(spec.Means))
		for i, v := range spec.Means {
			medians[i] = expRound(v)
		}
		row.Means.Data = append(row.Means.Data, models.Series{
			ID: gmm, Label: gmm,
			Data: models.XYSequence{Xs: spec.Periods, Ys: medians},
		})
		if row.Sigmas != nil {
			row.Sigmas.Data = append(row.Sigmas.Data, models.Series{
				ID: gmm, Label: gmm,
				Data: models.XYSequence{Xs: spec.Periods, Ys: spec.Sigmas},
			})
		}
	}
	return row
}

// MockLibrary is a deterministic providers.Library
type MockLibrary struct {
	mu     sync.Mutex
	Calls  int
	Closed bool
	// FailModel makes every call for that model return an error
	FailModel string
}

var _ providers.Library = (*MockLibrary)(nil)

// Spectrum implements providers.Library
func (l *MockLibrary) Spectrum(gmm string, input models.Scenario) (providers.Spectrum, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	if gmm == l.FailModel {
		return providers.Spectrum{}, fmt.Errorf("unsupported model %s", gmm)
	}

	spec := providers.Spectrum{
		Periods: append([]float64(nil), SpectrumPeriods...),
		Means:   make([]float64, len(SpectrumPeriods)),
		Sigmas:  make([]float64, len(SpectrumPeriods)),
	}
	for i, p := range SpectrumPeriods {
		spec.Means[i] = LnMean(input, p)
		spec.Sigmas[i] = Sigma(p)
	}
	return spec, nil
}

// GroundMotion implements providers.Library
func (l *MockLibrary) GroundMotion(gmm, imt string, input models.Scenario) (providers.GroundMotion, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Calls++
	if gmm == l.FailModel {
		return providers.GroundMotion{}, fmt.Errorf("unsupported model %s", gmm)
	}
	period, ok := models.ImtPeriod(imt)
	if !ok {
		return providers.GroundMotion{}, fmt.Errorf("unsupported IMT %s", imt)
	}
	return providers.GroundMotion{Mean: LnMean(input, period), Sigma: Sigma(period)}, nil
}

// Close implements providers.Library
func (l *MockLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Closed = true
	return nil
}

// expRound converts a ln mean to a median rounded to five decimals, matching
// the precision the live service reports.
func expRound(lnMean float64) float64 {
	return math.Round(math.Exp(lnMean)*1e5) / 1e5
}
