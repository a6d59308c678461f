package providers_test

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gmmbatch/internal/inputs"
	"gmmbatch/internal/mocks"
	"gmmbatch/internal/models"
	"gmmbatch/internal/providers"
)

func dipPayload(t *testing.T, gmms ...string) *models.RequestPayload {
	t.Helper()
	var scenarios []models.Scenario
	for _, dip := range []float64{0, 45, 90} {
		s := models.NewScenario()
		s.Dip = dip
		scenarios = append(scenarios, s)
	}
	table := inputs.TableFromScenarios(scenarios...)
	body, err := inputs.EncodeTable(table)
	require.NoError(t, err)

	query := url.Values{}
	for _, m := range gmms {
		query.Add("gmm", m)
	}
	return &models.RequestPayload{
		Service:   models.ServiceSpectra,
		Body:      body,
		Query:     query,
		Table:     table,
		Selection: models.NewModelSelection("", gmms...),
	}
}

func TestRemoteSubmitSuccess(t *testing.T) {
	svc := mocks.NewMockGMMService()
	defer svc.Close()

	p := providers.NewRemoteServiceProvider(svc.URL()+"/", 5*time.Second)
	resp, err := p.Submit(context.Background(), dipPayload(t, "AB_06_PRIME", "CB_14"))
	require.NoError(t, err)

	assert.Equal(t, models.StatusSuccess, resp.Status)
	require.Len(t, resp.Response, 3)
	assert.Equal(t, []string{"AB_06_PRIME", "CB_14"}, resp.Response[0].Request.GMMs)
	require.Len(t, resp.Response[1].Means.Data, 2)
	assert.Equal(t, models.Number(45), resp.Response[1].Request.Input[models.FieldDip])

	reqs := svc.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "/gmm/spectra", reqs[0].Path)
	assert.Equal(t, "text/csv", reqs[0].ContentType)
	assert.Equal(t, []string{"AB_06_PRIME", "CB_14"}, reqs[0].GMMs)
	assert.Contains(t, reqs[0].Body, "Mw,rJB,rRup")
}

func TestRemoteEndpoint(t *testing.T) {
	p := providers.NewRemoteServiceProvider("http://example.org/nshmp-haz-ws/", time.Second)
	assert.Equal(t, "remote", p.Name())
	assert.Equal(t, "http://example.org/nshmp-haz-ws/gmm/spectra", p.Endpoint(models.ServiceSpectra))
	assert.Equal(t, "http://example.org/nshmp-haz-ws/gmm/hw-fw", p.Endpoint(models.ServiceHangingWall))
}

func TestRemoteServiceErrorStatusIsNotGoError(t *testing.T) {
	svc := mocks.NewMockGMMService()
	defer svc.Close()
	svc.Status = models.StatusError
	svc.Message = "Invalid GMM: FOO"

	p := providers.NewRemoteServiceProvider(svc.URL(), 5*time.Second)
	resp, err := p.Submit(context.Background(), dipPayload(t, "FOO"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "Invalid GMM: FOO", resp.Message)
	assert.Empty(t, resp.Response)
}

func TestRemoteFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mocks.MockGMMService)
		wantErr error
	}{
		{
			name:    "non-2xx status",
			setup:   func(m *mocks.MockGMMService) { m.HTTPStatus = http.StatusServiceUnavailable },
			wantErr: models.ErrTransport,
		},
		{
			name:    "invalid JSON",
			setup:   func(m *mocks.MockGMMService) { m.RawBody = []byte("<html>not json</html>") },
			wantErr: models.ErrDecode,
		},
		{
			name:    "missing status",
			setup:   func(m *mocks.MockGMMService) { m.RawBody = []byte(`{"name":"x","response":[]}`) },
			wantErr: models.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockGMMService()
			defer svc.Close()
			tt.setup(svc)

			p := providers.NewRemoteServiceProvider(svc.URL(), 5*time.Second)
			resp, err := p.Submit(context.Background(), dipPayload(t, "AB_06_PRIME"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Len(t, svc.Requests(), 1)
		})
	}
}

func TestRemoteUnreachableHost(t *testing.T) {
	svc := mocks.NewMockGMMService()
	base := svc.URL()
	svc.Close()

	p := providers.NewRemoteServiceProvider(base, 2*time.Second)
	_, err := p.Submit(context.Background(), dipPayload(t, "AB_06_PRIME"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
}

func TestRemoteCancelledContext(t *testing.T) {
	svc := mocks.NewMockGMMService()
	defer svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := providers.NewRemoteServiceProvider(svc.URL(), 5*time.Second)
	_, err := p.Submit(ctx, dipPayload(t, "AB_06_PRIME"))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	p, err := providers.New(providers.Options{Kind: "remote", ServiceURL: "http://localhost:1", Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "remote", p.Name())

	_, err = providers.New(providers.Options{Kind: "carrier-pigeon"})
	assert.Error(t, err)
}
