package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
)

const maxLoggedBody = 200

// RemoteServiceProvider posts batches to the nshmp-haz GMM web service
type RemoteServiceProvider struct {
	client  *resty.Client
	baseURL string
	log     *logger.Logger
}

// NewRemoteServiceProvider creates a provider for the service rooted at baseURL.
// Retries are disabled: one Submit is one attempt.
func NewRemoteServiceProvider(baseURL string, timeout time.Duration) *RemoteServiceProvider {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")

	return &RemoteServiceProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.GetGlobalLogger().WithComponent("remote-provider"),
	}
}

// Name implements Provider
func (p *RemoteServiceProvider) Name() string {
	return "remote"
}

// Endpoint returns the full URL a payload for svc is posted to
func (p *RemoteServiceProvider) Endpoint(svc models.Service) string {
	return p.baseURL + svc.Path()
}

// Submit implements Provider
func (p *RemoteServiceProvider) Submit(ctx context.Context, payload *models.RequestPayload) (*models.ServiceResponse, error) {
	endpoint := p.Endpoint(payload.Service)
	p.log.Debug("Posting GMM batch", map[string]interface{}{
		"url":   endpoint,
		"rows":  payload.Table.Len(),
		"query": payload.Query.Encode(),
	})

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/csv").
		SetQueryParamsFromValues(payload.Query).
		SetBody(payload.Body).
		Post(endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: GMM request to %s abandoned: %w", models.ErrTransport, endpoint, ctxErr)
		}
		return nil, fmt.Errorf("%w: failed to reach GMM service at %s: %w", models.ErrTransport, endpoint, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		body := resp.Body()
		if len(body) > maxLoggedBody {
			body = body[:maxLoggedBody]
		}
		p.log.Warnf("GMM service returned status %d, response: %s", resp.StatusCode(), string(body))
		return nil, fmt.Errorf("%w: GMM service returned status %d", models.ErrTransport, resp.StatusCode())
	}

	return decodeServiceResponse(resp.Body())
}

func decodeServiceResponse(body []byte) (*models.ServiceResponse, error) {
	var out models.ServiceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse GMM service response: %w", models.ErrDecode, err)
	}
	if out.Status == "" {
		return nil, fmt.Errorf("%w: GMM service response has no status", models.ErrDecode)
	}
	return &out, nil
}
