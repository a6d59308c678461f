package client

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"

	"gmmbatch/internal/inputs"
	"gmmbatch/internal/logger"
	"gmmbatch/internal/models"
	"gmmbatch/internal/providers"
)

// Options configures how requests are built
type Options struct {
	Service models.Service
	// RMin and RMax bound the distance sweep of the distance services
	RMin float64
	RMax float64
}

// Client turns input tables into provider calls and flattens the results
type Client struct {
	provider providers.Provider
	opts     Options
	log      *logger.Logger
}

// New creates a client that submits through provider
func New(provider providers.Provider, opts Options) *Client {
	if opts.Service == "" {
		opts.Service = models.ServiceSpectra
	}
	return &Client{
		provider: provider,
		opts:     opts,
		log:      logger.GetGlobalLogger().WithComponent("client"),
	}
}

// Batch is everything produced by one Run
type Batch struct {
	Table    models.InputTable
	Payload  *models.RequestPayload
	Response *models.ServiceResponse
	Rows     []models.RowSpectra
	Provider string
}

// LoadInputs reads an input table; see inputs.LoadInputs
func (c *Client) LoadInputs(source io.Reader) (models.InputTable, error) {
	return inputs.LoadInputs(source)
}

// BuildRequest encodes the table as the request body and the selection as
// query parameters, one gmm parameter per model.
func (c *Client) BuildRequest(table models.InputTable, sel models.ModelSelection) (*models.RequestPayload, error) {
	sel = models.NewModelSelection(sel.IMT, sel.Models...)
	if len(sel.Models) == 0 {
		return nil, fmt.Errorf("%w: at least one ground motion model is required", models.ErrInputFormat)
	}
	if c.opts.Service.NeedsDistance() && sel.IMT == "" {
		return nil, fmt.Errorf("%w: the %s service requires an IMT", models.ErrInputFormat, c.opts.Service)
	}

	body, err := inputs.EncodeTable(table)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for _, m := range sel.Models {
		query.Add("gmm", m)
	}
	if sel.IMT != "" {
		query.Set("imt", sel.IMT)
	}
	if c.opts.Service.NeedsDistance() {
		query.Set("rMin", strconv.FormatFloat(c.opts.RMin, 'g', -1, 64))
		query.Set("rMax", strconv.FormatFloat(c.opts.RMax, 'g', -1, 64))
	}

	return &models.RequestPayload{
		Service:   c.opts.Service,
		Body:      body,
		Query:     query,
		Table:     table,
		Selection: sel,
		RMin:      c.opts.RMin,
		RMax:      c.opts.RMax,
	}, nil
}

// Submit performs exactly one provider call
func (c *Client) Submit(ctx context.Context, payload *models.RequestPayload) (*models.ServiceResponse, error) {
	c.log.Info("Submitting GMM batch", map[string]interface{}{
		"provider": c.provider.Name(),
		"service":  string(payload.Service),
		"rows":     payload.Table.Len(),
		"models":   payload.Selection.Models,
	})

	resp, err := c.provider.Submit(ctx, payload)
	if err != nil {
		c.log.Error("GMM batch submission failed", err)
		return nil, err
	}
	return resp, nil
}

// ExtractSeries flattens a successful response into one RowSpectra per row.
// Any status other than success is refused, whatever else the response holds.
func (c *Client) ExtractSeries(resp *models.ServiceResponse) ([]models.RowSpectra, error) {
	return ExtractSeries(resp)
}

// ExtractSeries is the provider-independent form of Client.ExtractSeries
func ExtractSeries(resp *models.ServiceResponse) ([]models.RowSpectra, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: no response", models.ErrResponseShape)
	}
	if resp.Status != models.StatusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = "no message"
		}
		return nil, fmt.Errorf("%w: service returned status %q: %s", models.ErrResponseShape, resp.Status, msg)
	}

	rows := make([]models.RowSpectra, 0, len(resp.Response))
	for i, row := range resp.Response {
		spectra, err := extractRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", models.ErrResponseShape, i, err)
		}
		rows = append(rows, models.RowSpectra{
			Index:   i,
			Request: row.Request,
			Spectra: spectra,
		})
	}
	return rows, nil
}

func extractRow(row models.RowResponse) ([]models.SpectrumResult, error) {
	if row.Means == nil {
		return nil, fmt.Errorf("missing means section")
	}
	if row.Sigmas == nil {
		return nil, fmt.Errorf("missing sigmas section")
	}
	if len(row.Means.Data) == 0 {
		return nil, fmt.Errorf("means section has no series")
	}

	sigmas := make(map[string]models.Series, len(row.Sigmas.Data))
	for _, s := range row.Sigmas.Data {
		sigmas[s.ID] = s
	}

	out := make([]models.SpectrumResult, 0, len(row.Means.Data))
	for _, mean := range row.Means.Data {
		sigma, ok := sigmas[mean.ID]
		if !ok {
			return nil, fmt.Errorf("no sigma series for %s", mean.ID)
		}
		result, err := zip(mean, sigma)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mean.ID, err)
		}
		out = append(out, result)
	}
	return out, nil
}

// zip pairs a median series with its sigma series into ln-mean triples
func zip(mean, sigma models.Series) (models.SpectrumResult, error) {
	xs := mean.Data.Xs
	n := len(xs)
	if n == 0 {
		return models.SpectrumResult{}, fmt.Errorf("empty series")
	}
	if len(mean.Data.Ys) != n || len(sigma.Data.Xs) != n || len(sigma.Data.Ys) != n {
		return models.SpectrumResult{}, fmt.Errorf("series lengths differ (means %d/%d, sigmas %d/%d)",
			n, len(mean.Data.Ys), len(sigma.Data.Xs), len(sigma.Data.Ys))
	}

	result := models.SpectrumResult{
		Model:   mean.ID,
		Label:   mean.Label,
		Periods: make([]float64, n),
		Means:   make([]float64, n),
		Sigmas:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		if sigma.Data.Xs[i] != xs[i] {
			return models.SpectrumResult{}, fmt.Errorf("sigma period %g does not match mean period %g", sigma.Data.Xs[i], xs[i])
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return models.SpectrumResult{}, fmt.Errorf("periods not strictly ascending at index %d", i)
		}
		y := mean.Data.Ys[i]
		if y < 0 || math.IsNaN(y) || math.IsInf(y, 0) {
			return models.SpectrumResult{}, fmt.Errorf("invalid median %g at period %g", y, xs[i])
		}
		result.Periods[i] = xs[i]
		result.Means[i] = models.LnMedian(y)
		result.Sigmas[i] = sigma.Data.Ys[i]
	}
	return result, nil
}

// Run loads, builds, submits and extracts one batch. The extracted rows
// always match the submitted rows one to one.
func (c *Client) Run(ctx context.Context, source io.Reader, sel models.ModelSelection) (*Batch, error) {
	table, err := c.LoadInputs(source)
	if err != nil {
		return nil, err
	}
	payload, err := c.BuildRequest(table, sel)
	if err != nil {
		return nil, err
	}
	resp, err := c.Submit(ctx, payload)
	if err != nil {
		return nil, err
	}
	rows, err := c.ExtractSeries(resp)
	if err != nil {
		return nil, err
	}
	if len(rows) != table.Len() {
		return nil, fmt.Errorf("%w: submitted %d rows, service returned %d", models.ErrResponseShape, table.Len(), len(rows))
	}

	c.log.Info("GMM batch complete", map[string]interface{}{
		"rows":    len(rows),
		"spectra": len(models.Flatten(rows)),
	})
	return &Batch{
		Table:    table,
		Payload:  payload,
		Response: resp,
		Rows:     rows,
		Provider: c.provider.Name(),
	}, nil
}
