package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Response status tags
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUsage   = "usage"
)

// Service identifies which GMM endpoint a batch targets
type Service string

const (
	ServiceSpectra     Service = "spectra"
	ServiceDistance    Service = "distance"
	ServiceHangingWall Service = "hw-fw"
)

// ParseService maps a configuration string to a Service
func ParseService(s string) (Service, error) {
	switch Service(strings.ToLower(strings.TrimSpace(s))) {
	case "", ServiceSpectra:
		return ServiceSpectra, nil
	case ServiceDistance:
		return ServiceDistance, nil
	case ServiceHangingWall:
		return ServiceHangingWall, nil
	default:
		return "", fmt.Errorf("unsupported GMM service: %q", s)
	}
}

// Path returns the endpoint path relative to the service base URL
func (s Service) Path() string {
	return "/gmm/" + string(s)
}

// NeedsDistance reports whether the service requires imt, rMin and rMax
func (s Service) NeedsDistance() bool {
	return s == ServiceDistance || s == ServiceHangingWall
}

// RequestPayload is a fully built outbound request. Body and Query are what
// the remote service receives; Table and Selection are kept for providers
// that call a library directly.
type RequestPayload struct {
	Service   Service
	Body      []byte
	Query     url.Values
	Table     InputTable
	Selection ModelSelection
	RMin      float64
	RMax      float64
}

// ServiceResponse is the decoded result of one batch call
type ServiceResponse struct {
	Name     string          `json:"name,omitempty"`
	Status   string          `json:"status"`
	Date     string          `json:"date,omitempty"`
	URL      string          `json:"url,omitempty"`
	Message  string          `json:"message,omitempty"`
	Request  json.RawMessage `json:"request,omitempty"`
	Server   json.RawMessage `json:"server,omitempty"`
	Response []RowResponse   `json:"response,omitempty"`
}

// RowResponse is the service result for one input row
type RowResponse struct {
	Name    string        `json:"name,omitempty"`
	Status  string        `json:"status,omitempty"`
	Date    string        `json:"date,omitempty"`
	URL     string        `json:"url,omitempty"`
	Request EchoedRequest `json:"request"`
	Means   *XYDataGroup  `json:"means"`
	Sigmas  *XYDataGroup  `json:"sigmas"`
}

// EchoedRequest is the service's echo of the models and resolved input
type EchoedRequest struct {
	GMMs        []string    `json:"gmms"`
	Input       EchoedInput `json:"input"`
	IMT         string      `json:"imt,omitempty"`
	MinDistance *float64    `json:"minDistance,omitempty"`
	MaxDistance *float64    `json:"maxDistance,omitempty"`
}

// XYDataGroup is a labelled group of series, one per model
type XYDataGroup struct {
	Label  string   `json:"label,omitempty"`
	XLabel string   `json:"xLabel,omitempty"`
	YLabel string   `json:"yLabel,omitempty"`
	Data   []Series `json:"data"`
}

// Series is one model's xs/ys pair within a group
type Series struct {
	ID    string     `json:"id"`
	Label string     `json:"label,omitempty"`
	Data  XYSequence `json:"data"`
}

// XYSequence holds parallel x and y arrays
type XYSequence struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// EchoedInput is the resolved input the service used. Numbers, booleans
// (vsInf) and nulls (NaN defaults) all appear in the echo.
type EchoedInput map[string]Value

// UnmarshalJSON accepts numbers, booleans and null per field
func (e *EchoedInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(EchoedInput, len(raw))
	for k, msg := range raw {
		msg = bytes.TrimSpace(msg)
		switch {
		case len(msg) == 0 || bytes.Equal(msg, []byte("null")):
			out[k] = Default
		case bytes.Equal(msg, []byte("true")):
			out[k] = Number(1)
		case bytes.Equal(msg, []byte("false")):
			out[k] = Number(0)
		default:
			var f float64
			if err := json.Unmarshal(msg, &f); err != nil {
				return fmt.Errorf("input field %s: %w", k, err)
			}
			out[k] = Number(f)
		}
	}
	*e = out
	return nil
}

// MarshalJSON writes booleans for boolean fields and null for the sentinel
func (e EchoedInput) MarshalJSON() ([]byte, error) {
	raw := make(map[string]interface{}, len(e))
	for k, v := range e {
		switch {
		case !v.Set:
			raw[k] = nil
		case isBooleanField(k):
			raw[k] = v.Number != 0
		default:
			raw[k] = v.Number
		}
	}
	return json.Marshal(raw)
}

func isBooleanField(id string) bool {
	f, ok := LookupField(id)
	return ok && f.Boolean
}
