package models

import (
	"math"
	"strconv"
	"strings"
)

// SentinelToken is the cell value meaning "omit, let the service use its default"
const SentinelToken = "null"

// Value is a single scenario parameter. The zero Value is the sentinel.
type Value struct {
	Number float64
	Set    bool
}

// Default is the sentinel value
var Default = Value{}

// Number wraps a concrete parameter value
func Number(v float64) Value {
	return Value{Number: v, Set: true}
}

// IsSentinel reports whether the cell text means "use the default"
func IsSentinel(cell string) bool {
	cell = strings.TrimSpace(cell)
	return cell == "" || strings.EqualFold(cell, SentinelToken)
}

// Format renders the value as a request cell for the given field id
func (v Value) Format(id string) string {
	if !v.Set {
		return SentinelToken
	}
	if f, ok := LookupField(id); ok && f.Boolean {
		return strconv.FormatBool(v.Number != 0)
	}
	return strconv.FormatFloat(v.Number, 'g', -1, 64)
}

// InputRow maps parameter name to value for one scenario
type InputRow map[string]Value

// InputTable is an ordered batch of scenarios. Header holds the column
// order; every row has an entry for every header name.
type InputTable struct {
	Header []string
	Rows   []InputRow
}

// Len returns the number of rows
func (t InputTable) Len() int {
	return len(t.Rows)
}

// ModelSelection names the models and intensity measure to compute.
// An empty IMT selects spectrum mode.
type ModelSelection struct {
	Models []string `json:"gmms"`
	IMT    string   `json:"imt,omitempty"`
}

// NewModelSelection trims and de-duplicates model ids, keeping first-seen order
func NewModelSelection(imt string, models ...string) ModelSelection {
	seen := make(map[string]bool, len(models))
	sel := ModelSelection{IMT: strings.TrimSpace(imt)}
	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		sel.Models = append(sel.Models, m)
	}
	return sel
}

// SpectrumResult holds one model's result for one row. Means are natural
// log ground motion; Periods are strictly ascending.
type SpectrumResult struct {
	Model   string    `json:"gmm"`
	Label   string    `json:"label,omitempty"`
	Periods []float64 `json:"periods"`
	Means   []float64 `json:"means"`
	Sigmas  []float64 `json:"sigmas"`
}

// Len returns the number of (period, mean, sigma) triples
func (s SpectrumResult) Len() int {
	return len(s.Periods)
}

// Medians returns exp(mean) for each period, in g
func (s SpectrumResult) Medians() []float64 {
	out := make([]float64, len(s.Means))
	for i, m := range s.Means {
		out[i] = math.Exp(m)
	}
	return out
}

// MedianFloor stands in for medians the service reports as 0. The service
// rounds medians to 1e-5 g, so a 0 means anything below 5e-6 g.
const MedianFloor = 5e-6

// LnMedian returns the natural log of a reported median, flooring zeros at
// MedianFloor so the result stays finite.
func LnMedian(median float64) float64 {
	if median < MedianFloor {
		median = MedianFloor
	}
	return math.Log(median)
}

// RowSpectra is the extracted result for one input row, one spectrum per model
type RowSpectra struct {
	Index   int              `json:"row"`
	Request EchoedRequest    `json:"request"`
	Spectra []SpectrumResult `json:"spectra"`
}

// Flatten concatenates the per-model spectra of every row in row order
func Flatten(rows []RowSpectra) []SpectrumResult {
	var out []SpectrumResult
	for _, r := range rows {
		out = append(out, r.Spectra...)
	}
	return out
}
