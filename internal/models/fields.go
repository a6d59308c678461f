package models

import (
	"math"
	"strings"
)

// Field describes one ground motion model input parameter
type Field struct {
	ID           string  // Header and query key as understood by the service
	Label        string  // Human readable name
	Units        string  // Empty for unitless fields
	DefaultValue float64 // Value the service substitutes for a missing cell
	Boolean      bool    // Encoded as true/false rather than a number
}

// Input field identifiers
const (
	FieldMw    = "Mw"
	FieldRJB   = "rJB"
	FieldRRup  = "rRup"
	FieldRX    = "rX"
	FieldDip   = "dip"
	FieldWidth = "width"
	FieldZTop  = "zTop"
	FieldZHyp  = "zHyp"
	FieldRake  = "rake"
	FieldVs30  = "vs30"
	FieldVsInf = "vsInf"
	FieldZ1p0  = "z1p0"
	FieldZ2p5  = "z2p5"
)

// Fields lists the service input fields in canonical order.
// NaN defaults mean the model itself picks a basin depth.
var Fields = []Field{
	{ID: FieldMw, Label: "Magnitude", DefaultValue: 6.5},
	{ID: FieldRJB, Label: "Joyner-Boore Distance", Units: "km", DefaultValue: 10.0},
	{ID: FieldRRup, Label: "Rupture Distance", Units: "km", DefaultValue: 10.3},
	{ID: FieldRX, Label: "Distance X", Units: "km", DefaultValue: 10.0},
	{ID: FieldDip, Label: "Dip", Units: "°", DefaultValue: 90.0},
	{ID: FieldWidth, Label: "Width", Units: "km", DefaultValue: 14.0},
	{ID: FieldZTop, Label: "Depth", Units: "km", DefaultValue: 0.5},
	{ID: FieldZHyp, Label: "Hypocentral Depth", Units: "km", DefaultValue: 7.5},
	{ID: FieldRake, Label: "Rake", Units: "°", DefaultValue: 0.0},
	{ID: FieldVs30, Label: "Vs30", Units: "m/s", DefaultValue: 760.0},
	{ID: FieldVsInf, Label: "Vs30 Inferred", DefaultValue: 1.0, Boolean: true},
	{ID: FieldZ1p0, Label: "Depth to Vs=1.0 km/s", Units: "km", DefaultValue: math.NaN()},
	{ID: FieldZ2p5, Label: "Depth to Vs=2.5 km/s", Units: "km", DefaultValue: math.NaN()},
}

// LookupField finds a field by id, ignoring case
func LookupField(id string) (Field, bool) {
	for _, f := range Fields {
		if strings.EqualFold(f.ID, id) {
			return f, true
		}
	}
	return Field{}, false
}

// CanonicalFieldID returns the canonical spelling of a known field id and
// the trimmed input otherwise.
func CanonicalFieldID(id string) string {
	id = strings.TrimSpace(id)
	if f, ok := LookupField(id); ok {
		return f.ID
	}
	return id
}

// Scenario is a typed set of input parameters. Use NewScenario for one
// filled with the service defaults.
type Scenario struct {
	Mw    float64
	RJB   float64
	RRup  float64
	RX    float64
	Dip   float64
	Width float64
	ZTop  float64
	ZHyp  float64
	Rake  float64
	Vs30  float64
	VsInf bool
	Z1p0  float64
	Z2p5  float64
}

// NewScenario returns a scenario with every field at its documented default
func NewScenario() Scenario {
	return Scenario{
		Mw:    6.5,
		RJB:   10.0,
		RRup:  10.3,
		RX:    10.0,
		Dip:   90.0,
		Width: 14.0,
		ZTop:  0.5,
		ZHyp:  7.5,
		Rake:  0.0,
		Vs30:  760.0,
		VsInf: true,
		Z1p0:  math.NaN(),
		Z2p5:  math.NaN(),
	}
}

// Row converts the scenario to an InputRow. NaN fields become the sentinel.
func (s Scenario) Row() InputRow {
	vsInf := 0.0
	if s.VsInf {
		vsInf = 1.0
	}
	values := map[string]float64{
		FieldMw:    s.Mw,
		FieldRJB:   s.RJB,
		FieldRRup:  s.RRup,
		FieldRX:    s.RX,
		FieldDip:   s.Dip,
		FieldWidth: s.Width,
		FieldZTop:  s.ZTop,
		FieldZHyp:  s.ZHyp,
		FieldRake:  s.Rake,
		FieldVs30:  s.Vs30,
		FieldVsInf: vsInf,
		FieldZ1p0:  s.Z1p0,
		FieldZ2p5:  s.Z2p5,
	}
	row := make(InputRow, len(values))
	for k, v := range values {
		if math.IsNaN(v) {
			row[k] = Default
			continue
		}
		row[k] = Number(v)
	}
	return row
}

// ScenarioFromRow resolves a row against the field defaults. Unknown keys
// are ignored.
func ScenarioFromRow(row InputRow) Scenario {
	s := NewScenario()
	pick := func(id string, dst *float64) {
		if v, ok := row[id]; ok && v.Set {
			*dst = v.Number
		}
	}
	pick(FieldMw, &s.Mw)
	pick(FieldRJB, &s.RJB)
	pick(FieldRRup, &s.RRup)
	pick(FieldRX, &s.RX)
	pick(FieldDip, &s.Dip)
	pick(FieldWidth, &s.Width)
	pick(FieldZTop, &s.ZTop)
	pick(FieldZHyp, &s.ZHyp)
	pick(FieldRake, &s.Rake)
	pick(FieldVs30, &s.Vs30)
	pick(FieldZ1p0, &s.Z1p0)
	pick(FieldZ2p5, &s.Z2p5)
	if v, ok := row[FieldVsInf]; ok && v.Set {
		s.VsInf = v.Number != 0
	}
	return s
}

// Vector returns the scenario in canonical Fields order, vsInf as 1 or 0
func (s Scenario) Vector() []float64 {
	vsInf := 0.0
	if s.VsInf {
		vsInf = 1.0
	}
	return []float64{s.Mw, s.RJB, s.RRup, s.RX, s.Dip, s.Width, s.ZTop, s.ZHyp, s.Rake, s.Vs30, vsInf, s.Z1p0, s.Z2p5}
}

// Echo returns the scenario the way the service echoes a resolved input
func (s Scenario) Echo() EchoedInput {
	echo := EchoedInput{}
	for i, v := range s.Vector() {
		if math.IsNaN(v) {
			echo[Fields[i].ID] = Default
			continue
		}
		echo[Fields[i].ID] = Number(v)
	}
	return echo
}
