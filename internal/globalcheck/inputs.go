package globalcheck

import (
	"fmt"
	"math"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Inputs are the building totals exported from the analysis model.
// Values are expressed in the units of Unit; PeriodModel is always in seconds.
type Inputs struct {
	Unit units.UnitSystem `json:"unit"`

	// Vertical loads of the whole building (force)
	DL  float64 `json:"dl"`
	LL  float64 `json:"ll"`
	SDL float64 `json:"sdl"`

	// Lateral loads (force)
	Wx  float64 `json:"wx"`
	Wy  float64 `json:"wy"`
	EQx float64 `json:"eqx"`
	EQy float64 `json:"eqy"`

	// Areas
	FloorArea float64 `json:"floor_area"`
	SideXArea float64 `json:"side_x_area"`
	SideYArea float64 `json:"side_y_area"`

	// Geometry and response
	Height          float64 `json:"height"`
	TopDisplacement float64 `json:"top_displacement"`
	PeriodModel     float64 `json:"t_model"`
}

// Field describes one input for validation, import and reporting
type Field struct {
	Key      string
	Label    string
	Quantity units.Quantity
	get      func(*Inputs) *float64
}

// Fields lists every numeric input in entry order
var Fields = []Field{
	{"dl", "Dead Load (DL)", units.Force, func(in *Inputs) *float64 { return &in.DL }},
	{"ll", "Live Load (LL)", units.Force, func(in *Inputs) *float64 { return &in.LL }},
	{"sdl", "Superimposed Dead Load (SDL)", units.Force, func(in *Inputs) *float64 { return &in.SDL }},
	{"floor_area", "Total Floor Area", units.Area, func(in *Inputs) *float64 { return &in.FloorArea }},
	{"side_x_area", "Side X Surface Area", units.Area, func(in *Inputs) *float64 { return &in.SideXArea }},
	{"side_y_area", "Side Y Surface Area", units.Area, func(in *Inputs) *float64 { return &in.SideYArea }},
	{"height", "Building Height (H)", units.Length, func(in *Inputs) *float64 { return &in.Height }},
	{"top_displacement", "Top Displacement (Δ)", units.Length, func(in *Inputs) *float64 { return &in.TopDisplacement }},
	{"wx", "Wind Load X (Wx)", units.Force, func(in *Inputs) *float64 { return &in.Wx }},
	{"wy", "Wind Load Y (Wy)", units.Force, func(in *Inputs) *float64 { return &in.Wy }},
	{"eqx", "Earthquake Load X (EQx)", units.Force, func(in *Inputs) *float64 { return &in.EQx }},
	{"eqy", "Earthquake Load Y (EQy)", units.Force, func(in *Inputs) *float64 { return &in.EQy }},
	{"t_model", "Model Period (T_model)", units.Time, func(in *Inputs) *float64 { return &in.PeriodModel }},
}

// LookupField finds a field by key
func LookupField(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the field's value in in
func (f Field) Value(in Inputs) float64 {
	return *f.get(&in)
}

// Addr returns the address of the field inside in
func (f Field) Addr(in *Inputs) *float64 {
	return f.get(in)
}

// Set stores v into the field of in
func (f Field) Set(in *Inputs, v float64) {
	*f.get(in) = v
}

// DefaultInputs returns the example building in metric units
func DefaultInputs() Inputs {
	return Inputs{
		Unit:            units.Metric,
		DL:              5000,
		LL:              2000,
		SDL:             1500,
		Wx:              800,
		Wy:              750,
		EQx:             1200,
		EQy:             1100,
		FloorArea:       1000,
		SideXArea:       500,
		SideYArea:       450,
		Height:          30,
		TopDisplacement: 0.15,
		PeriodModel:     2.5,
	}
}

// Validate checks that every field is a finite, non-negative number
func (in Inputs) Validate() error {
	for _, f := range Fields {
		v := f.Value(in)
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return &ValidationError{Field: f.Key, Value: v, Reason: "must be a finite number"}
		case v < 0:
			return &ValidationError{Field: f.Key, Value: v, Reason: "must be non-negative"}
		}
	}
	return nil
}

// Canonical converts every field to kN, m and s
func (in Inputs) Canonical() Inputs {
	out := in
	for _, f := range Fields {
		f.Set(&out, in.Unit.ToCanonical(f.Quantity, f.Value(in)))
	}
	out.Unit = units.Metric
	return out
}

// In expresses canonical inputs in the unit system u
func (in Inputs) In(u units.UnitSystem) Inputs {
	c := in.Canonical()
	out := c
	for _, f := range Fields {
		f.Set(&out, u.FromCanonical(f.Quantity, f.Value(c)))
	}
	out.Unit = u
	return out
}

// ValidationError reports an input that cannot be evaluated
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	label := e.Field
	if f, ok := LookupField(e.Field); ok {
		label = f.Label
	}
	return fmt.Sprintf("%s %s (got %g)", label, e.Reason, e.Value)
}
