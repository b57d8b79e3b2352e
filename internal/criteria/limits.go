package criteria

import (
	"encoding/json"
	"fmt"
	"os"
)

// Range is an inclusive acceptance band
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether Min <= v <= Max
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

func (r Range) String() string {
	return fmt.Sprintf("%g – %g", r.Min, r.Max)
}

// Criteria holds the typical ranges and allowable limits used by the global check.
// Values are in canonical units (kN, m, s).
type Criteria struct {
	// Load per floor area (kN/m²)
	DLPerArea  Range `json:"dl_per_area"`
	LLPerArea  Range `json:"ll_per_area"`
	SDLPerArea Range `json:"sdl_per_area"`

	// Share of total vertical load (%)
	DLPercent  Range `json:"dl_percent"`
	LLPercent  Range `json:"ll_percent"`
	SDLPercent Range `json:"sdl_percent"`

	// EQx/EQy balance
	EQRatio Range `json:"eq_ratio"`

	// Allowable drift ratio Δ/H
	DriftLimit float64 `json:"drift_limit"`

	// Approximate period Ta = Ct·h^x, upper limit Cu·Ta
	Structure StructureType `json:"structure"`
	Ct        float64       `json:"ct"`
	X         float64       `json:"x"`
	Cu        float64       `json:"cu"`
}

// Defaults used when nothing is overridden
const (
	DefaultDriftLimit = 0.02
	DefaultCu         = 1.4
)

// Default returns the typical ranges of a concrete moment frame building
func Default() Criteria {
	c := Criteria{
		DLPerArea:  Range{3, 10},
		LLPerArea:  Range{2, 5},
		SDLPerArea: Range{1, 5},

		DLPercent:  Range{40, 60},
		LLPercent:  Range{20, 40},
		SDLPercent: Range{10, 30},

		EQRatio: Range{0.8, 1.2},

		DriftLimit: DefaultDriftLimit,
		Cu:         DefaultCu,
	}
	return c.WithStructure(ConcreteMomentFrame)
}

// Validate checks that every range is ordered and every coefficient positive
func (c Criteria) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"dl_per_area", c.DLPerArea},
		{"ll_per_area", c.LLPerArea},
		{"sdl_per_area", c.SDLPerArea},
		{"dl_percent", c.DLPercent},
		{"ll_percent", c.LLPercent},
		{"sdl_percent", c.SDLPercent},
		{"eq_ratio", c.EQRatio},
	}
	for _, r := range ranges {
		if r.r.Min > r.r.Max {
			return fmt.Errorf("criteria %s: min %g exceeds max %g", r.name, r.r.Min, r.r.Max)
		}
	}
	if c.DriftLimit <= 0 {
		return fmt.Errorf("criteria drift_limit must be positive, got %g", c.DriftLimit)
	}
	if c.Ct <= 0 || c.X <= 0 {
		return fmt.Errorf("criteria period coefficients must be positive: ct=%g, x=%g", c.Ct, c.X)
	}
	if c.Cu <= 0 {
		return fmt.Errorf("criteria cu must be positive, got %g", c.Cu)
	}
	return nil
}

// LoadFromFile reads overrides from a JSON file on top of Default().
// Fields missing from the file keep their default values.
func LoadFromFile(path string) (Criteria, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Criteria{}, err
	}
	return Parse(data)
}

// Parse decodes JSON overrides on top of Default()
func Parse(data []byte) (Criteria, error) {
	return Override(Default(), data)
}

// Override decodes JSON overrides on top of base
func Override(base Criteria, data []byte) (Criteria, error) {
	c := base

	// A structure preset in the file supplies Ct and x unless they are also given
	var probe struct {
		Structure StructureType `json:"structure"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Criteria{}, fmt.Errorf("parsing criteria: %w", err)
	}
	if probe.Structure != "" {
		if _, ok := Presets[probe.Structure]; !ok {
			return Criteria{}, fmt.Errorf("unknown structure type %q", probe.Structure)
		}
		c = c.WithStructure(probe.Structure)
	}

	if err := json.Unmarshal(data, &c); err != nil {
		return Criteria{}, fmt.Errorf("parsing criteria: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}
