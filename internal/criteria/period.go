package criteria

import (
	"fmt"
	"math"
	"sort"
)

// StructureType selects the approximate period parameters
type StructureType string

// ASCE 7-16 Table 12.8-2 structure types
const (
	SteelMomentFrame    StructureType = "steel-moment-frame"
	ConcreteMomentFrame StructureType = "concrete-moment-frame"
	SteelEBF            StructureType = "steel-ebf"
	SteelBRBF           StructureType = "steel-brbf"
	OtherSystem         StructureType = "other"
)

// PeriodCoefficients are the tabulated Ct and x values of Ta = Ct·hn^x.
// They are applied to the canonical height (m) as tabulated.
type PeriodCoefficients struct {
	Ct          float64
	X           float64
	Description string
}

// Presets maps each structure type to its coefficients
var Presets = map[StructureType]PeriodCoefficients{
	SteelMomentFrame:    {Ct: 0.028, X: 0.8, Description: "Steel moment-resisting frame"},
	ConcreteMomentFrame: {Ct: 0.016, X: 0.9, Description: "Concrete moment-resisting frame"},
	SteelEBF:            {Ct: 0.03, X: 0.75, Description: "Steel eccentrically braced frame"},
	SteelBRBF:           {Ct: 0.03, X: 0.75, Description: "Steel buckling-restrained braced frame"},
	OtherSystem:         {Ct: 0.02, X: 0.75, Description: "All other structural systems"},
}

// StructureTypes returns the preset names in a stable order
func StructureTypes() []StructureType {
	types := make([]StructureType, 0, len(Presets))
	for t := range Presets {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// String implements fmt.Stringer
func (t StructureType) String() string {
	return string(t)
}

// Set implements pflag.Value
func (t *StructureType) Set(s string) error {
	st := StructureType(s)
	if _, ok := Presets[st]; !ok {
		return fmt.Errorf("unknown structure type %q", s)
	}
	*t = st
	return nil
}

// Type implements pflag.Value
func (t *StructureType) Type() string {
	return "structure"
}

// WithStructure returns a copy of c using the preset coefficients of t.
// Unknown types leave c unchanged.
func (c Criteria) WithStructure(t StructureType) Criteria {
	p, ok := Presets[t]
	if !ok {
		return c
	}
	c.Structure = t
	c.Ct = p.Ct
	c.X = p.X
	return c
}

// ApproximatePeriod calculates Ta = Ct·h^x (s)
func (c Criteria) ApproximatePeriod(h float64) float64 {
	return c.Ct * math.Pow(h, c.X)
}

// MaxPeriod calculates the upper limit Cu·Ta (s)
func (c Criteria) MaxPeriod(h float64) float64 {
	return c.Cu * c.ApproximatePeriod(h)
}
