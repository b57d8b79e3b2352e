package globalcheck

import (
	"fmt"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Evaluator runs the global check against a fixed set of criteria.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	criteria criteria.Criteria
}

// New creates an evaluator bound to c
func New(c criteria.Criteria) *Evaluator {
	return &Evaluator{criteria: c}
}

// Criteria returns the limits the evaluator checks against
func (e *Evaluator) Criteria() criteria.Criteria {
	return e.criteria
}

// Evaluate runs the global check with the default criteria
func Evaluate(in Inputs) (*Result, error) {
	return New(criteria.Default()).Evaluate(in)
}

// Evaluate validates in, converts it to canonical units and computes every derived metric.
// A zero divisor marks the affected metric Undefined; it is never an error.
func (e *Evaluator) Evaluate(in Inputs) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	c := e.criteria
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid criteria: %w", err)
	}

	x := in.Canonical()
	result := &Result{
		Unit:     in.Unit,
		Inputs:   x,
		Criteria: c,
		Metrics:  make([]Metric, 0, 11),
	}

	// Load per floor area
	result.Metrics = append(result.Metrics,
		ranged(KeyDLPerArea, "DL per area", units.Pressure, ratio(x.DL, x.FloorArea), c.DLPerArea),
		ranged(KeyLLPerArea, "LL per area", units.Pressure, ratio(x.LL, x.FloorArea), c.LLPerArea),
		ranged(KeySDLPerArea, "SDL per area", units.Pressure, ratio(x.SDL, x.FloorArea), c.SDLPerArea),
	)

	// Wind per side area, reported only
	result.Metrics = append(result.Metrics,
		reported(KeyWxPerArea, "Wx per side area", units.Pressure, ratio(x.Wx, x.SideXArea)),
		reported(KeyWyPerArea, "Wy per side area", units.Pressure, ratio(x.Wy, x.SideYArea)),
	)

	// Earthquake balance
	result.EQRatio = ratio(x.EQx, x.EQy)
	result.Metrics = append(result.Metrics,
		ranged(KeyEQRatio, "EQx/EQy ratio", units.Ratio, result.EQRatio, c.EQRatio))

	// Share of total vertical load
	result.TotalVerticalLoad = x.DL + x.LL + x.SDL
	percent := func(v float64) *float64 {
		p := ratio(v, result.TotalVerticalLoad)
		if p != nil {
			*p *= 100
		}
		return p
	}
	result.Metrics = append(result.Metrics,
		ranged(KeyDLPercent, "DL share", units.Percent, percent(x.DL), c.DLPercent),
		ranged(KeyLLPercent, "LL share", units.Percent, percent(x.LL), c.LLPercent),
		ranged(KeySDLPercent, "SDL share", units.Percent, percent(x.SDL), c.SDLPercent),
	)

	// Drift ratio Δ/H
	result.DriftRatio = ratio(x.TopDisplacement, x.Height)
	drift := ranged(KeyDrift, "Drift ratio (Δ/H)", units.Ratio, result.DriftRatio,
		criteria.Range{Min: 0, Max: c.DriftLimit})
	if drift.Defined() {
		drift.Note = fmt.Sprintf("allowable %.5f", c.DriftLimit)
	}
	result.Metrics = append(result.Metrics, drift)

	// Model period against the code upper limit
	period := Metric{Key: KeyPeriod, Label: "Model period (T_model)", Quantity: units.Time}
	if x.Height > 0 {
		ta := c.ApproximatePeriod(x.Height)
		tmax := c.Cu * ta
		result.TApprox = &ta
		result.TMax = &tmax
		tModel := x.PeriodModel
		period = ranged(period.Key, period.Label, period.Quantity, &tModel,
			criteria.Range{Min: 0, Max: tmax})
		period.Note = fmt.Sprintf("T_approx %.3f s, T_max %.3f s", ta, tmax)
	}
	result.Metrics = append(result.Metrics, period)

	// Factored building totals, informational
	loads := criteria.NewBuildingLoads(x.DL, x.LL, x.SDL, x.Wx, x.Wy, x.EQx, x.EQy)
	vertical, lateral := criteria.Governing(loads, criteria.LoadCombinations)
	result.GoverningVertical = newCombination(vertical, vertical.Vertical)
	result.GoverningLateral = newCombination(lateral, lateral.Lateral)

	for i := range result.Metrics {
		if result.Metrics[i].Verdict == Undefined && result.Metrics[i].Note == "" {
			result.Metrics[i].Note = undefinedNote(result.Metrics[i].Key)
		}
	}

	return result, nil
}

func undefinedNote(key string) string {
	switch key {
	case KeyDLPerArea, KeyLLPerArea, KeySDLPerArea:
		return "floor area must be greater than zero"
	case KeyWxPerArea:
		return "side X surface area must be greater than zero"
	case KeyWyPerArea:
		return "side Y surface area must be greater than zero"
	case KeyEQRatio:
		return "EQy must not be zero"
	case KeyDLPercent, KeyLLPercent, KeySDLPercent:
		return "total vertical load must be greater than zero"
	case KeyDrift, KeyPeriod:
		return "building height must be greater than zero"
	}
	return ""
}
