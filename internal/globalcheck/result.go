package globalcheck

import (
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Result holds every derived metric of one evaluation.
// Values are canonical (kN, m, s); use Display to convert for presentation.
type Result struct {
	Unit     units.UnitSystem  `json:"unit"`
	Inputs   Inputs            `json:"inputs"`
	Criteria criteria.Criteria `json:"criteria"`
	Metrics  []Metric          `json:"metrics"`

	// Intermediate totals
	TotalVerticalLoad float64  `json:"total_vertical_load"`
	DriftRatio        *float64 `json:"drift_ratio"`
	TApprox           *float64 `json:"t_approx"`
	TMax              *float64 `json:"t_max"`
	EQRatio           *float64 `json:"eq_ratio"`

	// Governing factored building totals
	GoverningVertical Combination `json:"governing_vertical"`
	GoverningLateral  Combination `json:"governing_lateral"`
}

// Combination is a governing load combination and its factored value (kN)
type Combination struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Value       float64 `json:"value"`
}

func newCombination(r criteria.CombinationResult, value float64) Combination {
	return Combination{
		ID:          r.Combination.ID,
		Description: r.Combination.Description,
		Value:       value,
	}
}

// Metric returns the metric with the given key
func (r *Result) Metric(key string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

// Counts tallies metrics per verdict
func (r *Result) Counts() map[Verdict]int {
	counts := make(map[Verdict]int)
	for _, m := range r.Metrics {
		counts[m.Verdict]++
	}
	return counts
}

// Passed reports whether no metric needs checking
func (r *Result) Passed() bool {
	return r.Counts()[Check] == 0
}

// Display converts a canonical value of kind q to the result's unit system
func (r *Result) Display(q units.Quantity, v float64) float64 {
	return r.Unit.FromCanonical(q, v)
}

// DisplayValue returns m's value in the result's unit system
func (r *Result) DisplayValue(m Metric) (float64, bool) {
	if m.Value == nil {
		return 0, false
	}
	return r.Display(m.Quantity, *m.Value), true
}

// Label returns the display unit symbol of q
func (r *Result) Label(q units.Quantity) string {
	return r.Unit.Label(q)
}

// DisplayInputs returns the inputs as entered
func (r *Result) DisplayInputs() Inputs {
	return r.Inputs.In(r.Unit)
}
