package globalcheck

import (
	"fmt"
	"strings"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Verdict classifies a derived metric
type Verdict int

const (
	// Undefined means the metric could not be computed (zero or negative divisor)
	Undefined Verdict = iota
	// Reasonable means the value lies inside the typical range
	Reasonable
	// Check means the value is outside the typical range and needs review
	Check
	// Reported means the value has no range and is shown for information
	Reported
)

func (v Verdict) String() string {
	switch v {
	case Reasonable:
		return "reasonable"
	case Check:
		return "check"
	case Reported:
		return "reported"
	default:
		return "undefined"
	}
}

// MarshalText implements encoding.TextMarshaler
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Verdict) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "reasonable":
		*v = Reasonable
	case "check":
		*v = Check
	case "reported":
		*v = Reported
	case "undefined", "":
		*v = Undefined
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Symbol returns the status marker used in text reports
func (v Verdict) Symbol() string {
	switch v {
	case Reasonable:
		return "✓"
	case Check:
		return "⚠"
	case Reported:
		return "·"
	default:
		return "—"
	}
}

// Metric keys in evaluation order
const (
	KeyDLPerArea  = "dl_per_area"
	KeyLLPerArea  = "ll_per_area"
	KeySDLPerArea = "sdl_per_area"
	KeyWxPerArea  = "wx_per_area"
	KeyWyPerArea  = "wy_per_area"
	KeyEQRatio    = "eq_ratio"
	KeyDLPercent  = "dl_percent"
	KeyLLPercent  = "ll_percent"
	KeySDLPercent = "sdl_percent"
	KeyDrift      = "drift_ratio"
	KeyPeriod     = "period"
)

// Metric is one derived value paired with its verdict.
// Value and Range are canonical; Value is nil iff Verdict is Undefined.
type Metric struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Value    *float64        `json:"value"`
	Quantity units.Quantity  `json:"quantity"`
	Range    *criteria.Range `json:"range,omitempty"`
	Verdict  Verdict         `json:"verdict"`
	Note     string          `json:"note,omitempty"`
}

// Defined reports whether the metric has a value
func (m Metric) Defined() bool {
	return m.Value != nil
}

// ranged builds a metric checked against an inclusive range
func ranged(key, label string, q units.Quantity, value *float64, r criteria.Range) Metric {
	m := Metric{Key: key, Label: label, Quantity: q, Value: value, Range: &r}
	switch {
	case value == nil:
		m.Verdict = Undefined
	case r.Contains(*value):
		m.Verdict = Reasonable
	default:
		m.Verdict = Check
	}
	return m
}

// reported builds a metric without a range
func reported(key, label string, q units.Quantity, value *float64) Metric {
	m := Metric{Key: key, Label: label, Quantity: q, Value: value, Verdict: Reported}
	if value == nil {
		m.Verdict = Undefined
	}
	return m
}

// ratio returns num/den, or nil when den is not positive
func ratio(num, den float64) *float64 {
	if den <= 0 {
		return nil
	}
	v := num / den
	return &v
}
