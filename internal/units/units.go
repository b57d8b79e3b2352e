package units

import (
	"fmt"
	"strings"
)

// UnitSystem selects how inputs are entered and results are displayed.
// All calculations run in the canonical system (kN, m, s).
type UnitSystem int

const (
	Metric   UnitSystem = iota // kN, m
	Imperial                   // kip, ft
)

// Conversion factors from canonical to imperial units
const (
	ForceFactor  = 0.224809 // 1 kN = 0.224809 kip
	AreaFactor   = 10.7639  // 1 m² = 10.7639 ft²
	LengthFactor = 3.28084  // 1 m = 3.28084 ft
)

// Quantity identifies the physical kind of a value so it can be converted
type Quantity int

const (
	Force Quantity = iota
	Area
	Length
	Pressure // force per area
	Ratio
	Percent
	Time
)

// String returns the flag/JSON spelling of the unit system
func (u UnitSystem) String() string {
	switch u {
	case Imperial:
		return "imperial"
	default:
		return "metric"
	}
}

// Set parses a unit system name; it satisfies pflag.Value
func (u *UnitSystem) Set(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Type is the name shown in flag usage
func (u *UnitSystem) Type() string {
	return "unit"
}

// MarshalText implements encoding.TextMarshaler
func (u UnitSystem) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *UnitSystem) UnmarshalText(b []byte) error {
	return u.Set(string(b))
}

// Parse accepts "metric"/"si"/"kn" and "imperial"/"us"/"kip". Empty means metric.
func Parse(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric", "si", "kn", "kn-m":
		return Metric, nil
	case "imperial", "us", "kip", "kip-ft":
		return Imperial, nil
	}
	return Metric, fmt.Errorf("unknown unit system %q (want metric or imperial)", s)
}

// factor returns display units per canonical unit
func (u UnitSystem) factor(q Quantity) float64 {
	if u != Imperial {
		return 1
	}
	switch q {
	case Force:
		return ForceFactor
	case Area:
		return AreaFactor
	case Length:
		return LengthFactor
	case Pressure:
		return ForceFactor / AreaFactor
	}
	return 1
}

// ToCanonical converts a value entered in u to kN, m, s.
// Factors are display units per canonical unit, so entered values are divided
// (10 kip is 10 / 0.224809 kN), never multiplied.
func (u UnitSystem) ToCanonical(q Quantity, v float64) float64 {
	return v / u.factor(q)
}

// FromCanonical converts a canonical value to the display units of u
func (u UnitSystem) FromCanonical(q Quantity, v float64) float64 {
	return v * u.factor(q)
}

// Label returns the unit symbol of q in u
func (u UnitSystem) Label(q Quantity) string {
	imperial := u == Imperial
	switch q {
	case Force:
		if imperial {
			return "kip"
		}
		return "kN"
	case Area:
		if imperial {
			return "ft²"
		}
		return "m²"
	case Length:
		if imperial {
			return "ft"
		}
		return "m"
	case Pressure:
		if imperial {
			return "kip/ft²"
		}
		return "kN/m²"
	case Percent:
		return "%"
	case Time:
		return "s"
	}
	return ""
}

// String names the quantity kind
func (q Quantity) String() string {
	switch q {
	case Force:
		return "force"
	case Area:
		return "area"
	case Length:
		return "length"
	case Pressure:
		return "pressure"
	case Ratio:
		return "ratio"
	case Percent:
		return "percent"
	case Time:
		return "time"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}
