package diagram

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// LoadShare is one bar of the vertical load distribution
type LoadShare struct {
	Name    string
	Percent float64
	Range   criteria.Range
}

// LoadShares extracts the DL/LL/SDL percentages of r.
// It returns nil when the total vertical load is zero.
func LoadShares(r *globalcheck.Result) []LoadShare {
	keys := []struct{ name, key string }{
		{"DL", globalcheck.KeyDLPercent},
		{"LL", globalcheck.KeyLLPercent},
		{"SDL", globalcheck.KeySDLPercent},
	}
	var shares []LoadShare
	for _, k := range keys {
		m, ok := r.Metric(k.key)
		if !ok || m.Value == nil || m.Range == nil {
			return nil
		}
		shares = append(shares, LoadShare{Name: k.name, Percent: *m.Value, Range: *m.Range})
	}
	return shares
}

// DrawLoadBars creates an ASCII bar chart of the vertical load percentages.
// The typical range of each load type is marked under its bar.
func DrawLoadBars(r *globalcheck.Result) string {
	var sb strings.Builder

	barWidth := 50
	scale := float64(barWidth) / 100

	sb.WriteString("\n")
	sb.WriteString("  VERTICAL LOAD DISTRIBUTION\n")
	sb.WriteString("  ──────────────────────────\n\n")

	shares := LoadShares(r)
	if shares == nil {
		sb.WriteString("  (total vertical load is zero)\n")
		return sb.String()
	}

	for _, s := range shares {
		barLen := int(math.Round(s.Percent * scale))
		mark := "✓"
		if !s.Range.Contains(s.Percent) {
			mark = "⚠"
		}
		sb.WriteString(fmt.Sprintf("  %-4s│%s%s %6.2f%% %s\n",
			s.Name, strings.Repeat("█", barLen), strings.Repeat(" ", barWidth-barLen), s.Percent, mark))

		// Typical range marker
		lo := int(math.Round(s.Range.Min * scale))
		hi := int(math.Round(s.Range.Max * scale))
		lo = clamp(lo, 0, barWidth)
		hi = clamp(hi, lo, barWidth)
		line := strings.Repeat(" ", lo) + "├" + strings.Repeat("─", max(hi-lo-1, 0)) + "┤"
		sb.WriteString(fmt.Sprintf("      %s typical %.0f–%.0f%%\n", line, s.Range.Min, s.Range.Max))
	}

	sb.WriteString("      ")
	sb.WriteString("0%" + strings.Repeat(" ", barWidth/2-3) + "50%" + strings.Repeat(" ", barWidth/2-4) + "100%\n")

	return sb.String()
}

// DrawPeriodCurve plots the code upper-limit period Cu·Ct·h^x against height
// from zero to twice the building height.
func DrawPeriodCurve(r *globalcheck.Result) string {
	h := r.Inputs.Height
	if h <= 0 || r.TMax == nil {
		return "\n  (building height must be greater than zero to plot the period curve)\n"
	}

	c := r.Criteria
	const samples = 60
	data := make([]float64, samples)
	for i := range data {
		hi := 2 * h * float64(i) / float64(samples-1)
		data[i] = c.MaxPeriod(hi)
	}

	length := r.Label(units.Length)
	caption := fmt.Sprintf("T_max over 0–%.0f %s; at H = %.1f %s T_max = %.3f s, T_model = %.3f s",
		r.Display(units.Length, 2*h), length, r.Display(units.Length, h), length, *r.TMax, r.Inputs.PeriodModel)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString("  PERIOD UPPER LIMIT vs HEIGHT\n")
	sb.WriteString("  ────────────────────────────\n\n")
	sb.WriteString(asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(samples),
		asciigraph.Precision(2),
		asciigraph.Offset(4),
		asciigraph.Caption(caption),
	))
	sb.WriteString("\n")
	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := width(title)
	for _, line := range lines {
		if width(line) > maxLen {
			maxLen = width(line)
		}
	}
	maxLen += 4

	border := strings.Repeat("═", maxLen)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	sb.WriteString(fmt.Sprintf("  ║  %s%s  ║\n", title, pad(title, maxLen-4)))
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("  ║  %s%s  ║\n", line, pad(line, maxLen-4)))
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}

// width counts runes so box-drawing and unit symbols align
func width(s string) int {
	return len([]rune(s))
}

func pad(s string, n int) string {
	return strings.Repeat(" ", max(n-width(s), 0))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
