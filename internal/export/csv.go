package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// WriteCSV writes the vertical load summary: one row per load type with the
// load, load per floor area and share of the total vertical load.
// Undefined values are written as empty cells.
func WriteCSV(w io.Writer, r *globalcheck.Result) error {
	cw := csv.NewWriter(w)
	header := []string{
		"Load Type",
		fmt.Sprintf("Load (%s)", r.Label(units.Force)),
		fmt.Sprintf("Load per Area (%s)", r.Label(units.Pressure)),
		"Percentage (%)",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	rows := []struct {
		name    string
		load    float64
		perArea string
		percent string
	}{
		{"DL", r.Inputs.DL, globalcheck.KeyDLPerArea, globalcheck.KeyDLPercent},
		{"LL", r.Inputs.LL, globalcheck.KeyLLPerArea, globalcheck.KeyLLPercent},
		{"SDL", r.Inputs.SDL, globalcheck.KeySDLPerArea, globalcheck.KeySDLPercent},
	}
	for _, row := range rows {
		record := []string{
			row.name,
			formatFloat(r.Display(units.Force, row.load)),
			metricCell(r, row.perArea),
			metricCell(r, row.percent),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var metricsHeader = []string{"Key", "Metric", "Value", "Unit", "Min", "Max", "Verdict", "Note"}

// WriteMetricsCSV writes every metric with its display value and verdict
func WriteMetricsCSV(w io.Writer, r *globalcheck.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(metricsHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(metricRecords(r)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteBatchCSV writes the metrics of every building as one table with a
// leading Building column. A building that could not be checked gets a single
// row with verdict "error" and the reason as its note.
func WriteBatchCSV(w io.Writer, results []Named) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"Building"}, metricsHeader...)); err != nil {
		return err
	}
	for _, n := range results {
		if n.Result == nil {
			reason := ""
			if n.Err != nil {
				reason = n.Err.Error()
			}
			if err := cw.Write([]string{n.Name, "", "", "", "", "", "", "error", reason}); err != nil {
				return err
			}
			continue
		}
		for _, record := range metricRecords(n.Result) {
			if err := cw.Write(append([]string{n.Name}, record...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func metricRecords(r *globalcheck.Result) [][]string {
	records := make([][]string, 0, len(r.Metrics))
	for _, m := range r.Metrics {
		min, max := "", ""
		if m.Range != nil {
			min = formatFloat(r.Display(m.Quantity, m.Range.Min))
			max = formatFloat(r.Display(m.Quantity, m.Range.Max))
		}
		records = append(records, []string{
			m.Key,
			m.Label,
			metricCell(r, m.Key),
			r.Label(m.Quantity),
			min,
			max,
			m.Verdict.String(),
			m.Note,
		})
	}
	return records
}

func metricCell(r *globalcheck.Result, key string) string {
	m, ok := r.Metric(key)
	if !ok {
		return ""
	}
	v, ok := r.DisplayValue(m)
	if !ok {
		return ""
	}
	return formatFloat(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
