package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/importer"
)

// Named pairs a building name with its evaluation (or the error that prevented it)
type Named struct {
	Name   string
	Result *globalcheck.Result
	Err    error
}

const (
	summarySheet = "Summary"
	inputsSheet  = "Inputs"
)

// WriteWorkbook writes a "Summary" sheet (one row per building with every metric
// value and verdict) and an "Inputs" sheet that can be read back as a batch.
func WriteWorkbook(w io.Writer, results []Named) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(inputsSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSummary(f, results); err != nil {
		return err
	}
	if err := writeInputs(f, results); err != nil {
		return err
	}
	for _, sheet := range []string{summarySheet, inputsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	return f.Write(w)
}

// WriteTemplate writes an input workbook with the header row and the example building
func WriteTemplate(w io.Writer) error {
	r, err := globalcheck.Evaluate(globalcheck.DefaultInputs())
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", inputsSheet); err != nil {
		return err
	}
	if err := writeInputs(f, []Named{{Name: "Example", Result: r}}); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSummary(f *excelize.File, results []Named) error {
	header := []interface{}{"Building", "Unit", "Status"}
	if len(results) > 0 {
		for _, m := range firstMetrics(results) {
			header = append(header, m.Label, m.Label+" verdict")
		}
	}
	if err := setRow(f, summarySheet, 1, header); err != nil {
		return err
	}

	for i, n := range results {
		row := []interface{}{n.Name}
		if n.Err != nil || n.Result == nil {
			msg := "no result"
			if n.Err != nil {
				msg = n.Err.Error()
			}
			row = append(row, "", "error: "+msg)
			if err := setRow(f, summarySheet, i+2, row); err != nil {
				return err
			}
			continue
		}

		r := n.Result
		status := "OK"
		if !r.Passed() {
			status = fmt.Sprintf("%d to check", r.Counts()[globalcheck.Check])
		}
		row = append(row, r.Unit.String(), status)
		for _, m := range r.Metrics {
			if v, ok := r.DisplayValue(m); ok {
				row = append(row, v)
			} else {
				row = append(row, "")
			}
			row = append(row, m.Verdict.String())
		}
		if err := setRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeInputs(f *excelize.File, results []Named) error {
	header := []interface{}{"name", "unit"}
	for _, field := range globalcheck.Fields {
		header = append(header, field.Key)
	}
	if err := setRow(f, inputsSheet, 1, header); err != nil {
		return err
	}

	line := 2
	for _, n := range results {
		if n.Result == nil {
			continue
		}
		in := n.Result.DisplayInputs()
		row := []interface{}{n.Name, in.Unit.String()}
		for _, field := range globalcheck.Fields {
			row = append(row, field.Value(in))
		}
		if err := setRow(f, inputsSheet, line, row); err != nil {
			return err
		}
		line++
	}
	return nil
}

func firstMetrics(results []Named) []globalcheck.Metric {
	for _, n := range results {
		if n.Result != nil {
			return n.Result.Metrics
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// EvaluateRows evaluates every imported row with e. Rows that failed to import keep their error.
func EvaluateRows(e *globalcheck.Evaluator, rows []importer.Row) []Named {
	out := make([]Named, 0, len(rows))
	for _, row := range rows {
		n := Named{Name: row.Name, Err: row.Err}
		if row.Err == nil {
			n.Result, n.Err = e.Evaluate(row.Inputs)
		}
		out = append(out, n)
	}
	return out
}
