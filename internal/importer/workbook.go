package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Row is one building read from a workbook
type Row struct {
	Line   int // 1-based sheet row
	Name   string
	Inputs globalcheck.Inputs
	Err    error
}

// InputsSheet is the preferred sheet name of an input workbook
const InputsSheet = "Inputs"

// ErrNoHeader is returned when the first sheet has no recognisable header row
var ErrNoHeader = errors.New("workbook has no header row with input columns")

// ReadWorkbook reads buildings from the "Inputs" sheet of an XLSX file, or from
// the first sheet when there is none.
// The first row names the columns using the input keys (dl, ll, ..., t_model),
// plus optional "name" and "unit" columns. Missing numeric cells read as zero.
// A row that fails to parse or validate is returned with Err set.
func ReadWorkbook(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if idx, err := f.GetSheetIndex(InputsSheet); err == nil && idx >= 0 {
		sheet = InputsSheet
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	columns := make(map[int]string)
	for i, cell := range rows[0] {
		key := normalizeHeader(cell)
		if key == "name" || key == "unit" {
			columns[i] = key
			continue
		}
		if _, ok := globalcheck.LookupField(key); ok {
			columns[i] = key
		}
	}
	if len(columns) == 0 {
		return nil, ErrNoHeader
	}

	var out []Row
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		row := parseRow(rows[i], columns)
		row.Line = i + 1
		if row.Name == "" {
			row.Name = fmt.Sprintf("Row %d", row.Line)
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRow(cells []string, columns map[int]string) Row {
	var row Row
	for i, cell := range cells {
		key, ok := columns[i]
		if !ok {
			continue
		}
		cell = strings.TrimSpace(cell)
		switch key {
		case "name":
			row.Name = cell
		case "unit":
			u, err := units.Parse(cell)
			if err != nil {
				row.Err = err
				return row
			}
			row.Inputs.Unit = u
		default:
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
			if err != nil {
				row.Err = fmt.Errorf("column %s: invalid number %q", key, cell)
				return row
			}
			field, _ := globalcheck.LookupField(key)
			field.Set(&row.Inputs, v)
		}
	}
	row.Err = row.Inputs.Validate()
	return row
}

// normalizeHeader maps "Floor Area", "floor-area" and "FLOOR_AREA" to "floor_area"
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexAny(s, "(["); i > 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	switch s {
	case "h":
		return "height"
	case "delta", "displacement":
		return "top_displacement"
	case "tmodel", "period":
		return "t_model"
	}
	return s
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
