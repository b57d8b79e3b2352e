package importer

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "building.json")
	doc := `{"unit": "imperial", "dl": 1124.045, "ll": 449.618, "floor_area": 10763.9, "height": 98.4252, "t_model": 1.2}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	in, err := LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if in.Unit != units.Imperial || in.DL != 1124.045 || in.PeriodModel != 1.2 {
		t.Fatalf("inputs = %+v", in)
	}
	if math.Abs(in.Canonical().Height-30) > 1e-4 {
		t.Fatalf("canonical height = %v", in.Canonical().Height)
	}
}

func TestParseJSONDefaultsToMetric(t *testing.T) {
	in, err := ParseJSON([]byte(`{"dl": 10}`))
	if err != nil {
		t.Fatal(err)
	}
	if in.Unit != units.Metric {
		t.Fatalf("unit = %v", in.Unit)
	}
}

func TestParseJSONErrors(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"dl": -1}`)); err == nil {
		t.Fatal("expected validation error")
	} else {
		var verr *globalcheck.ValidationError
		if !errors.As(err, &verr) || verr.Field != "dl" {
			t.Fatalf("err = %v", err)
		}
	}
	if _, err := ParseJSON([]byte(`{"unit": "cubits"}`)); err == nil {
		t.Fatal("expected unit error")
	}
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected missing file error")
	}
}

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadWorkbook(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Name", "Unit", "DL", "LL", "SDL", "Floor Area", "H", "Top Displacement", "T_model", "Comment"},
		{"Tower A", "metric", 5000, 2000, 1500, 1000, 30, 0.15, 2.5, "ignored"},
		{},
		{"Tower B", "imperial", 1124.045, "", "", 10763.9, 98.4252, 0.5, 1.0},
		{"Bad", "metric", -5},
		{"", "metric", "abc"},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	a := rows[0]
	if a.Err != nil || a.Name != "Tower A" || a.Line != 2 {
		t.Fatalf("row A = %+v", a)
	}
	if a.Inputs.DL != 5000 || a.Inputs.FloorArea != 1000 || a.Inputs.Height != 30 || a.Inputs.TopDisplacement != 0.15 {
		t.Fatalf("row A inputs = %+v", a.Inputs)
	}

	b := rows[1]
	if b.Err != nil || b.Inputs.Unit != units.Imperial || b.Inputs.LL != 0 || b.Line != 4 {
		t.Fatalf("row B = %+v", b)
	}

	var verr *globalcheck.ValidationError
	if !errors.As(rows[2].Err, &verr) || verr.Field != "dl" {
		t.Fatalf("row Bad err = %v", rows[2].Err)
	}
	if rows[3].Err == nil || rows[3].Name != "Row 6" {
		t.Fatalf("row 6 = %+v", rows[3])
	}
}

func TestReadWorkbookNoHeader(t *testing.T) {
	buf := workbook(t, [][]interface{}{{"foo", "bar"}, {1, 2}})
	if _, err := ReadWorkbook(buf); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("err = %v, want ErrNoHeader", err)
	}
	if _, err := ReadWorkbook(bytes.NewReader([]byte("not a zip"))); err == nil {
		t.Fatal("expected error for invalid workbook")
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Floor Area":        "floor_area",
		"side-x-area":       "side_x_area",
		"DL (kN)":           "dl",
		"Delta":             "top_displacement",
		" T_model [s] ":     "t_model",
		"TOP_DISPLACEMENT ": "top_displacement",
	}
	for in, want := range cases {
		if got := normalizeHeader(in); got != want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}
