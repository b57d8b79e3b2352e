package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/importer"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

func evaluate(t *testing.T, in globalcheck.Inputs) *globalcheck.Result {
	t.Helper()
	r, err := globalcheck.Evaluate(in)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, evaluate(t, globalcheck.DefaultInputs())); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	wantHeader := []string{"Load Type", "Load (kN)", "Load per Area (kN/m²)", "Percentage (%)"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	want := [][]string{
		{"DL", "5000.0000", "5.0000", "58.8235"},
		{"LL", "2000.0000", "2.0000", "23.5294"},
		{"SDL", "1500.0000", "1.5000", "17.6471"},
	}
	for i, row := range want {
		for j, cell := range row {
			if records[i+1][j] != cell {
				t.Errorf("record %d col %d = %q, want %q", i+1, j, records[i+1][j], cell)
			}
		}
	}
}

func TestWriteCSVUndefinedAndImperial(t *testing.T) {
	in := globalcheck.DefaultInputs().In(units.Imperial)
	in.FloorArea = 0
	var buf bytes.Buffer
	if err := WriteCSV(&buf, evaluate(t, in)); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	if records[0][1] != "Load (kip)" || records[0][2] != "Load per Area (kip/ft²)" {
		t.Fatalf("imperial header = %v", records[0])
	}
	if records[1][2] != "" {
		t.Fatalf("undefined per-area should be empty, got %q", records[1][2])
	}
	if records[1][3] != "58.8235" {
		t.Fatalf("percentage = %q", records[1][3])
	}
}

func TestWriteMetricsCSV(t *testing.T) {
	var buf bytes.Buffer
	r := evaluate(t, globalcheck.DefaultInputs())
	if err := WriteMetricsCSV(&buf, r); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, buf.Bytes())
	if len(records) != len(r.Metrics)+1 {
		t.Fatalf("got %d records", len(records))
	}
	last := records[len(records)-1]
	if last[0] != globalcheck.KeyPeriod || last[6] != "check" {
		t.Fatalf("period row = %v", last)
	}
	wind := records[4]
	if wind[0] != globalcheck.KeyWxPerArea || wind[4] != "" || wind[6] != "reported" {
		t.Fatalf("wind row = %v", wind)
	}
}

func TestWriteWorkbook(t *testing.T) {
	results := []Named{
		{Name: "Tower A", Result: evaluate(t, globalcheck.DefaultInputs())},
		{Name: "Tower B", Err: errors.New("Dead Load (DL) must be non-negative")},
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, results); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("summary rows = %d", len(rows))
	}
	if rows[1][0] != "Tower A" || rows[1][2] != "1 to check" {
		t.Fatalf("summary row = %v", rows[1][:3])
	}
	if !strings.HasPrefix(rows[2][2], "error:") {
		t.Fatalf("error row = %v", rows[2])
	}

	inputs, err := f.GetRows("Inputs")
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 || inputs[0][2] != "dl" || inputs[1][0] != "Tower A" {
		t.Fatalf("inputs sheet = %v", inputs)
	}
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("Inputs")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[1][0] != "Example" || rows[1][1] != "metric" {
		t.Fatalf("template rows = %v", rows)
	}
}

func TestReadWorkbookRoundTrip(t *testing.T) {
	in := globalcheck.DefaultInputs().In(units.Imperial)
	r, err := globalcheck.Evaluate(in)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, []Named{{Name: "Tower", Result: r}}); err != nil {
		t.Fatal(err)
	}

	rows, err := importer.ReadWorkbook(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Err != nil || rows[0].Name != "Tower" {
		t.Fatalf("rows = %+v", rows)
	}
	got := rows[0].Inputs
	if got.Unit != units.Imperial {
		t.Fatalf("unit = %v", got.Unit)
	}
	for _, f := range globalcheck.Fields {
		if math.Abs(f.Value(got)-f.Value(in)) > 1e-6 {
			t.Errorf("%s = %v, want %v", f.Key, f.Value(got), f.Value(in))
		}
	}
}

func TestWriteBatchCSV(t *testing.T) {
	r := evaluate(t, globalcheck.DefaultInputs())
	results := []Named{
		{Name: "Broken", Err: errors.New("row 2: dl: must not be negative")},
		{Name: "Tower A", Result: r},
	}
	var buf bytes.Buffer
	if err := WriteBatchCSV(&buf, results); err != nil {
		t.Fatal(err)
	}
	if strings.HasPrefix(buf.String(), "\n") {
		t.Fatal("output starts with a blank line")
	}

	// One table: header, one error row, one row per metric
	records := readCSV(t, buf.Bytes())
	if len(records) != 2+len(r.Metrics) {
		t.Fatalf("got %d records", len(records))
	}
	if records[0][0] != "Building" || records[0][1] != "Key" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "Broken" || records[1][7] != "error" || !strings.Contains(records[1][8], "negative") {
		t.Fatalf("error row = %v", records[1])
	}
	for _, rec := range records[2:] {
		if rec[0] != "Tower A" {
			t.Fatalf("row = %v", rec)
		}
	}
	if last := records[len(records)-1]; last[1] != globalcheck.KeyPeriod || last[7] != "check" {
		t.Fatalf("period row = %v", last)
	}
}

func TestEvaluateRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatal(err)
	}
	rows, err := importer.ReadWorkbook(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rows = append(rows, importer.Row{Line: 3, Name: "Broken", Err: errors.New("bad cell")})

	named := EvaluateRows(globalcheck.New(criteria.Default()), rows)
	if len(named) != 2 {
		t.Fatalf("got %d results", len(named))
	}
	if named[0].Name != "Example" || named[0].Err != nil || named[0].Result == nil {
		t.Fatalf("first = %+v", named[0])
	}
	if named[1].Result != nil || named[1].Err == nil {
		t.Fatalf("second = %+v", named[1])
	}
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	in := globalcheck.DefaultInputs()
	in.Height = 0
	if err := WritePDF(&buf, "", evaluate(t, in)); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:8])
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(5000, 2); !strings.Contains(got, "5,000") {
		t.Fatalf("FormatNumber(5000) = %q", got)
	}
	if got := FormatNumber(0.005, 4); got != "0.0050" {
		t.Fatalf("FormatNumber(0.005) = %q", got)
	}
}
