package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

var printer = message.NewPrinter(language.English)

// FormatNumber formats v with thousands separators and prec decimals
func FormatNumber(v float64, prec int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", prec), v)
}

// Core PDF fonts are cp1252; replace symbols it cannot encode
var pdfSymbols = strings.NewReplacer("Δ", "delta", "≤", "<=", "–", "-", "✓", "OK", "⚠", "!")

// WritePDF renders a one-page global check report
func WritePDF(w io.Writer, title string, r *globalcheck.Result) error {
	if title == "" {
		title = "ETABS Global Check"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string { return tr(pdfSymbols.Replace(s)) }

	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, text(title))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, text(fmt.Sprintf("Unit system: %s    Structure: %s", r.Unit, r.Criteria.Structure)))
	pdf.Ln(10)

	// Inputs
	section(pdf, text("Input Parameters"))
	in := r.DisplayInputs()
	for _, f := range globalcheck.Fields {
		label := r.Label(f.Quantity)
		prec := 2
		if f.Quantity == units.Length || f.Quantity == units.Time {
			prec = 3
		}
		tableRow(pdf, []float64{90, 50, 30},
			[]string{text(f.Label), FormatNumber(f.Value(in), prec), text(label)}, false)
	}
	pdf.Ln(6)

	// Metrics
	section(pdf, text("Derived Metrics"))
	widths := []float64{60, 30, 25, 40, 30}
	tableRow(pdf, widths, []string{"Metric", "Value", "Unit", "Typical range", "Verdict"}, true)
	for _, m := range r.Metrics {
		value := "-"
		if v, ok := r.DisplayValue(m); ok {
			value = FormatNumber(v, Precision(m.Quantity))
		}
		rng := ""
		if m.Range != nil {
			rng = fmt.Sprintf("%s - %s",
				FormatNumber(r.Display(m.Quantity, m.Range.Min), Precision(m.Quantity)),
				FormatNumber(r.Display(m.Quantity, m.Range.Max), Precision(m.Quantity)))
		}
		tableRow(pdf, widths, []string{text(m.Label), value, text(r.Label(m.Quantity)), rng, VerdictText(m.Verdict)}, false)
	}
	pdf.Ln(6)

	// Notes for undefined or flagged metrics
	var notes []string
	for _, m := range r.Metrics {
		if m.Note != "" && m.Verdict != globalcheck.Reasonable {
			notes = append(notes, fmt.Sprintf("%s: %s", m.Label, m.Note))
		}
	}
	if len(notes) > 0 {
		section(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 5, text(strings.Join(notes, "\n")), "", "L", false)
		pdf.Ln(4)
	}

	// Factored building totals
	section(pdf, "Governing Load Combinations")
	force := r.Label(units.Force)
	tableRow(pdf, []float64{50, 70, 50}, []string{"Vertical", r.GoverningVertical.Description,
		text(FormatNumber(r.Display(units.Force, r.GoverningVertical.Value), 2) + " " + force)}, false)
	tableRow(pdf, []float64{50, 70, 50}, []string{"Lateral", r.GoverningLateral.Description,
		text(FormatNumber(r.Display(units.Force, r.GoverningLateral.Value), 2) + " " + force)}, false)

	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
	}
	for i, c := range cells {
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 6, c, "1", 0, align, header, 0, "")
	}
	pdf.Ln(-1)
	if header {
		pdf.SetFont("Helvetica", "", 10)
	}
}

// VerdictText is the status wording used in reports
func VerdictText(v globalcheck.Verdict) string {
	switch v {
	case globalcheck.Reasonable:
		return "Reasonable"
	case globalcheck.Check:
		return "PLS Check"
	case globalcheck.Reported:
		return "Reported"
	}
	return "Undefined"
}

// Precision is the number of decimals shown for q
func Precision(q units.Quantity) int {
	switch q {
	case units.Ratio:
		return 4
	case units.Time:
		return 3
	}
	return 2
}
