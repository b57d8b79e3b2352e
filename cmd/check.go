package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/diagram"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/export"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/plan"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

type checkOptions struct {
	inputs   inputFlags
	criteria criteriaFlags

	// Outputs
	jsonOut     bool
	graph       bool
	guide       bool
	title       string
	csvFile     string
	metricsFile string
	xlsxFile    string
	pdfFile     string
	chartFile   string
	periodFile  string
}

func newCheckCmd() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the global check on one building",
		Long: `Run the global check on the whole-building totals of an analysis model.

Every input has a flag; unspecified inputs default to the example
building (DL 5000 kN, LL 2000 kN, SDL 1500 kN, floor area 1000 m², ...).
Inputs can also be read from a JSON file with keys dl, ll, sdl, wx, wy,
eqx, eqy, floor_area, side_x_area, side_y_area, height,
top_displacement, t_model and unit.

The approximate period follows ASCE 7-16 Section 12.8.2.1:
  T_approx = Ct·H^x   (H in metres)
  T_max    = Cu·T_approx

Examples:
  # Check the example building
  globalcheck check

  # Check a building in kip and ft
  globalcheck check --unit imperial --dl 1124 --ll 450 --sdl 337 \
      --floor-area 10764 --height 98.4 --top-displacement 0.49

  # Read inputs from a file, use steel moment frame coefficients
  globalcheck check --input tower.json --structure steel-moment-frame

  # Save the report and charts
  globalcheck check --pdf report.pdf --chart loads.png --period-chart period.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	fs := cmd.Flags()
	opts.inputs.register(fs)
	opts.criteria.register(fs)

	fs.BoolVar(&opts.jsonOut, "json", false, "Print the result as JSON instead of the report")
	fs.BoolVarP(&opts.graph, "graph", "g", false, "Show ASCII load distribution and period curve")
	fs.BoolVar(&opts.guide, "guide", false, "Print the interpretation guide after the report")
	fs.StringVar(&opts.title, "title", "ETABS Global Check", "Title of the PDF report")
	fs.StringVar(&opts.csvFile, "csv", "", "Save the vertical load table as CSV")
	fs.StringVar(&opts.metricsFile, "metrics-csv", "", "Save every metric as CSV")
	fs.StringVar(&opts.xlsxFile, "xlsx", "", "Save the result as an Excel workbook")
	fs.StringVar(&opts.pdfFile, "pdf", "", "Save a PDF report")
	fs.StringVar(&opts.chartFile, "chart", "", "Export the vertical load chart (.png, .svg or .pdf)")
	fs.StringVar(&opts.periodFile, "period-chart", "", "Export the period chart (.png, .svg or .pdf)")

	return cmd
}

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func runCheck(cmd *cobra.Command, opts *checkOptions) error {
	in, err := opts.inputs.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	crit, err := opts.criteria.resolve(cmd.Flags())
	if err != nil {
		return err
	}

	result, err := globalcheck.New(crit).Evaluate(in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		printReport(out, result)
		if opts.inputs.loaded != nil {
			printPlan(out, opts.inputs.loaded)
		}
		if opts.graph {
			fmt.Fprint(out, diagram.DrawLoadBars(result))
			fmt.Fprint(out, diagram.DrawPeriodCurve(result))
		}
		if opts.guide {
			printGuide(out, result)
		}
	}

	return saveOutputs(cmd.ErrOrStderr(), opts, result)
}

func saveOutputs(log io.Writer, opts *checkOptions, r *globalcheck.Result) error {
	files := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.csvFile, func(w io.Writer) error { return export.WriteCSV(w, r) }},
		{opts.metricsFile, func(w io.Writer) error { return export.WriteMetricsCSV(w, r) }},
		{opts.xlsxFile, func(w io.Writer) error {
			return export.WriteWorkbook(w, []export.Named{{Name: opts.title, Result: r}})
		}},
		{opts.pdfFile, func(w io.Writer) error { return export.WritePDF(w, opts.title, r) }},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := writeFile(f.path, f.write); err != nil {
			return fmt.Errorf("saving %s: %w", f.path, err)
		}
		fmt.Fprintf(log, "Saved %s\n", f.path)
	}

	if opts.chartFile != "" {
		if err := diagram.ExportLoadChart(r, opts.chartFile); err != nil {
			return fmt.Errorf("exporting load chart: %w", err)
		}
		fmt.Fprintf(log, "Saved %s\n", opts.chartFile)
	}
	if opts.periodFile != "" {
		if err := diagram.ExportPeriodChart(r, opts.periodFile); err != nil {
			return fmt.Errorf("exporting period chart: %w", err)
		}
		fmt.Fprintf(log, "Saved %s\n", opts.periodFile)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// printPlan shows the geometry the floor plan contributed, in the plan's units
func printPlan(out io.Writer, p *plan.Plan) {
	props := p.CalculateProperties()
	length, area := p.Unit.Label(units.Length), p.Unit.Label(units.Area)

	fmt.Fprintf(out, "FLOOR PLAN (%s):\n", p.Unit)
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if p.Name != "" {
		fmt.Fprintf(w, "  Name:\t%s\n", p.Name)
	}
	fmt.Fprintf(w, "  Outline:\t%d vertices\n", len(p.Vertices))
	fmt.Fprintf(w, "  Typical floor area:\t%s %s\n", export.FormatNumber(props.FloorArea, 2), area)
	fmt.Fprintf(w, "  Centroid:\t(%s, %s) %s\n",
		export.FormatNumber(props.CentroidX, 3), export.FormatNumber(props.CentroidY, 3), length)
	fmt.Fprintf(w, "  Plan extent:\t%s × %s %s\n",
		export.FormatNumber(props.MaxX-props.MinX, 3), export.FormatNumber(props.MaxY-props.MinY, 3), length)
	fmt.Fprintf(w, "  Storeys:\t%d × %s %s = %s %s\n", p.Stories,
		export.FormatNumber(p.StoryHeight, 3), length, export.FormatNumber(props.Height, 3), length)
	w.Flush()
	fmt.Fprintln(out)
}

func printReport(out io.Writer, r *globalcheck.Result) {
	in := r.DisplayInputs()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "        ETABS GLOBAL CHECK - BUILDING SANITY CHECK")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	// Input summary
	fmt.Fprintf(out, "INPUT DATA (%s):\n", r.Unit)
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, f := range globalcheck.Fields {
		fmt.Fprintf(w, "  %s:\t%s %s\n", f.Label, export.FormatNumber(f.Value(in), 2), r.Label(f.Quantity))
	}
	w.Flush()
	fmt.Fprintln(out)

	// Metrics
	fmt.Fprintln(out, "GLOBAL CHECK RESULTS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Metric\tValue\tTypical Range\tStatus\n")
	fmt.Fprintf(w, "  ──────\t─────\t─────────────\t──────\n")
	for _, m := range r.Metrics {
		value := "n/a"
		if v, ok := r.DisplayValue(m); ok {
			value = fmt.Sprintf("%s %s", export.FormatNumber(v, export.Precision(m.Quantity)), r.Label(m.Quantity))
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s %s\n", m.Label, value, rangeText(r, m), m.Verdict.Symbol(), export.VerdictText(m.Verdict))
	}
	w.Flush()
	fmt.Fprintln(out)

	// Notes
	fmt.Fprintln(out, "NOTES:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	for _, m := range r.Metrics {
		if m.Note != "" {
			fmt.Fprintf(out, "  %s: %s\n", m.Label, m.Note)
		}
	}
	fmt.Fprintln(out)

	// Factored totals
	force := r.Label(units.Force)
	fmt.Fprintln(out, "GOVERNING LOAD COMBINATIONS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Vertical:\t%s (%s)\t%s %s\n", r.GoverningVertical.ID, r.GoverningVertical.Description,
		export.FormatNumber(r.Display(units.Force, r.GoverningVertical.Value), 2), force)
	fmt.Fprintf(w, "  Lateral:\t%s (%s)\t%s %s\n", r.GoverningLateral.ID, r.GoverningLateral.Description,
		export.FormatNumber(r.Display(units.Force, r.GoverningLateral.Value), 2), force)
	w.Flush()
	fmt.Fprintln(out)

	counts := r.Counts()
	lines := []string{
		fmt.Sprintf("Total vertical load: %s %s", export.FormatNumber(r.Display(units.Force, r.TotalVerticalLoad), 2), force),
		fmt.Sprintf("✓ Reasonable: %d", counts[globalcheck.Reasonable]),
		fmt.Sprintf("⚠ PLS Check:  %d", counts[globalcheck.Check]),
		fmt.Sprintf("· Reported:   %d", counts[globalcheck.Reported]),
	}
	if n := counts[globalcheck.Undefined]; n > 0 {
		lines = append(lines, fmt.Sprintf("— Undefined:  %d", n))
	}
	title := "GLOBAL CHECK PASSED"
	if !r.Passed() {
		title = "GLOBAL CHECK: REVIEW REQUIRED"
	}
	fmt.Fprint(out, diagram.DrawSummaryBox(title, lines))
	fmt.Fprintln(out)
}

func rangeText(r *globalcheck.Result, m globalcheck.Metric) string {
	if m.Range == nil {
		return "-"
	}
	prec := export.Precision(m.Quantity)
	hi := export.FormatNumber(r.Display(m.Quantity, m.Range.Max), prec)
	if m.Key == globalcheck.KeyDrift || m.Key == globalcheck.KeyPeriod {
		return "≤ " + hi
	}
	lo := export.FormatNumber(r.Display(m.Quantity, m.Range.Min), prec)
	return lo + " – " + hi
}

func printGuide(out io.Writer, r *globalcheck.Result) {
	c := r.Criteria
	pressure := r.Label(units.Pressure)
	show := func(rng criteria.Range) string {
		return fmt.Sprintf("%s to %s %s",
			export.FormatNumber(r.Display(units.Pressure, rng.Min), 2),
			export.FormatNumber(r.Display(units.Pressure, rng.Max), 2), pressure)
	}

	fmt.Fprintln(out, "INTERPRETATION GUIDE:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintln(out, "  Load per area       Distribution of each load type over the floor area.")
	fmt.Fprintln(out, "  Drift ratio (Δ/H)   Top displacement relative to building height;")
	fmt.Fprintln(out, "                      must stay within the allowable limit.")
	fmt.Fprintln(out, "  Period check        Model period compared with the code upper limit")
	fmt.Fprintln(out, "                      T_max = Cu·Ct·H^x.")
	fmt.Fprintln(out, "  EQx/EQy ratio       Balance of the seismic base shear in both directions.")
	fmt.Fprintln(out, "  Load shares         Proportion of DL, LL and SDL in the total vertical load.")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Typical ranges (general guidelines, adjust to the governing code):")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "    DL per area:\t%s\n", show(c.DLPerArea))
	fmt.Fprintf(w, "    LL per area:\t%s\n", show(c.LLPerArea))
	fmt.Fprintf(w, "    SDL per area:\t%s\n", show(c.SDLPerArea))
	fmt.Fprintf(w, "    Allowable drift ratio:\t%.4f (typically 0.005 to 0.020)\n", c.DriftLimit)
	fmt.Fprintf(w, "    Period coefficients:\tCt = %.3f, x = %.2f, Cu = %.2f (%s)\n", c.Ct, c.X, c.Cu, c.Structure)
	w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Status:")
	fmt.Fprintln(out, "    ✓ Reasonable   value lies within the typical range")
	fmt.Fprintln(out, "    ⚠ PLS Check    value is outside the typical range and should be reviewed")
	fmt.Fprintln(out, "    · Reported     value has no typical range and is shown for information")
	fmt.Fprintln(out, "    — Undefined    a divisor is zero; see the notes")
	fmt.Fprintln(out)
}
