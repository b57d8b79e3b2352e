package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/export"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/importer"
)

type batchOptions struct {
	criteria criteriaFlags
	output   string
	csvFile  string
	template string
}

func newBatchCmd() *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch [workbook.xlsx]",
		Short: "Run the global check on every building of an Excel workbook",
		Long: `Read buildings from the "Inputs" sheet of an Excel workbook (or its first
sheet) and check each of them.

The header row names the columns with the input keys: name, unit, dl, ll,
sdl, floor_area, side_x_area, side_y_area, height, top_displacement, wx, wy,
eqx, eqy, t_model. Header matching ignores case and unit suffixes such as
"DL (kN)". A row that cannot be read is reported and skipped.

Examples:
  # Write a template workbook to fill in
  globalcheck batch --template buildings.xlsx

  # Check every building and save the summary workbook
  globalcheck batch buildings.xlsx --output results.xlsx

  # Save every metric of every building as CSV
  globalcheck batch buildings.xlsx --csv results.csv`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.template != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.template != "" {
				if err := writeFile(opts.template, export.WriteTemplate); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Template saved to %s\n", opts.template)
				return nil
			}
			return runBatch(cmd, opts, args[0])
		},
	}

	fs := cmd.Flags()
	opts.criteria.register(fs)
	fs.StringVarP(&opts.output, "output", "o", "", "Save the summary workbook (.xlsx)")
	fs.StringVar(&opts.csvFile, "csv", "", "Save every metric of every building as CSV")
	fs.StringVar(&opts.template, "template", "", "Write an input template workbook and exit")
	return cmd
}

func init() {
	rootCmd.AddCommand(newBatchCmd())
}

func runBatch(cmd *cobra.Command, opts *batchOptions, path string) error {
	crit, err := opts.criteria.resolve(cmd.Flags())
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	rows, err := importer.ReadWorkbook(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	results := export.EvaluateRows(globalcheck.New(crit), rows)
	printBatch(cmd.OutOrStdout(), path, results)

	if opts.output != "" {
		err := writeFile(opts.output, func(w io.Writer) error { return export.WriteWorkbook(w, results) })
		if err != nil {
			return fmt.Errorf("saving %s: %w", opts.output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", opts.output)
	}
	if opts.csvFile != "" {
		err := writeFile(opts.csvFile, func(w io.Writer) error { return export.WriteBatchCSV(w, results) })
		if err != nil {
			return fmt.Errorf("saving %s: %w", opts.csvFile, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved %s\n", opts.csvFile)
	}
	return nil
}

func printBatch(out io.Writer, path string, results []export.Named) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "              ETABS GLOBAL CHECK - BATCH")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Workbook: %s\n\n", path)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Building\tUnit\tStatus\tMetrics to check\n")
	fmt.Fprintf(w, "  ────────\t────\t──────\t────────────────\n")
	passed, failed, errored := 0, 0, 0
	for _, n := range results {
		if n.Err != nil {
			errored++
			fmt.Fprintf(w, "  %s\t-\t✗ Error\t%v\n", n.Name, n.Err)
			continue
		}
		var keys []string
		for _, m := range n.Result.Metrics {
			if m.Verdict == globalcheck.Check {
				keys = append(keys, m.Key)
			}
		}
		if len(keys) == 0 {
			passed++
			fmt.Fprintf(w, "  %s\t%s\t✓ OK\t-\n", n.Name, n.Result.Unit)
		} else {
			failed++
			fmt.Fprintf(w, "  %s\t%s\t⚠ PLS Check\t%s\n", n.Name, n.Result.Unit, strings.Join(keys, ", "))
		}
	}
	w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %d checked: %d OK, %d to check, %d with errors\n\n", len(results), passed, failed, errored)
}
