package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/export"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

func newCombosCmd() *cobra.Command {
	var inputs inputFlags
	cmd := &cobra.Command{
		Use:   "combos",
		Short: "Show factored building totals for the basic load combinations",
		Long: `Apply the basic strength load combinations (ASCE 7-16 Section 2.3.1)
to the building totals and show the factored vertical load and base shear.

Load Types:
  D  - Dead load (DL + SDL)
  L  - Live load (LL)
  W  - Wind load, larger of Wx and Wy
  E  - Earthquake load, larger of EQx and EQy

The results are informational and do not affect the global check verdicts.

Examples:
  # Example building
  globalcheck combos

  # Only gravity loads
  globalcheck combos --dl 5000 --ll 2000 --sdl 1500 --wx 0 --wy 0 --eqx 0 --eqy 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputs.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			x := in.Canonical()
			loads := criteria.NewBuildingLoads(x.DL, x.LL, x.SDL, x.Wx, x.Wy, x.EQx, x.EQy)
			printCombinations(cmd.OutOrStdout(), in.Unit, loads)
			return nil
		},
	}
	inputs.register(cmd.Flags())
	return cmd
}

func init() {
	rootCmd.AddCommand(newCombosCmd())
}

func printCombinations(out io.Writer, u units.UnitSystem, loads criteria.BuildingLoads) {
	force := u.Label(units.Force)
	show := func(v float64) string {
		return export.FormatNumber(u.FromCanonical(units.Force, v), 2)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out, "          FACTORED BUILDING TOTALS - ASCE 7-16 2.3.1")
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	fmt.Fprintf(out, "UNFACTORED LOADS (%s):\n", force)
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Dead Load (D = DL + SDL):\t%s\n", show(loads.Dead))
	fmt.Fprintf(w, "  Live Load (L):\t%s\n", show(loads.Live))
	fmt.Fprintf(w, "  Wind Load (W):\t%s\n", show(loads.Wind))
	fmt.Fprintf(w, "  Earthquake Load (E):\t%s\n", show(loads.Earthquake))
	w.Flush()
	fmt.Fprintln(out)

	vertical, lateral := criteria.Governing(loads, criteria.LoadCombinations)

	fmt.Fprintln(out, "LOAD COMBINATIONS:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tCombination\tVertical (%s)\tLateral (%s)\n", force, force)
	fmt.Fprintf(w, "  ─\t───────────\t────────\t───────\n")
	for _, r := range criteria.Apply(loads, criteria.LoadCombinations) {
		marker := ""
		if r.Combination.ID == vertical.Combination.ID {
			marker += " ← GOVERNS (V)"
		}
		if r.Combination.ID == lateral.Combination.ID && lateral.Lateral > 0 {
			marker += " ← GOVERNS (H)"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s%s\n", r.Combination.ID, r.Combination.Description, show(r.Vertical), show(r.Lateral), marker)
	}
	w.Flush()
	fmt.Fprintln(out)

	fmt.Fprintln(out, "RESULT:")
	fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
	fmt.Fprintf(out, "  Governing vertical: %s (%s) = %s %s\n", vertical.Combination.ID, vertical.Combination.Description, show(vertical.Vertical), force)
	if lateral.Lateral > 0 {
		fmt.Fprintf(out, "  Governing lateral:  %s (%s) = %s %s\n", lateral.Combination.ID, lateral.Combination.Description, show(lateral.Lateral), force)
	} else {
		fmt.Fprintln(out, "  No lateral load given")
	}
	fmt.Fprintln(out)
}
