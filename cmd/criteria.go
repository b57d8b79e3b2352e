package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
)

func newCriteriaCmd() *cobra.Command {
	var (
		flags   criteriaFlags
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "criteria",
		Short: "Print the typical ranges, limits and structure presets",
		Long: `Print the ranges and limits used by the global check.

With --json the active criteria are printed in the format accepted by
--criteria, so they can be saved, edited and passed back.

Examples:
  # Show the defaults
  globalcheck criteria

  # Start a criteria file for steel moment frames
  globalcheck criteria --structure steel-moment-frame --json > criteria.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "TYPICAL RANGES:")
			fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  DL per area:\t%s kN/m²\n", c.DLPerArea)
			fmt.Fprintf(w, "  LL per area:\t%s kN/m²\n", c.LLPerArea)
			fmt.Fprintf(w, "  SDL per area:\t%s kN/m²\n", c.SDLPerArea)
			fmt.Fprintf(w, "  DL share:\t%s %%\n", c.DLPercent)
			fmt.Fprintf(w, "  LL share:\t%s %%\n", c.LLPercent)
			fmt.Fprintf(w, "  SDL share:\t%s %%\n", c.SDLPercent)
			fmt.Fprintf(w, "  EQx/EQy ratio:\t%s\n", c.EQRatio)
			w.Flush()
			fmt.Fprintln(out)

			fmt.Fprintln(out, "LIMITS:")
			fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Allowable drift ratio:\t%g\n", c.DriftLimit)
			fmt.Fprintf(w, "  Structure:\t%s\n", c.Structure)
			fmt.Fprintf(w, "  Ct, x:\t%g, %g (H in m)\n", c.Ct, c.X)
			fmt.Fprintf(w, "  Cu:\t%g\n", c.Cu)
			w.Flush()
			fmt.Fprintln(out)

			fmt.Fprintln(out, "STRUCTURE PRESETS (ASCE 7-16 Table 12.8-2):")
			fmt.Fprintln(out, "───────────────────────────────────────────────────────────────")
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "  Type\tCt\tx\tDescription\n")
			fmt.Fprintf(w, "  ────\t──\t─\t───────────\n")
			for _, st := range criteria.StructureTypes() {
				p := criteria.Presets[st]
				fmt.Fprintf(w, "  %s\t%g\t%g\t%s\n", st, p.Ct, p.X, p.Description)
			}
			w.Flush()
			fmt.Fprintln(out)
			return nil
		},
	}
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the criteria as JSON")
	return cmd
}

func init() {
	rootCmd.AddCommand(newCriteriaCmd())
}
