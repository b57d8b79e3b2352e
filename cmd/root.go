package cmd

import (
	"fmt"
	"os"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "globalcheck",
	Short: "ETABS global check for building analysis models",
	Long: `globalcheck - ETABS Global Check

A CLI tool for sanity-checking the whole-building totals exported
from an ETABS (or similar) structural analysis model.

From the building's total loads, areas, height, top displacement and
model period it derives:
  - Dead, live and superimposed dead load per floor area
  - Wind load per side surface area
  - EQx/EQy base shear balance
  - Share of each load type in the total vertical load
  - Drift ratio (Δ/H) against the allowable limit
  - Model period against the ASCE 7 upper limit Cu·Ct·H^x

Each value is compared with a typical range and reported as
Reasonable or PLS Check. Metric (kN, m) and imperial (kip, ft)
units are supported.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   %s v%-*s║\n", version.Name, 54-len(version.Name), version.Version)
		fmt.Fprintln(out, "  ║   ETABS Global Check - Building Sanity Check              ║")
		fmt.Fprintf(out, "  ║   %-56s║\n", fmt.Sprintf("%s ©  %s", version.Author, version.Year))
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  A CLI tool for checking the global results of a building")
		fmt.Fprintln(out, "  analysis model against typical ranges and code limits.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • Load per area, load share and EQx/EQy balance checks")
		fmt.Fprintln(out, "    • Drift ratio and fundamental period checks")
		fmt.Fprintln(out, "    • Batch checks from Excel workbooks")
		fmt.Fprintln(out, "    • CSV, Excel, PDF and chart outputs")
		fmt.Fprintln(out, "    • HTTP JSON API")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "  Use '%s --help' to see available commands.\n", version.Name)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceErrors = true
}
