package cmd

import (
	"fmt"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of globalcheck",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, version.String())
		fmt.Fprintln(out, "ETABS Global Check - Building Sanity Check")
		fmt.Fprintln(out, "Period limits per ASCE 7-16 Section 12.8.2.1")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
