// Command agencyctl is the operator tool for the agency API: offline estimates and staff tokens.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var noColor bool

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "agencyctl",
		Short:         "Operator tooling for the agency API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newTokenCmd())
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
