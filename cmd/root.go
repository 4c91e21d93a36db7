package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "payment-reconciler",
	Short: "Reconcile a payment schedule against card settlement logs",
	Long: `payment-reconciler matches a payment-schedule spreadsheet against
transactions extracted from EDC settlement logs and password-protected
bank statements, and writes back an annotated spreadsheet with matched
fields, totals, and an appendix of unmatched transactions.`,
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
}
