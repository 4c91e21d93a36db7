package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "2.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("payment-reconciler v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
