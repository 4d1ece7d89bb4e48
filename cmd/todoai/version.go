package main

import (
	"fmt"

	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "todoai %s\n  build context: %s\n", version.Info(), version.BuildContext())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
