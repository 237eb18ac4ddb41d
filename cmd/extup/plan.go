package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup/internal/cli"
)

var planCmd = &cobra.Command{
	Use:   "plan [dir]",
	Short: "Print the resolved stages and commands without executing them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.RunPlan(runOptionsFromFlags(cmd, args)))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
