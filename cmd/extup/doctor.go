package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup/internal/cli"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [dir]",
	Short: "Check the required toolchain without installing anything",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.RunDoctor(runOptionsFromFlags(cmd, args)))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
