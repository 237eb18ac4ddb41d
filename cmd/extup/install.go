package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup/internal/cli"
)

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:   "install [dir]",
	Short: "Run the full install pipeline",
	Long: `Checks the toolchain, installs dependencies, packages the extension
artifact, and installs it into the editor, aborting on the first failure.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(cli.RunInstall(runOptionsFromFlags(cmd, args)))
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().Bool("quiet", false, "Suppress progress and report output")
	installCmd.Flags().Bool("legacy-exit", false, "Reproduce the historical script: do not abort on intermediate failures; the last stage's exit code wins")
}
