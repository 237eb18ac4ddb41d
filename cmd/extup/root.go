package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "extup",
	Short: "extup builds and installs an editor extension from source",
	Long: `extup drives the extension install workflow: check the toolchain,
install dependencies, package the extension artifact, and install it into the
editor. A bare "extup" runs the whole pipeline in the current directory.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("dir", ".", "Project directory containing the extension sources")
	rootCmd.PersistentFlags().String("config", "", "Manifest path (default: <dir>/extup.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("json", false, "Emit NDJSON instead of human output")

	// The historical installer took no arguments; a bare invocation still
	// runs the full pipeline.
	rootCmd.Run = installCmd.Run
}

func runOptionsFromFlags(cmd *cobra.Command, args []string) cli.RunOptions {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonMode, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")
	legacy, _ := cmd.Flags().GetBool("legacy-exit")

	return cli.RunOptions{
		Dir:        dir,
		ConfigPath: configPath,
		LegacyExit: legacy,
		Debug:      debug,
		Quiet:      quiet,
		JSON:       jsonMode,
	}
}
