package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup/internal/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-run the pipeline on source changes (development mode)",
	Long: `Watches the project directory and re-runs the install pipeline on every
debounced change. Serves /healthz, /status (last run report) and /metrics
(Prometheus) on the listen address.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		listen, _ := cmd.Flags().GetString("listen")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		os.Exit(cli.RunWatch(cli.WatchOptions{
			RunOptions: runOptionsFromFlags(cmd, args),
			Listen:     listen,
			Debounce:   debounce,
		}))
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("listen", ":2112", "Address for the status/metrics server")
	watchCmd.Flags().Duration("debounce", 500*time.Millisecond, "Delay before a change burst triggers a run")
	watchCmd.Flags().Bool("quiet", false, "Suppress progress and report output")
	watchCmd.Flags().Bool("legacy-exit", false, "Do not abort on intermediate failures")
}
