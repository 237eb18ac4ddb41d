package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hsp3-utils/extup"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of extup",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("extup version %s\n", strings.TrimSpace(extup.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
