package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X jobdash/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobdash version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("jobdash " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
