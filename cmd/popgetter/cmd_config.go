package main

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interact with popgetter configuration",
	Long: `
Subcommands for inspecting the configuration popgetter is running with.
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
