// Command screenboard generates a navigable visual map of an application's
// screens by driving a browser across viewports, states and screens, and
// serves the interactive capture/record session for the web UI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:     "screenboard",
	Short:   "Visual screen map generator",
	Long:    "screenboard captures an application's screens across viewports and states into a browsable manifest of screenshots and flows.",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "log as JSON")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
