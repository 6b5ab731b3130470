package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the msdashboard application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "msdashboard",
	Short: "Aggregate microservice health and routing metadata into a dependency graph",
	Long: `msdashboard discovers the microservices registered in a runtime
environment, queries each one for self-reported health and routing metadata,
and assembles the results into a single dependency graph describing which
services exist and how they relate.

Run 'msdashboard serve' to expose the graph over HTTP, or
'msdashboard graph' for a one-shot aggregation on the command line.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application. It is called by
// main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "msdashboard version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
