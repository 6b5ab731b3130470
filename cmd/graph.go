package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"msdashboard/internal/aggregator"
	"msdashboard/internal/app"
	"msdashboard/internal/formatting"
)

var graphDebug bool
var graphConfigPath string
var graphOutput string

// graphCmd performs a single aggregation run and prints the combined graph.
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Run one aggregation and print the dependency graph",
	Long: `Performs a single aggregation run against the configured service
registry and prints the combined dependency graph, either as a table or as
the same JSON document the serve endpoint returns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if graphOutput != "table" && graphOutput != "json" {
			return fmt.Errorf("unknown output format %q (expected table or json)", graphOutput)
		}

		// Logs would interleave with the printed graph, so keep them off
		// unless debugging.
		silent := !graphDebug
		application, err := app.NewApplication(app.NewConfig(graphDebug, silent, graphConfigPath))
		if err != nil {
			return err
		}

		run := aggregator.NewRun("")
		result := application.Orchestrator().Aggregate(cmd.Context(), run)

		if graphOutput == "json" {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatting.RenderGraph(result))
		return nil
	},
}

func init() {
	graphCmd.Flags().BoolVar(&graphDebug, "debug", false, "Enable debug logging")
	graphCmd.Flags().StringVar(&graphConfigPath, "config", "", "Path to the configuration file")
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "table", "Output format: table or json")
	rootCmd.AddCommand(graphCmd)
}
