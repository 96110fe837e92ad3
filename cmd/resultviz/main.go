package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/cmd/resultviz/commands"
	"github.com/teranos/resultviz/logger"
)

var rootCmd = &cobra.Command{
	Use:   "resultviz",
	Short: "resultviz - Lay out and tabulate graph query results",
	Long: `resultviz - Lay out and tabulate graph query results.

resultviz turns the response of a graph database query into a coloured,
force-directed node/link layout and a sized result table.

Available commands:
  layout  - Lay out a saved query response and print the final frame
  table   - Render the tabular part of a saved query response
  query   - Run a Cypher query against Neo4j and render the result
  serve   - Stream layout frames to drawing surfaces over WebSocket
  am      - Show and validate configuration
  version - Show version information

Examples:
  resultviz layout result.json --selected
  resultviz table result.json
  resultviz query 'MATCH (m:Movie)<-[r]-(p) RETURN m, r, p LIMIT 25'
  resultviz serve`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.LayoutCmd)
	rootCmd.AddCommand(commands.TableCmd)
	rootCmd.AddCommand(commands.QueryCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
