package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/display"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

// TableCmd renders the tabular part of a saved query response
var TableCmd = &cobra.Command{
	Use:   "table <file>",
	Short: "Render the result table of a query response",
	Long: `Project the rows of a query response into sized columns and print them
with the query statistics summary.

Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTable,
}

func init() {
	addSourceFlags(TableCmd)
	TableCmd.Flags().String("format", "text", "Output format: text, json, toml, yaml")
	TableCmd.Flags().Bool("legend", false, "Also print the graph legend")
}

// tableOutput is the structured form of the table command's output
type tableOutput struct {
	Table   *table.Result `json:"table" yaml:"table" toml:"table"`
	Summary string        `json:"summary" yaml:"summary" toml:"summary"`
}

func runTable(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := display.OutputFormat(cmd)
	if err != nil {
		return err
	}

	resp, err := readResponse(cmd, args[0])
	if err != nil {
		return err
	}

	renderer := viz.NewRenderer(cfg.RendererOptions(), verbosity(cmd), logger.Logger)
	view, err := renderer.Prepare(resp)
	if err != nil {
		return err
	}

	if format != display.FormatText {
		return display.Output(cmd.OutOrStdout(), tableOutput{Table: view.Table, Summary: view.Summary}, format)
	}
	return printView(cmd, view)
}

// printView writes the table, the optional legend and the summary line.
func printView(cmd *cobra.Command, view *viz.View) error {
	out := cmd.OutOrStdout()
	if err := display.RenderTable(out, view.Table); err != nil {
		return err
	}
	if withLegend, _ := cmd.Flags().GetBool("legend"); withLegend {
		if err := display.RenderLegend(out, view.Legend); err != nil {
			return err
		}
	}
	fmt.Fprintln(out, view.Summary)
	return nil
}
