package commands

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/cypher"
	"github.com/teranos/resultviz/display"
	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

// QueryCmd runs a Cypher query and renders its result
var QueryCmd = &cobra.Command{
	Use:   "query <cypher>",
	Short: "Run a Cypher query against Neo4j and render the result",
	Long: `Execute a Cypher query using the neo4j.* configuration, then print the
result table and statistics. With --format json|toml|yaml the laid-out
frame is included.

Parameters are passed as --param name=value; values that parse as JSON
keep their type, anything else is a string.

Examples:
  resultviz query 'MATCH (p:Person {name: $name})-[r]-(m) RETURN p, r, m' --param name='"Keanu Reeves"'
  resultviz query 'MATCH (n) RETURN count(n)' --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	addCanvasFlags(QueryCmd)
	QueryCmd.Flags().String("format", "text", "Output format: text, json, toml, yaml")
	QueryCmd.Flags().StringArray("param", nil, "Query parameter as name=value (repeatable)")
	QueryCmd.Flags().Duration("timeout", 30*time.Second, "Query timeout")
	QueryCmd.Flags().Bool("legend", false, "Also print the graph legend")
}

// queryOutput is the structured form of the query command's output
type queryOutput struct {
	Table   *table.Result `json:"table" yaml:"table" toml:"table"`
	Summary string        `json:"summary" yaml:"summary" toml:"summary"`
	Frame   layout.Frame  `json:"frame" yaml:"frame" toml:"frame"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := display.OutputFormat(cmd)
	if err != nil {
		return err
	}
	rawParams, _ := cmd.Flags().GetStringArray("param")
	params, err := parseParams(rawParams)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	executor, err := cypher.NewExecutor(cfg.Neo4jSettings())
	if err != nil {
		return err
	}
	defer executor.Close(context.Background())

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	source := cypher.NewSource(executor, logger.Logger)
	resp, err := source.Query(ctx, args[0], params)
	if err != nil {
		return err
	}

	opts := cfg.RendererOptions()
	applyCanvasFlags(cmd, &opts)
	renderer := viz.NewRenderer(opts, verbosity(cmd), logger.Logger)

	view, frame, err := renderer.Render(resp)
	if err != nil {
		return errors.Wrap(err, "failed to render query result")
	}

	if format != display.FormatText {
		return display.Output(cmd.OutOrStdout(), queryOutput{
			Table:   view.Table,
			Summary: view.Summary,
			Frame:   frame,
		}, format)
	}

	if err := printView(cmd, view); err != nil {
		return err
	}
	if len(frame.Nodes) > 0 {
		pterm.Info.Printfln("Laid out %d nodes and %d links in %d ticks (%s)",
			len(frame.Nodes), len(frame.Links), frame.Tick, frame.State)
	}
	return nil
}

// parseParams turns name=value pairs into query parameters.
func parseParams(raw []string) (map[string]interface{}, error) {
	params := make(map[string]interface{}, len(raw))
	for _, p := range raw {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, errors.NewInvalidRequestError("parameter %q must be name=value", p)
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[name] = decoded
		} else {
			params[name] = value
		}
	}
	return params, nil
}
