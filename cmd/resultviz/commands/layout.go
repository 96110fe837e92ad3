package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/display"
	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/viz"
)

// LayoutCmd lays out a saved query response
var LayoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "Lay out a query response and print the final frame",
	Long: `Decode a query response (or a bare {"nodes","links"} payload), select,
colour and lay out its graph, and print the converged frame.

Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	addSourceFlags(LayoutCmd)
	addCanvasFlags(LayoutCmd)
	LayoutCmd.Flags().String("format", "json", "Output format: json, toml, yaml")
	LayoutCmd.Flags().Bool("graph", false, "Print the positioned graph instead of the frame")
}

// layoutOutput is what the layout command prints with --graph
type layoutOutput struct {
	View  *viz.View    `json:"view" yaml:"view" toml:"view"`
	Frame layout.Frame `json:"frame" yaml:"frame" toml:"frame"`
}

func runLayout(cmd *cobra.Command, args []string) error {
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

	opts := cfg.RendererOptions()
	applyCanvasFlags(cmd, &opts)

	renderer := viz.NewRenderer(opts, verbosity(cmd), logger.Logger)
	view, frame, err := renderer.Render(resp)
	if err != nil {
		return errors.Wrap(err, "layout failed")
	}

	if withGraph, _ := cmd.Flags().GetBool("graph"); withGraph {
		return display.Output(cmd.OutOrStdout(), layoutOutput{View: view, Frame: frame}, format)
	}
	return display.Output(cmd.OutOrStdout(), frame, format)
}
