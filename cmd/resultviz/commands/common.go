// Package commands implements the resultviz CLI subcommands.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/resultviz/am"
	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	"github.com/teranos/resultviz/internal/httpclient"
	"github.com/teranos/resultviz/viz"
)

// loadConfig loads and validates the merged configuration.
func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// fetchTimeout bounds downloading a response given as a URL.
const fetchTimeout = 30 * time.Second

// readResponse reads a query response from path: a file, "-" for stdin, or
// an http(s) URL. A bare {"nodes":[],"links":[]} payload is accepted as a
// response with only a visualization.
func readResponse(cmd *cobra.Command, path string) (*viz.Response, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case path == "-":
		data, err = io.ReadAll(cmd.InOrStdin())
	case httpclient.IsURL(path):
		allowPrivate, _ := cmd.Flags().GetBool("allow-private")
		fetcher := httpclient.New(fetchTimeout, httpclient.Options{AllowPrivate: allowPrivate})
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		data, err = fetcher.Fetch(ctx, path)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err == nil {
		_, hasNodes := probe["nodes"]
		_, hasEnvelope := probe["visualization"]
		if hasNodes && !hasEnvelope {
			var in graph.Input
			dec := json.NewDecoder(bytes.NewReader(data))
			dec.UseNumber()
			if err := dec.Decode(&in); err != nil {
				return nil, errors.Wrapf(err, "failed to decode graph in %s", path)
			}
			return &viz.Response{Visualization: &in}, nil
		}
	}

	return viz.DecodeResponse(data)
}

// applyCanvasFlags overrides the configured canvas and seed with any
// explicitly set flags.
func applyCanvasFlags(cmd *cobra.Command, opts *viz.Options) {
	if cmd.Flags().Changed("width") {
		opts.Layout.Width, _ = cmd.Flags().GetFloat64("width")
	}
	if cmd.Flags().Changed("height") {
		opts.Layout.Height, _ = cmd.Flags().GetFloat64("height")
	}
	if cmd.Flags().Changed("seed") {
		opts.Layout.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if cmd.Flags().Changed("selected") {
		opts.RestrictToSelected, _ = cmd.Flags().GetBool("selected")
	}
}

func addCanvasFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("width", 0, "Canvas width (overrides layout.width)")
	cmd.Flags().Float64("height", 0, "Canvas height (overrides layout.height)")
	cmd.Flags().Uint64("seed", 0, "Initial placement seed (overrides layout.seed)")
	cmd.Flags().Bool("selected", false, "Show only nodes the query returned (overrides selection.result_only)")
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("allow-private", false, "Allow fetching responses from private and loopback addresses")
}
