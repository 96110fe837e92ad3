package viz

import (
	"go.uber.org/zap"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/table"
)

// Options configures a Renderer.
type Options struct {
	RestrictToSelected bool
	Palette            graph.Palette
	Projector          table.Projector
	Layout             layout.Config
}

// DefaultOptions renders the whole result on a width×height canvas.
func DefaultOptions(width, height float64) Options {
	return Options{
		Palette:   graph.NewPalette(graph.DefaultPaletteSize),
		Projector: table.NewProjector(),
		Layout:    layout.DefaultConfig(width, height),
	}
}

// View is a prepared response: everything but positions.
type View struct {
	Graph   *graph.Graph  `json:"graph"`
	Legend  graph.Legend  `json:"legend"`
	Stats   graph.Stats   `json:"graph_stats"`
	Table   *table.Result `json:"table,omitempty"`
	Summary string        `json:"summary"`
}

// Renderer runs the response pipeline: decode the graph, filter to the
// selection, colour, project the table, and lay out.
type Renderer struct {
	opts      Options
	verbosity int
	logger    *zap.SugaredLogger
}

// NewRenderer creates a renderer.
func NewRenderer(opts Options, verbosity int, log *zap.SugaredLogger) *Renderer {
	if log == nil {
		log = logger.Logger
	}
	return &Renderer{
		opts:      opts,
		verbosity: verbosity,
		logger:    log.Named("viz.renderer"),
	}
}

// Options returns the renderer's settings.
func (r *Renderer) Options() Options { return r.opts }

// Prepare builds the view for resp. A response carrying a backend error is
// reported as a query error; a response without a visualization yields an
// empty graph.
func (r *Renderer) Prepare(resp *Response) (*View, error) {
	if resp == nil {
		return nil, errors.NewInvalidRequestError("no response to render")
	}
	if resp.Error != "" {
		graphErr := grapherr.New(
			grapherr.CategoryQuery,
			errors.Newf("query backend reported: %s", resp.Error),
			"",
		).WithSubcategory(grapherr.SubcategoryQueryExecution)
		r.logger.Warnw("Response carries an error", graphErr.ToLogFields()...)
		return nil, graphErr
	}

	g := graph.Empty()
	if resp.Visualization != nil {
		built, err := graph.Build(*resp.Visualization)
		if err != nil {
			if graphErr, ok := grapherr.From(err); ok {
				r.logger.Warnw("Rejected visualization payload", graphErr.ToLogFields()...)
			}
			return nil, err
		}
		g = built
	}

	filtered, err := graph.Filter(g, r.opts.RestrictToSelected)
	if err != nil {
		return nil, grapherr.New(grapherr.CategoryGraph, err, "").
			WithSubcategory(grapherr.SubcategoryGraphSelect)
	}
	colored := r.opts.Palette.Colorize(filtered)

	view := &View{
		Graph:   colored,
		Legend:  r.opts.Palette.Legend(colored),
		Stats:   colored.Stats(),
		Summary: table.Summary(resp.Stats, resp.JSON != nil),
	}
	if len(resp.Columns) > 0 {
		view.Table = r.opts.Projector.Project(resp.Columns, resp.JSON)
	}

	r.logger.Debugw("Prepared view",
		logger.FieldNodes, len(colored.Nodes),
		logger.FieldLinks, len(colored.Links),
		logger.FieldRows, len(resp.JSON),
		"restrict_to_selected", r.opts.RestrictToSelected)
	if logger.ShouldLogAll(r.verbosity) {
		r.logger.Debugw("Legend", "legend", view.Legend)
	}
	return view, nil
}

// Simulate starts a layout of the view's graph. When prev is non-nil, nodes
// already placed in it keep their positions.
func (r *Renderer) Simulate(view *View, prev *layout.Frame) (*layout.Simulation, error) {
	g := view.Graph
	if prev != nil {
		g = layout.Carry(*prev, g)
	}
	sim, err := layout.New(g, r.opts.Layout)
	if err != nil {
		return nil, err
	}
	return sim, nil
}

// Render prepares resp and runs its layout to completion.
func (r *Renderer) Render(resp *Response) (*View, layout.Frame, error) {
	view, err := r.Prepare(resp)
	if err != nil {
		return nil, layout.Frame{}, err
	}
	sim, err := layout.New(view.Graph, r.opts.Layout)
	if err != nil {
		return nil, layout.Frame{}, err
	}
	trace := logger.ShouldLogTrace(r.verbosity)
	for sim.Step() {
		if trace {
			r.logger.Debugw("Tick",
				logger.FieldTick, sim.Tick(),
				logger.FieldAlpha, sim.Alpha(),
				logger.FieldEnergy, sim.Energy())
		}
	}
	frame := sim.Frame()
	view.Graph = sim.Positioned()

	r.logger.Infow("Rendered result",
		logger.FieldNodes, len(frame.Nodes),
		logger.FieldTick, frame.Tick,
		logger.FieldState, frame.State.String())
	return view, frame, nil
}
