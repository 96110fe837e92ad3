// Package layout places graph nodes on a 2-D canvas with a force-directed
// simulation. Nodes live in an arena addressed by integer handles (their
// index in the graph), with positions and velocities in parallel slices so
// a tick never chases pointers.
//
// A Simulation is not safe for concurrent use. Step must be called serially;
// Runner owns a Simulation from a single goroutine and is the way to drive it
// while accepting drag input from elsewhere.
package layout

import (
	"math"
	"math/rand/v2"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/graph"
	"github.com/teranos/resultviz/internal/util"
)

// Simulation is one force-directed layout run over a single graph version.
type Simulation struct {
	cfg   Config
	graph *graph.Graph

	x, y   []float64
	px, py []float64 // positions at the start of the current tick
	vx, vy []float64
	fixed  []bool
	fx, fy []float64

	// Link endpoints as handle pairs plus per-link rest length.
	source, target []int
	distance       []float64
	bias           []float64

	rng *rand.Rand

	state  State
	tick   int // ticks since New
	heated int // ticks since the last (re)heat, bounded by MaxTicks
	alpha  float64
	energy float64
}

// New builds a simulation for g. Nodes carrying a prior Position keep it;
// the rest are scattered pseudo-randomly over the canvas from cfg.Seed.
func New(g *graph.Graph, cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		g = graph.Empty()
	}
	if err := graph.Validate(g); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	n := len(g.Nodes)
	s := &Simulation{
		cfg:      cfg,
		graph:    g,
		x:        make([]float64, n),
		y:        make([]float64, n),
		px:       make([]float64, n),
		py:       make([]float64, n),
		vx:       make([]float64, n),
		vy:       make([]float64, n),
		fixed:    make([]bool, n),
		fx:       make([]float64, n),
		fy:       make([]float64, n),
		source:   make([]int, len(g.Links)),
		target:   make([]int, len(g.Links)),
		distance: make([]float64, len(g.Links)),
		bias:     make([]float64, len(g.Links)),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		alpha:    cfg.Alpha,
	}

	for i, node := range g.Nodes {
		if p := node.Position; p != nil && util.IsFinite(p.X) && util.IsFinite(p.Y) {
			s.x[i], s.y[i] = p.X, p.Y
			continue
		}
		s.x[i] = s.rng.Float64() * cfg.Width
		s.y[i] = s.rng.Float64() * cfg.Height
	}

	degree := make([]int, n)
	for i, link := range g.Links {
		s.source[i], s.target[i] = link.Source, link.Target
		weight := link.Weight
		if !(weight > 0) {
			weight = 1
		}
		s.distance[i] = cfg.LinkDistance / weight
		degree[link.Source]++
		degree[link.Target]++
	}
	for i := range g.Links {
		ds, dt := degree[s.source[i]], degree[s.target[i]]
		s.bias[i] = float64(ds) / float64(ds+dt)
	}

	if n == 0 {
		s.state = Converged
	} else {
		s.state = Running
	}
	return s, nil
}

// Graph returns the graph being laid out.
func (s *Simulation) Graph() *graph.Graph { return s.graph }

// State reports where the simulation is in its lifecycle.
func (s *Simulation) State() State { return s.state }

// Running reports whether another Step would advance the simulation.
func (s *Simulation) Running() bool { return s.state == Running }

// Tick returns the number of ticks performed so far.
func (s *Simulation) Tick() int { return s.tick }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Energy returns the kinetic energy of the last tick: the summed squared
// distance the free nodes moved.
func (s *Simulation) Energy() float64 { return s.energy }

// Len returns the number of node handles.
func (s *Simulation) Len() int { return len(s.x) }

// Position returns the committed position of handle h.
func (s *Simulation) Position(h int) (graph.Point, bool) {
	if h < 0 || h >= len(s.x) {
		return graph.Point{}, false
	}
	return graph.Point{X: s.x[h], Y: s.y[h]}, true
}

// Step performs one tick. It returns false without touching any position
// when the simulation has converged or been stopped.
func (s *Simulation) Step() bool {
	if s.state != Running {
		return false
	}

	copy(s.px, s.x)
	copy(s.py, s.y)
	previous := s.energy

	s.applyLinks()
	s.applyCharge()
	s.applyGravity()
	s.integrate()

	s.tick++
	s.heated++
	s.alpha *= 1 - s.cfg.AlphaDecay

	// A low reading only counts while energy is falling, not at the turn
	// of a swing.
	settled := s.energy < s.cfg.EnergyThreshold && s.energy <= previous
	if s.heated >= s.cfg.MaxTicks || s.alpha < s.cfg.AlphaMin || settled {
		s.state = Converged
	}
	return true
}

// Stop halts the simulation. Positions from the last completed tick stay
// valid and readable through Frame.
func (s *Simulation) Stop() {
	s.state = Stopped
}

// Pin holds handle h at (x, y) regardless of forces, as while dragging.
// Pinning a converged simulation reheats it so neighbours settle around the
// new position.
func (s *Simulation) Pin(h int, x, y float64) error {
	if s.state == Stopped {
		return errors.Wrapf(errors.ErrStopped, "pin node %d", h)
	}
	if h < 0 || h >= len(s.x) {
		return errors.NewInvalidRequestError("node handle %d outside [0, %d)", h, len(s.x))
	}
	if !util.IsFinite(x) || !util.IsFinite(y) {
		return errors.NewInvalidRequestError("drag position (%g, %g) is not finite", x, y)
	}
	s.fixed[h] = true
	s.fx[h], s.fy[h] = x, y
	s.x[h], s.y[h] = x, y
	s.vx[h], s.vy[h] = 0, 0
	s.reheat()
	return nil
}

// Unpin releases handle h back to the forces.
func (s *Simulation) Unpin(h int) error {
	if h < 0 || h >= len(s.x) {
		return errors.NewInvalidRequestError("node handle %d outside [0, %d)", h, len(s.x))
	}
	s.fixed[h] = false
	return nil
}

// Fixed reports whether handle h is pinned.
func (s *Simulation) Fixed(h int) bool {
	return h >= 0 && h < len(s.fixed) && s.fixed[h]
}

func (s *Simulation) reheat() {
	if s.state == Converged || s.state == Running {
		s.state = Running
		s.alpha = s.cfg.Alpha
		s.heated = 0
	}
}

// applyLinks relaxes every link toward its rest length by moving the
// endpoints themselves, Gauss-Seidel style. The correction adds no momentum
// and cannot overshoot while alpha*LinkStrength < 1. The endpoint with more
// links moves less.
func (s *Simulation) applyLinks() {
	for i := range s.source {
		src, dst := s.source[i], s.target[i]
		if src == dst {
			continue
		}
		dx := s.x[dst] - s.x[src]
		dy := s.y[dst] - s.y[src]
		if dx == 0 && dy == 0 {
			dx, dy = s.jiggle(), s.jiggle()
		}
		d := math.Max(math.Hypot(dx, dy), s.cfg.MinDistance)
		l := (d - s.distance[i]) / d * s.alpha * s.cfg.LinkStrength
		dx *= l
		dy *= l
		b := s.bias[i]
		s.x[dst] -= dx * b
		s.y[dst] -= dy * b
		s.x[src] += dx * (1 - b)
		s.y[src] += dy * (1 - b)
	}
}

// applyCharge is the exact O(n²) pairwise interaction; result graphs are small.
func (s *Simulation) applyCharge() {
	if s.cfg.Charge == 0 {
		return
	}
	minSq := s.cfg.MinDistance * s.cfg.MinDistance
	n := len(s.x)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := s.x[j] - s.x[i]
			dy := s.y[j] - s.y[i]
			if dx == 0 && dy == 0 {
				dx, dy = s.jiggle(), s.jiggle()
			}
			d2 := util.MaxFloat64(dx*dx+dy*dy, minSq)
			w := s.alpha * s.cfg.Charge / d2
			s.vx[i] += dx * w
			s.vy[i] += dy * w
			s.vx[j] -= dx * w
			s.vy[j] -= dy * w
		}
	}
}

func (s *Simulation) applyGravity() {
	if s.cfg.Gravity == 0 {
		return
	}
	cx, cy := s.cfg.Width/2, s.cfg.Height/2
	k := s.alpha * s.cfg.Gravity
	for i := range s.x {
		s.vx[i] += (cx - s.x[i]) * k
		s.vy[i] += (cy - s.y[i]) * k
	}
}

func (s *Simulation) integrate() {
	energy := 0.0
	for i := range s.x {
		if s.fixed[i] {
			s.x[i], s.y[i] = s.fx[i], s.fy[i]
			s.vx[i], s.vy[i] = 0, 0
			continue
		}
		s.vx[i] *= s.cfg.Friction
		s.vy[i] *= s.cfg.Friction
		x, y := s.x[i]+s.vx[i], s.y[i]+s.vy[i]
		if !util.IsFinite(x) || !util.IsFinite(y) {
			// Keep the last committed position and drop the runaway velocity.
			s.x[i], s.y[i] = s.px[i], s.py[i]
			s.vx[i], s.vy[i] = 0, 0
			continue
		}
		s.x[i], s.y[i] = x, y
		dx, dy := x-s.px[i], y-s.py[i]
		energy += dx*dx + dy*dy
	}
	s.energy = energy
}

// jiggle returns a tiny seeded offset separating coincident points.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}
