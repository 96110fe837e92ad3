package layout

import (
	"github.com/teranos/resultviz/errors"
	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/internal/util"
)

// Config holds the force constants and stopping rules of a simulation.
type Config struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	Gravity      float64 `json:"gravity"`       // Pull toward the canvas center
	Charge       float64 `json:"charge"`        // Pairwise charge, negative repels
	LinkDistance float64 `json:"link_distance"` // Spring rest length for weight 1
	LinkStrength float64 `json:"link_strength"`
	Friction     float64 `json:"friction"` // Velocity retained per tick

	Alpha      float64 `json:"alpha"`       // Initial temperature
	AlphaDecay float64 `json:"alpha_decay"` // alpha *= 1 - AlphaDecay per tick
	AlphaMin   float64 `json:"alpha_min"`

	MaxTicks        int     `json:"max_ticks"`
	EnergyThreshold float64 `json:"energy_threshold"`
	MinDistance     float64 `json:"min_distance"` // Floor for pairwise distances

	Seed uint64 `json:"seed"` // Initial placement seed, 0 picks one
}

// DefaultConfig returns the canonical constants for a width×height canvas.
func DefaultConfig(width, height float64) Config {
	return Config{
		Width:           width,
		Height:          height,
		Gravity:         0.05,
		Charge:          -100,
		LinkDistance:    100,
		LinkStrength:    1,
		Friction:        0.9,
		Alpha:           0.1,
		AlphaDecay:      0.01,
		AlphaMin:        0.005,
		MaxTicks:        300,
		EnergyThreshold: 0.01,
		MinDistance:     1,
	}
}

// Validate rejects constants the simulation cannot run with.
func (c Config) Validate() error {
	var problem error
	switch {
	case !(c.Width > 0) || !(c.Height > 0):
		problem = errors.Newf("canvas must have positive size, got %gx%g", c.Width, c.Height)
	case !(c.Friction >= 0 && c.Friction <= 1):
		problem = errors.Newf("friction must be in [0, 1], got %g", c.Friction)
	case !(c.AlphaDecay >= 0 && c.AlphaDecay < 1):
		problem = errors.Newf("alpha decay must be in [0, 1), got %g", c.AlphaDecay)
	case c.MaxTicks <= 0:
		problem = errors.Newf("tick budget must be positive, got %d", c.MaxTicks)
	case !(c.MinDistance > 0):
		problem = errors.Newf("minimum distance must be positive, got %g", c.MinDistance)
	case !(c.LinkDistance >= 0):
		problem = errors.Newf("link distance must not be negative, got %g", c.LinkDistance)
	}
	if problem == nil {
		for _, v := range []float64{c.Gravity, c.Charge, c.LinkStrength, c.Alpha, c.AlphaMin, c.EnergyThreshold} {
			if !util.IsFinite(v) {
				problem = errors.Newf("force constants must be finite, got %g", v)
				break
			}
		}
	}
	if problem == nil {
		return nil
	}
	return grapherr.New(grapherr.CategoryLayout, problem, "").
		WithSubcategory(grapherr.SubcategoryLayoutConfig)
}
