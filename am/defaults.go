package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/resultviz/cypher"
	"github.com/teranos/resultviz/graph"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

// Canvas size used when none is configured
const (
	DefaultWidth  = 960
	DefaultHeight = 600
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	l := layout.DefaultConfig(DefaultWidth, DefaultHeight)

	// Layout defaults mirror layout.DefaultConfig
	v.SetDefault("layout.width", l.Width)
	v.SetDefault("layout.height", l.Height)
	v.SetDefault("layout.gravity", l.Gravity)
	v.SetDefault("layout.charge", l.Charge)
	v.SetDefault("layout.link_distance", l.LinkDistance)
	v.SetDefault("layout.link_strength", l.LinkStrength)
	v.SetDefault("layout.friction", l.Friction)
	v.SetDefault("layout.alpha", l.Alpha)
	v.SetDefault("layout.alpha_decay", l.AlphaDecay)
	v.SetDefault("layout.alpha_min", l.AlphaMin)
	v.SetDefault("layout.max_ticks", l.MaxTicks)
	v.SetDefault("layout.energy_threshold", l.EnergyThreshold)
	v.SetDefault("layout.min_distance", l.MinDistance)
	v.SetDefault("layout.seed", 0)
	v.SetDefault("layout.ticks_per_second", 60) // Matches a typical display refresh

	v.SetDefault("palette.size", graph.DefaultPaletteSize)

	v.SetDefault("table.char_width", table.DefaultCharWidth)
	v.SetDefault("table.null_text", table.DefaultNullText)

	v.SetDefault("selection.result_only", false)

	// Server configuration defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})

	v.SetDefault("neo4j.uri", "neo4j://localhost:7687")
	v.SetDefault("neo4j.username", "neo4j")
	v.SetDefault("neo4j.password", "")
	v.SetDefault("neo4j.database", "")
}

// BindSensitiveEnvVars explicitly binds sensitive configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("neo4j.uri", EnvPrefix+"_NEO4J_URI", "NEO4J_URI")
	v.BindEnv("neo4j.username", EnvPrefix+"_NEO4J_USERNAME", "NEO4J_USERNAME")
	v.BindEnv("neo4j.password", EnvPrefix+"_NEO4J_PASSWORD", "NEO4J_PASSWORD")
}

// GetServerPort returns server.port, or DefaultServerPort when unset
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetServerAllowedOrigins returns the allowed WebSocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

// LayoutSettings returns the simulation constants, falling back to the
// defaults for a missing canvas size.
func (c *Config) LayoutSettings() layout.Config {
	l := c.Layout
	if l.Width <= 0 {
		l.Width = DefaultWidth
	}
	if l.Height <= 0 {
		l.Height = DefaultHeight
	}
	return layout.Config{
		Width:           l.Width,
		Height:          l.Height,
		Gravity:         l.Gravity,
		Charge:          l.Charge,
		LinkDistance:    l.LinkDistance,
		LinkStrength:    l.LinkStrength,
		Friction:        l.Friction,
		Alpha:           l.Alpha,
		AlphaDecay:      l.AlphaDecay,
		AlphaMin:        l.AlphaMin,
		MaxTicks:        l.MaxTicks,
		EnergyThreshold: l.EnergyThreshold,
		MinDistance:     l.MinDistance,
		Seed:            l.Seed,
	}
}

// RendererOptions assembles the pipeline settings
func (c *Config) RendererOptions() viz.Options {
	projector := table.NewProjector()
	if c.Table.CharWidth > 0 {
		projector.CharWidth = c.Table.CharWidth
	}
	if c.Table.NullText != "" {
		projector.NullText = c.Table.NullText
	}
	return viz.Options{
		RestrictToSelected: c.Selection.ResultOnly,
		Palette:            graph.NewPalette(c.Palette.Size),
		Projector:          projector,
		Layout:             c.LayoutSettings(),
	}
}

// Neo4jSettings returns the query backend connection settings
func (c *Config) Neo4jSettings() cypher.Config {
	return cypher.Config{
		URI:      c.Neo4j.URI,
		Username: c.Neo4j.Username,
		Password: c.Neo4j.Password,
		Database: c.Neo4j.Database,
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Layout: %gx%g, Palette: %d, Server: {Port: %d}, Neo4j: %s}",
		c.Layout.Width, c.Layout.Height, c.Palette.Size, c.GetServerPort(), c.Neo4j.URI)
}
