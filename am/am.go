// Package am holds resultviz configuration: the TOML schema, defaults,
// loading through viper, validation and live reload.
package am

// Config represents the resultviz configuration
type Config struct {
	Layout    LayoutConfig    `mapstructure:"layout"`
	Palette   PaletteConfig   `mapstructure:"palette"`
	Table     TableConfig     `mapstructure:"table"`
	Selection SelectionConfig `mapstructure:"selection"`
	Server    ServerConfig    `mapstructure:"server"`
	Neo4j     Neo4jConfig     `mapstructure:"neo4j"`
}

// LayoutConfig configures the force simulation
type LayoutConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`

	Gravity      float64 `mapstructure:"gravity"`
	Charge       float64 `mapstructure:"charge"`        // Negative repels
	LinkDistance float64 `mapstructure:"link_distance"` // Rest length for weight 1
	LinkStrength float64 `mapstructure:"link_strength"`
	Friction     float64 `mapstructure:"friction"`

	Alpha      float64 `mapstructure:"alpha"`
	AlphaDecay float64 `mapstructure:"alpha_decay"`
	AlphaMin   float64 `mapstructure:"alpha_min"`

	MaxTicks        int     `mapstructure:"max_ticks"`
	EnergyThreshold float64 `mapstructure:"energy_threshold"`
	MinDistance     float64 `mapstructure:"min_distance"`
	Seed            uint64  `mapstructure:"seed"` // 0 = random placement

	TicksPerSecond float64 `mapstructure:"ticks_per_second"` // 0 = unpaced
}

// PaletteConfig configures node coloring
type PaletteConfig struct {
	Size int `mapstructure:"size"` // Number of color buckets (default: 20)
}

// TableConfig configures the tabular projection
type TableConfig struct {
	CharWidth int    `mapstructure:"char_width"` // Estimated pixels per character
	NullText  string `mapstructure:"null_text"`
}

// SelectionConfig configures which part of a result graph is shown
type SelectionConfig struct {
	ResultOnly bool `mapstructure:"result_only"` // Show only nodes the query returned
}

// ServerConfig configures the frame streaming server
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = DefaultServerPort, 0 is invalid
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Neo4jConfig locates the query backend
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"` // Empty = server default database
}

// Server port constants
const (
	DefaultServerPort = 7880
)

// Config file names
const (
	ConfigFileName = "resultviz.toml"
	ConfigDirName  = ".resultviz"
	EnvPrefix      = "RESULTVIZ"
)
