package am

import (
	"net/url"

	"github.com/teranos/resultviz/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Server port: 0 is invalid (omit for default), out of range is invalid
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && (*c.Server.Port < 0 || *c.Server.Port > 65535) {
		return errors.Newf("server.port must be in 1-65535, got %d", *c.Server.Port)
	}

	if c.Palette.Size < 0 {
		return errors.Newf("palette.size must be >= 0, got %d (0 uses the default)", c.Palette.Size)
	}

	if c.Table.CharWidth < 0 {
		return errors.Newf("table.char_width must be >= 0, got %d", c.Table.CharWidth)
	}

	if c.Layout.TicksPerSecond < 0 {
		return errors.Newf("layout.ticks_per_second must be >= 0, got %g", c.Layout.TicksPerSecond)
	}

	if err := c.LayoutSettings().Validate(); err != nil {
		return errors.Wrap(err, "invalid layout configuration")
	}

	// Neo4j is optional; only a present URI is checked
	if c.Neo4j.URI != "" {
		u, err := url.Parse(c.Neo4j.URI)
		if err != nil {
			return errors.Wrapf(err, "neo4j.uri %q is not a valid URI", c.Neo4j.URI)
		}
		switch u.Scheme {
		case "neo4j", "neo4j+s", "neo4j+ssc", "bolt", "bolt+s", "bolt+ssc":
		default:
			return errors.Newf("neo4j.uri scheme must be neo4j or bolt, got %q", u.Scheme)
		}
	}

	return nil
}
