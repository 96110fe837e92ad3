package graph

const (
	// defaultLinkWeight applies when the payload carries no weight
	defaultLinkWeight = 1.0

	// highlightStroke marks selected nodes independently of their category
	highlightStroke = "red"

	// DefaultPaletteSize matches the 20-entry category palette
	DefaultPaletteSize = 20
)

// Input field names used by the visualization payload
const (
	fieldID       = "id"
	fieldSelected = "selected"
	fieldSource   = "source"
	fieldTarget   = "target"
	fieldType     = "type"
	fieldWeight   = "weight"
	fieldX        = "x"
	fieldY        = "y"
)
