package grapherror

// Category represents the main error category for visualization operations
type Category string

const (
	// CategoryParse indicates the query response payload could not be decoded
	CategoryParse Category = "parse"

	// CategoryQuery indicates query execution against the backend failed
	CategoryQuery Category = "query"

	// CategoryGraph indicates the graph payload violates the graph invariants
	CategoryGraph Category = "graph"

	// CategoryLayout indicates the layout simulation could not run
	CategoryLayout Category = "layout"

	// CategoryWebSocket indicates WebSocket connection/communication errors
	CategoryWebSocket Category = "websocket"

	// CategoryInternal indicates internal errors
	CategoryInternal Category = "internal"
)

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// Parse Subcategories
const (
	// SubcategoryParseInvalidJSON indicates the payload is not valid JSON
	SubcategoryParseInvalidJSON = "invalid_json"

	// SubcategoryParseInvalidShape indicates a field has an unexpected type
	SubcategoryParseInvalidShape = "invalid_shape"
)

// Query Subcategories
const (
	// SubcategoryQueryExecution indicates query execution failed
	SubcategoryQueryExecution = "execution"

	// SubcategoryQueryConnection indicates the backend could not be reached
	SubcategoryQueryConnection = "connection"
)

// Graph Subcategories
const (
	// SubcategoryGraphValidate indicates graph validation failed
	SubcategoryGraphValidate = "validate"

	// SubcategoryGraphSelect indicates sub-graph selection failed
	SubcategoryGraphSelect = "select"
)

// Layout Subcategories
const (
	// SubcategoryLayoutConfig indicates invalid simulation constants
	SubcategoryLayoutConfig = "config"

	// SubcategoryLayoutStopped indicates an operation on a stopped simulation
	SubcategoryLayoutStopped = "stopped"
)

// WebSocket Subcategories
const (
	// SubcategoryWSRead indicates error reading from WebSocket
	SubcategoryWSRead = "read"

	// SubcategoryWSWrite indicates error writing to WebSocket
	SubcategoryWSWrite = "write"

	// SubcategoryWSUpgrade indicates WebSocket upgrade failed
	SubcategoryWSUpgrade = "upgrade"
)

// Internal Subcategories
const (
	// SubcategoryInternalConfig indicates configuration error
	SubcategoryInternalConfig = "config"
)
