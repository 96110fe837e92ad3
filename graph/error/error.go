package grapherror

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teranos/resultviz/errors"
)

// GraphError classifies a failure at a pipeline boundary so it can be logged
// with structure and shown to the user without leaking internals.
type GraphError struct {
	Err         error
	Category    Category
	Subcategory string
	UserMessage string // Shown instead of the category default when set
	Context     map[string]interface{}
	Timestamp   time.Time
}

// New classifies err. userMsg may be empty to use the category default.
func New(category Category, err error, userMsg string) *GraphError {
	return &GraphError{
		Err:         err,
		Category:    category,
		UserMessage: userMsg,
		Context:     make(map[string]interface{}),
		Timestamp:   time.Now(),
	}
}

// Newf classifies a freshly formatted error.
func Newf(category Category, userMsg, format string, args ...interface{}) *GraphError {
	return New(category, errors.Newf(format, args...), userMsg)
}

func (e *GraphError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMessage
}

func (e *GraphError) Unwrap() error {
	return e.Err
}

// WithSubcategory narrows the classification.
func (e *GraphError) WithSubcategory(sub string) *GraphError {
	e.Subcategory = sub
	return e
}

// WithContext attaches a debugging value.
func (e *GraphError) WithContext(key string, value interface{}) *GraphError {
	e.Context[key] = value
	return e
}

// From finds the outermost GraphError in err's chain.
func From(err error) (*GraphError, bool) {
	var graphErr *GraphError
	if errors.As(err, &graphErr) {
		return graphErr, true
	}
	return nil, false
}

// IsCategory reports whether e has category cat.
func (e *GraphError) IsCategory(cat Category) bool {
	return e.Category == cat
}

// IsSubcategory reports whether e has subcategory sub.
func (e *GraphError) IsSubcategory(sub string) bool {
	return e.Subcategory == sub
}

// Retryable reports failures that may succeed unchanged on a later attempt:
// an unreachable backend or a dropped connection.
func (e *GraphError) Retryable() bool {
	switch e.Category {
	case CategoryQuery:
		return e.Subcategory == SubcategoryQueryConnection
	case CategoryWebSocket:
		return true
	}
	return false
}

var defaultMessages = map[Category]string{
	CategoryParse:     "Could not read the query result",
	CategoryQuery:     "Query execution failed - please try again or refine your query",
	CategoryGraph:     "The query result contains an inconsistent graph",
	CategoryLayout:    "Failed to lay out the graph",
	CategoryWebSocket: "Connection error - attempting to reconnect...",
	CategoryInternal:  "An internal error occurred - please try again",
}

// ToUIMessage returns the user-facing description.
func (e *GraphError) ToUIMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if msg, ok := defaultMessages[e.Category]; ok {
		return msg
	}
	return "An error occurred"
}

// ToGraphMeta renders e as the string map sent to drawing surfaces. Hints
// attached with errors.WithHint travel under "hint".
func (e *GraphError) ToGraphMeta() map[string]string {
	meta := map[string]string{
		"error":       e.Error(),
		"category":    e.Category.String(),
		"description": e.ToUIMessage(),
		"timestamp":   e.Timestamp.Format(time.RFC3339),
	}
	if e.Subcategory != "" {
		meta["subcategory"] = e.Subcategory
	}
	if len(e.Context) > 0 {
		meta["context"] = e.contextString()
	}
	if e.Err != nil {
		if hint := errors.FlattenHints(e.Err); hint != "" {
			meta["hint"] = hint
		}
	}
	if e.Retryable() {
		meta["retryable"] = "true"
	}
	return meta
}

// ToLogFields returns key/value pairs for a logger's *w methods, context
// keys sorted.
func (e *GraphError) ToLogFields() []interface{} {
	fields := []interface{}{
		"error_category", e.Category,
		"error_message", e.Error(),
		"user_message", e.UserMessage,
	}
	if e.Subcategory != "" {
		fields = append(fields, "error_subcategory", e.Subcategory)
	}
	for _, k := range e.contextKeys() {
		fields = append(fields, k, e.Context[k])
	}
	return fields
}

func (e *GraphError) contextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *GraphError) contextString() string {
	parts := make([]string, 0, len(e.Context))
	for _, k := range e.contextKeys() {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	return strings.Join(parts, " ")
}
