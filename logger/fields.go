package logger

import (
	"context"

	"go.uber.org/zap"
)

// Field names shared by structured log calls.
const (
	FieldClientID  = "client_id"
	FieldRequestID = "request_id"

	FieldOperation  = "operation"
	FieldQuery      = "query"
	FieldDurationMS = "duration_ms"

	FieldError = "error"

	FieldCount = "count"
	FieldNodes = "nodes"
	FieldLinks = "links"
	FieldRows  = "rows"

	// Simulation progress
	FieldTick   = "tick"
	FieldAlpha  = "alpha"
	FieldEnergy = "energy"
	FieldState  = "state"

	FieldAddress = "address"
	FieldFile    = "file"
)

type contextKey int

const (
	clientIDKey contextKey = iota
	requestIDKey
)

// WithClientID tags ctx with the connected client a request came from.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// WithRequestID tags ctx with a per-request identifier.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// FieldsFromContext returns the tags set on ctx as key/value pairs.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}
	if id, ok := ctx.Value(clientIDKey).(string); ok && id != "" {
		fields = append(fields, FieldClientID, id)
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, FieldRequestID, id)
	}
	return fields
}

// FromContext returns base carrying the tags set on ctx.
func FromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
