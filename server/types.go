package server

import (
	"encoding/json"
	"time"
)

const (
	// MaxClients is the maximum number of concurrent WebSocket clients
	MaxClients = 100
	// MaxClientMessageQueueSize is the size of per-client message queues
	MaxClientMessageQueueSize = 256
	// ShutdownTimeout is how long to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// ServerState represents the server lifecycle state
type ServerState int

const (
	ServerStateRunning  ServerState = iota // Normal operation
	ServerStateDraining                    // Graceful shutdown in progress
	ServerStateStopped                     // Shutdown complete
)

// Client message types
const (
	MessageRender  = "render"  // Data holds a query response envelope
	MessageQuery   = "query"   // Query holds Cypher to run against the configured source
	MessageDrag    = "drag"    // Node is pinned at X, Y
	MessageRelease = "release" // Node is released
	MessageStop    = "stop"    // Current layout is halted
	MessagePing    = "ping"
)

// Server message types
const (
	MessageFrame = "frame"
	MessageTable = "table"
	MessageError = "error"
	MessageHello = "hello"
)

// ClientMessage is a message from a drawing surface.
type ClientMessage struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data,omitempty"`
	Query string          `json:"query,omitempty"`
	Node  int             `json:"node"`
	X     float64         `json:"x"`
	Y     float64         `json:"y"`
}

// ServerMessage is a message to a drawing surface. Data carries a
// layout.Frame for frames and a TablePayload for tables.
type ServerMessage struct {
	Type  string            `json:"type"`
	Data  interface{}       `json:"data,omitempty"`
	Error map[string]string `json:"error,omitempty"`
}
