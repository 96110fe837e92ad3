package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
}

// checkOrigin validates the WebSocket origin against the allowed origins.
// Requests without an Origin header (non-browser clients) are allowed. With
// no origins configured only localhost is accepted.
func (s *Server) checkOrigin(r *http.Request) bool {
	return originAllowed(r.Header.Get("Origin"), s.allowedOrigins)
}

func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	if len(allowed) == 0 {
		return strings.HasPrefix(origin, "http://localhost") ||
			strings.HasPrefix(origin, "https://localhost")
	}
	// Prefix matching allows any port number
	for _, prefix := range allowed {
		if prefix == "*" || strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}
