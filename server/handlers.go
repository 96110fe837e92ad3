package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/version"
)

// HandleWebSocket upgrades the connection and starts the client's pumps.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"Failed to upgrade WebSocket connection",
		).WithSubcategory(grapherr.SubcategoryWSUpgrade)

		s.logger.Errorw("WebSocket upgrade failed",
			graphErr.ToLogFields()...,
		)
		return
	}

	client := newClient(s, conn, uuid.New().String())

	// Greet before the write pump starts so writes never overlap.
	hello := ServerMessage{Type: MessageHello, Data: map[string]interface{}{
		"client_id": client.id,
		"version":   version.Get().Version,
		"commit":    version.Get().Short(),
	}}
	if err := conn.WriteJSON(hello); err != nil {
		s.logger.Debugw("Failed to send greeting",
			logger.FieldClientID, client.id,
			logger.FieldError, err,
		)
	}

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"))
		conn.Close()
		return
	}

	if !s.spawn(client.writePump) || !s.spawn(client.readPump) {
		client.close()
		conn.Close()
	}
}

// HandleHealth reports liveness, version and client count.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := version.Get()
	health := map[string]interface{}{
		"status":    "ok",
		"state":     stateString(s.getState()),
		"version":   info.Version,
		"commit":    info.CommitHash,
		"clients":   s.ClientCount(),
		"verbosity": int(s.verbosity.Load()),
	}
	writeJSON(w, http.StatusOK, health)
}
