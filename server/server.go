// Package server streams layout frames to drawing surfaces over WebSocket.
// Each connected client owns at most one running layout; drag input from
// the client is applied between ticks.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/teranos/resultviz/cypher"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/viz"
)

// Options configures a Server.
type Options struct {
	Renderer       *viz.Renderer
	Source         *cypher.Source // Optional; enables "query" messages
	TicksPerSecond float64
	AllowedOrigins []string
	Verbosity      int
}

// Server is the WebSocket hub.
type Server struct {
	source         *cypher.Source
	allowedOrigins []string

	rendererMu     sync.RWMutex
	renderer       *viz.Renderer
	ticksPerSecond float64

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	verbosity atomic.Int32
	logger    *zap.SugaredLogger

	httpServer *http.Server

	ctx         context.Context
	cancel      context.CancelFunc
	lifecycleMu sync.Mutex // orders wg.Add against shutdown
	wg          sync.WaitGroup
	state       atomic.Int32
}

// New creates a server. Call Run (or Start) before accepting connections.
func New(opts Options, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = logger.Logger
	}
	if opts.Renderer == nil {
		opts.Renderer = viz.NewRenderer(viz.DefaultOptions(960, 600), opts.Verbosity, log)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		source:         opts.Source,
		allowedOrigins: opts.AllowedOrigins,
		renderer:       opts.Renderer,
		ticksPerSecond: opts.TicksPerSecond,
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		logger:         log.Named("server"),
		ctx:            ctx,
		cancel:         cancel,
	}
	s.verbosity.Store(int32(opts.Verbosity))
	return s
}

// SetRenderer swaps the renderer used for subsequent renders, as when the
// configuration file changes. Running layouts keep their settings.
func (s *Server) SetRenderer(r *viz.Renderer, ticksPerSecond float64) {
	s.rendererMu.Lock()
	defer s.rendererMu.Unlock()
	s.renderer = r
	s.ticksPerSecond = ticksPerSecond
	s.logger.Infow("Renderer updated", "ticks_per_second", ticksPerSecond)
}

func (s *Server) currentRenderer() (*viz.Renderer, float64) {
	s.rendererMu.RLock()
	defer s.rendererMu.RUnlock()
	return s.renderer, s.ticksPerSecond
}

// Run is the hub loop: it registers and unregisters clients until the
// server stops.
func (s *Server) Run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case client := <-s.register:
			s.handleClientRegister(client)
		case client := <-s.unregister:
			s.handleClientUnregister(client)
		}
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleClientRegister(client *Client) {
	s.mu.Lock()
	if len(s.clients) >= MaxClients {
		s.mu.Unlock()
		s.logger.Warnw("Max clients reached, rejecting connection",
			logger.FieldClientID, client.id,
			"max_clients", MaxClients,
		)
		client.close()
		return
	}
	s.clients[client] = true
	total := len(s.clients)
	s.mu.Unlock()

	s.logger.Infow("Client connected",
		logger.FieldClientID, client.id,
		"total_clients", total,
	)
}

func (s *Server) handleClientUnregister(client *Client) {
	s.mu.Lock()
	_, ok := s.clients[client]
	delete(s.clients, client)
	total := len(s.clients)
	s.mu.Unlock()

	client.close()
	if ok {
		s.logger.Infow("Client disconnected",
			logger.FieldClientID, client.id,
			"total_clients", total,
		)
	}
}
