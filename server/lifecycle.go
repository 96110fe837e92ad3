package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/teranos/resultviz/errors"
	"github.com/teranos/resultviz/logger"
)

func (s *Server) getState() ServerState {
	return ServerState(s.state.Load())
}

func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", stateString(newState))
}

func stateString(state ServerState) string {
	switch state {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Start runs the hub and serves HTTP on addr until Stop is called.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", addr)
	}
	return s.Serve(listener)
}

// Serve runs the hub and serves HTTP on listener until Stop is called.
func (s *Server) Serve(listener net.Listener) error {
	if !s.spawn(s.Run) {
		return errors.Wrap(errors.ErrServiceUnavailable, "server already stopped")
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setState(ServerStateRunning)
	s.logger.Infow("Server ready", logger.FieldAddress, listener.Addr().String())

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// spawn runs fn on a goroutine that Stop waits for. It refuses once Stop
// has cancelled the server context, so no Add races the final Wait.
func (s *Server) spawn(fn func()) bool {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.ctx.Err() != nil {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
	return true
}

// Stop closes every client, halts their layouts and shuts the HTTP server
// down.
func (s *Server) Stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.clients = make(map[*Client]bool)
	s.mu.Unlock()
	for _, c := range clients {
		c.close()
	}

	var shutdownErr error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		shutdownErr = s.httpServer.Shutdown(ctx)
	}

	s.lifecycleMu.Lock()
	s.cancel()
	s.lifecycleMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(ShutdownTimeout):
		s.logger.Warnw("Timed out waiting for goroutines", "timeout", ShutdownTimeout)
	}

	s.setState(ServerStateStopped)
	if shutdownErr != nil {
		return errors.Wrap(shutdownErr, "http shutdown")
	}
	return nil
}
