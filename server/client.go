package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/teranos/resultviz/errors"
	grapherr "github.com/teranos/resultviz/graph/error"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/logger"
	"github.com/teranos/resultviz/table"
	"github.com/teranos/resultviz/viz"
)

// WebSocket timeout constants following Gorilla best practices
// See: https://github.com/gorilla/websocket/blob/master/examples/chat/client.go
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Maximum message size allowed from peer (4MB for query responses)
	maxMessageSize = 4 * 1024 * 1024

	// Time allowed for a "query" message to run
	queryTimeout = 30 * time.Second
)

// TablePayload is the data of a table message.
type TablePayload struct {
	Columns []table.ColumnSpec `json:"columns"`
	Widths  []string           `json:"widths"`
	Rows    [][]table.Cell     `json:"rows"`
	Summary string             `json:"summary"`
	Legend  interface{}        `json:"legend"`
	Stats   interface{}        `json:"stats"`
}

// Client represents a WebSocket client connection
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan ServerMessage
	id     string

	done      chan struct{}
	closeOnce sync.Once

	// Held while a frame is checked and queued, so a new render's table
	// is never overtaken by frames from the layout it replaced.
	relayMu sync.Mutex

	// Layout state, touched only by the read pump and close.
	mu        sync.Mutex
	runner    *layout.Runner
	cancel    context.CancelFunc
	lastFrame *layout.Frame
}

func newClient(s *Server, conn *websocket.Conn, id string) *Client {
	return &Client{
		server: s,
		conn:   conn,
		send:   make(chan ServerMessage, MaxClientMessageQueueSize),
		id:     id,
		done:   make(chan struct{}),
	}
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
			c.close()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.server.logger.Debugw("Read pump started", logger.FieldClientID, c.id)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.server.logger.Warnw("JSON unmarshal error",
				logger.FieldError, err.Error(),
				logger.FieldClientID, c.id,
			)
			c.sendError(grapherr.New(grapherr.CategoryParse, errors.Wrap(err, "invalid client message"), "").
				WithSubcategory(grapherr.SubcategoryParseInvalidJSON))
			continue
		}
		c.routeMessage(&msg)
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		graphErr := grapherr.New(
			grapherr.CategoryWebSocket,
			err,
			"WebSocket connection closed unexpectedly",
		).WithSubcategory(grapherr.SubcategoryWSRead)

		c.server.logger.Warnw("WebSocket read error",
			append(graphErr.ToLogFields(), logger.FieldClientID, c.id)...,
		)
	}
}

// routeMessage dispatches incoming messages to their handlers.
func (c *Client) routeMessage(msg *ClientMessage) {
	switch msg.Type {
	case MessageRender:
		resp, err := viz.DecodeResponse(msg.Data)
		if err != nil {
			c.sendError(err)
			return
		}
		c.handleRender(resp)
	case MessageQuery:
		c.handleQuery(msg.Query)
	case MessageDrag:
		c.withRunner(func(r *layout.Runner) error { return r.Drag(msg.Node, msg.X, msg.Y) })
	case MessageRelease:
		c.withRunner(func(r *layout.Runner) error { return r.Release(msg.Node) })
	case MessageStop:
		c.withRunner(func(r *layout.Runner) error { return r.Stop() })
	case MessagePing:
		// Deadline refresh is handled by the pong handler
	default:
		c.server.logger.Debugw("Unknown message type",
			"type", msg.Type,
			logger.FieldClientID, c.id,
		)
	}
}

func (c *Client) handleQuery(query string) {
	if c.server.source == nil {
		c.sendError(errors.NewInvalidRequestError("no query source configured"))
		return
	}
	ctx, cancel := context.WithTimeout(c.server.ctx, queryTimeout)
	defer cancel()
	ctx = logger.WithRequestID(logger.WithClientID(ctx, c.id), uuid.NewString())

	resp, err := c.server.source.Query(ctx, query, nil)
	if err != nil {
		c.sendError(err)
		return
	}
	c.handleRender(resp)
}

// handleRender replaces the client's layout with one for resp. Nodes that
// were already on screen keep their positions.
func (c *Client) handleRender(resp *viz.Response) {
	renderer, ticksPerSecond := c.server.currentRenderer()

	view, err := renderer.Prepare(resp)
	if err != nil {
		c.sendError(err)
		return
	}

	c.mu.Lock()
	c.stopLayoutLocked()
	prev := c.lastFrame
	c.mu.Unlock()

	sim, err := renderer.Simulate(view, prev)
	if err != nil {
		c.sendError(err)
		return
	}

	payload := TablePayload{
		Summary: view.Summary,
		Legend:  view.Legend,
		Stats:   view.Stats,
	}
	if view.Table != nil {
		payload.Columns = view.Table.Columns
		payload.Rows = view.Table.Rows
		for _, col := range view.Table.Columns {
			payload.Widths = append(payload.Widths, col.CSSWidth())
		}
	}
	c.relayMu.Lock()
	queued := c.enqueue(ServerMessage{Type: MessageTable, Data: payload})
	c.relayMu.Unlock()
	if !queued {
		return
	}

	ctx, cancel := context.WithCancel(c.server.ctx)
	runner := layout.NewRunner(sim, c.server.logger.With(logger.FieldClientID, c.id),
		layout.WithTickRate(ticksPerSecond),
		layout.WithLinger(),
	)

	c.mu.Lock()
	c.runner, c.cancel = runner, cancel
	c.mu.Unlock()

	runner.Start(ctx)
	if !c.server.spawn(func() { c.forwardFrames(runner) }) {
		c.mu.Lock()
		if c.runner == runner {
			c.stopLayoutLocked()
		}
		c.mu.Unlock()
	}
}

// forwardFrames relays frames from runner to the write pump. Frames still
// buffered after a newer render took over are dropped.
func (c *Client) forwardFrames(runner *layout.Runner) {
	for frame := range runner.Frames() {
		if !c.relay(runner, frame) {
			c.mu.Lock()
			if c.runner == runner {
				c.stopLayoutLocked()
			}
			c.mu.Unlock()
			return
		}
	}
}

// relay queues f if runner still owns the client's layout. It reports false
// once the client is closed.
func (c *Client) relay(runner *layout.Runner, f layout.Frame) bool {
	c.relayMu.Lock()
	defer c.relayMu.Unlock()

	c.mu.Lock()
	current := c.runner == runner
	if current {
		c.lastFrame = &f
	}
	c.mu.Unlock()
	if !current {
		return true
	}
	return c.enqueue(ServerMessage{Type: MessageFrame, Data: f})
}

func (c *Client) withRunner(fn func(*layout.Runner) error) {
	c.mu.Lock()
	runner := c.runner
	c.mu.Unlock()
	if runner == nil {
		return
	}
	if err := fn(runner); err != nil {
		if errors.Is(err, errors.ErrStopped) {
			err = grapherr.New(grapherr.CategoryLayout, err, "").
				WithSubcategory(grapherr.SubcategoryLayoutStopped)
		}
		c.sendError(err)
	}
}

// stopLayoutLocked cancels the running layout. c.mu must be held.
func (c *Client) stopLayoutLocked() {
	if c.cancel != nil {
		c.cancel()
	}
	c.runner, c.cancel = nil, nil
}

func (c *Client) sendError(err error) {
	c.server.logger.Debugw("Sending error to client",
		logger.FieldClientID, c.id,
		logger.FieldError, err,
	)
	c.enqueue(ServerMessage{Type: MessageError, Error: errorMeta(err)})
}

// enqueue hands msg to the write pump. It blocks while the queue is full
// and reports false once the client is closed.
func (c *Client) enqueue(msg ServerMessage) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	}
}

// writePump writes queued messages and keepalive pings to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	c.server.logger.Debugw("Write pump started", logger.FieldClientID, c.id)

	for {
		select {
		case <-c.server.ctx.Done():
			return
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				graphErr := grapherr.New(
					grapherr.CategoryWebSocket,
					err,
					"Failed to send message to client",
				).WithSubcategory(grapherr.SubcategoryWSWrite)

				c.server.logger.Warnw("Message write error",
					append(graphErr.ToLogFields(), logger.FieldClientID, c.id, "type", msg.Type)...,
				)
				c.close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close stops the client's layout and signals its pumps, once.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.stopLayoutLocked()
		c.mu.Unlock()
		close(c.done)
	})
}
