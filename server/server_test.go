package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vizt "github.com/teranos/resultviz/internal/testing"
	"github.com/teranos/resultviz/layout"
	"github.com/teranos/resultviz/viz"
)

const sampleResponse = `{
  "columns": ["n"],
  "json": [{"n": {"_id": 1, "name": "Neo"}}],
  "visualization": {
    "nodes": [
      {"id": 1, "name": "Neo", "selected": "n"},
      {"id": 2, "name": "Trinity"},
      {"id": 3, "name": "Morpheus"}
    ],
    "links": [
      {"source": 0, "target": 1, "type": "KNOWS"},
      {"source": 1, "target": 2, "type": "KNOWS"}
    ]
  },
  "stats": {"time": 2, "rows": 1}
}`

// received mirrors ServerMessage with raw data for decoding per type.
type received struct {
	Type  string            `json:"type"`
	Data  json.RawMessage   `json:"data"`
	Error map[string]string `json:"error"`
}

func newTestServer(t *testing.T) (*Server, *websocket.Conn) {
	t.Helper()
	opts := viz.DefaultOptions(400, 300)
	opts.Layout.Seed = 3
	srv := New(Options{
		Renderer: viz.NewRenderer(opts, 0, vizt.Logger(t)),
	}, vizt.Logger(t))
	go srv.Run()

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.cancel()
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	hello := read(t, conn)
	require.Equal(t, MessageHello, hello.Type)
	return srv, conn
}

func read(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg received
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func readFrame(t *testing.T, conn *websocket.Conn, match func(layout.Frame) bool) layout.Frame {
	t.Helper()
	for i := 0; i < 2000; i++ {
		msg := read(t, conn)
		if msg.Type != MessageFrame {
			continue
		}
		var f layout.Frame
		require.NoError(t, json.Unmarshal(msg.Data, &f))
		if match(f) {
			return f
		}
	}
	t.Fatal("no matching frame")
	return layout.Frame{}
}

func render(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": MessageRender,
		"data": json.RawMessage(sampleResponse),
	}))
}

func TestHandleWebSocketRegisters(t *testing.T) {
	srv, conn := newTestServer(t)

	require.Eventually(t, func() bool { return srv.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return srv.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestRenderStreamsTableAndFrames(t *testing.T) {
	_, conn := newTestServer(t)
	render(t, conn)

	msg := read(t, conn)
	require.Equal(t, MessageTable, msg.Type)
	var payload TablePayload
	require.NoError(t, json.Unmarshal(msg.Data, &payload))
	assert.Equal(t, []string{"100%"}, payload.Widths)
	assert.Equal(t, `Node[1] {"name":"Neo"}`, payload.Rows[0][0].Text)
	assert.Equal(t, "Query took 2 ms and returned 1 rows. ", payload.Summary)

	first := readFrame(t, conn, func(layout.Frame) bool { return true })
	assert.Equal(t, 0, first.Tick)
	require.Len(t, first.Nodes, 3)
	assert.Equal(t, "red", first.Nodes[0].Stroke)

	last := readFrame(t, conn, func(f layout.Frame) bool { return f.State == layout.Converged })
	assert.Greater(t, last.Tick, 0)
}

func TestDragPinsNode(t *testing.T) {
	_, conn := newTestServer(t)
	render(t, conn)
	readFrame(t, conn, func(f layout.Frame) bool { return f.State == layout.Converged })

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": MessageDrag, "node": 1, "x": 20.0, "y": 30.0,
	}))
	dragged := readFrame(t, conn, func(f layout.Frame) bool { return f.Nodes[1].Fixed })
	assert.Equal(t, 20.0, dragged.Nodes[1].X)
	assert.Equal(t, 30.0, dragged.Nodes[1].Y)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": MessageStop}))
	readFrame(t, conn, func(f layout.Frame) bool { return f.State == layout.Stopped })
}

func TestRerenderDropsSupersededFrames(t *testing.T) {
	_, conn := newTestServer(t)
	render(t, conn)
	render(t, conn)

	tables := 0
	var after []layout.Frame
	for i := 0; i < 2000; i++ {
		msg := read(t, conn)
		if msg.Type == MessageTable {
			tables++
			continue
		}
		if msg.Type != MessageFrame || tables < 2 {
			continue
		}
		var f layout.Frame
		require.NoError(t, json.Unmarshal(msg.Data, &f))
		after = append(after, f)
		if f.State == layout.Converged {
			break
		}
	}

	require.Equal(t, 2, tables)
	require.NotEmpty(t, after)
	assert.Equal(t, 0, after[0].Tick, "first frame after a render starts the new layout")
	for _, f := range after {
		assert.Equal(t, after[0].Version, f.Version)
	}
}

func TestSpawnRefusedAfterStop(t *testing.T) {
	srv := New(Options{}, vizt.Logger(t))

	ran := make(chan struct{})
	require.True(t, srv.spawn(func() { close(ran) }))
	<-ran

	require.NoError(t, srv.Stop())
	assert.Equal(t, ServerStateStopped, srv.getState())
	assert.False(t, srv.spawn(func() { t.Error("goroutine started after stop") }))
}

func TestRenderRejectsMalformedGraph(t *testing.T) {
	_, conn := newTestServer(t)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"type": MessageRender,
		"data": map[string]interface{}{
			"visualization": map[string]interface{}{
				"nodes": []interface{}{map[string]interface{}{"id": 1}},
				"links": []interface{}{map[string]interface{}{"source": 0, "target": 3}},
			},
		},
	}))

	msg := read(t, conn)
	require.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "graph", msg.Error["category"])
	assert.Contains(t, msg.Error["error"], "malformed graph")
}

func TestQueryWithoutSource(t *testing.T) {
	_, conn := newTestServer(t)
	require.NoError(t, conn.WriteJSON(map[string]interface{}{"type": MessageQuery, "query": "RETURN 1"}))

	msg := read(t, conn)
	require.Equal(t, MessageError, msg.Type)
	assert.Contains(t, msg.Error["error"], "no query source configured")
}

func TestHandleHealth(t *testing.T) {
	srv := New(Options{}, vizt.Logger(t))
	rec := httptest.NewRecorder()
	srv.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, 0.0, body["clients"])
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		origin  string
		allowed []string
		want    bool
	}{
		{"", nil, true},
		{"http://localhost:5173", nil, true},
		{"https://evil.example", nil, false},
		{"https://app.example:8443", []string{"https://app.example"}, true},
		{"https://evil.example", []string{"https://app.example"}, false},
		{"https://anything", []string{"*"}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, originAllowed(tt.origin, tt.allowed), "origin %q", tt.origin)
	}
}
