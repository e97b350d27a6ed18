package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/modules"
	"github.com/zot/ui-shell/internal/modules/nfc"
	"github.com/zot/ui-shell/internal/registry"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Modules.Dir = ""
	cfg.SetLogOutput(io.Discard)
	return cfg
}

func newTestServer(t *testing.T, load bool) (*Server, *httptest.Server) {
	t.Helper()
	s := New(testConfig())
	if load {
		require.NoError(t, s.LoadModules())
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.wsEndpoint.Close()
		ts.Close()
	})
	return s, ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestNotReadyAnswers503(t *testing.T) {
	_, ts := newTestServer(t, false)

	for _, path := range []string{"/api/routes", "/api/resolve?path=/nfc", "/api/drawer", "/api/modules"} {
		var body ErrorResponse
		assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, ts.URL+path, &body), path)
		assert.NotEmpty(t, body.Error, path)
	}
}

func TestResolve(t *testing.T) {
	_, ts := newTestServer(t, true)

	var resp ResolveResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/resolve?path=/nfc", &resp))
	assert.Equal(t, nfc.RouteName, resp.Route)
	assert.Equal(t, nfc.ModuleName, resp.Module)
	assert.Equal(t, "/nfc", resp.URL)
	assert.Equal(t, descriptor.ComponentRef(nfc.View), resp.Slots[descriptor.SlotDefault])
	assert.Equal(t, descriptor.ComponentRef(nfc.MenuBar), resp.Slots[descriptor.SlotMenuBar])

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/resolve?path=/nfc/", &resp))
	assert.Equal(t, nfc.RouteName, resp.Route)
}

func TestResolveMountedURL(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Base = "/app"
	s := New(cfg)
	require.NoError(t, s.LoadModules())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	var resp ResolveResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/resolve?path=/nfc", &resp))
	assert.Equal(t, "/app/nfc", resp.URL)

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/resolve?url=/app/nfc", &resp))
	assert.Equal(t, nfc.RouteName, resp.Route)
	assert.Equal(t, "/app/nfc", resp.Path)

	var body ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/resolve?url=/nfc", &body))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/resolve?path=/app/nfc", &body))
}

func TestResolveErrors(t *testing.T) {
	_, ts := newTestServer(t, true)

	var body ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/resolve?path=/unknown", &body))
	assert.Contains(t, body.Error, "/unknown")

	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/resolve", &body))
}

func TestRoutesDrawerModules(t *testing.T) {
	_, ts := newTestServer(t, true)

	var routes RoutesResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/routes", &routes))
	assert.Equal(t, uint64(1), routes.Generation)
	require.Len(t, routes.Routes, 1)
	assert.Equal(t, "/nfc", routes.Routes[0].Path)

	var d DrawerResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/drawer", &d))
	require.Len(t, d.Entries, 1)
	assert.Equal(t, descriptor.ComponentRef(nfc.DrawerItems), d.Entries[0].Component)
	assert.Empty(t, d.Flat)

	var flat DrawerResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/drawer?flat=1", &flat))
	require.Len(t, flat.Flat, 1)
	assert.Equal(t, 0, flat.Flat[0].Depth)

	var names []string
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/modules", &names))
	assert.Equal(t, []string{nfc.ModuleName}, names)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, true)

	getJSON(t, ts.URL+"/api/resolve?path=/nfc", nil)
	getJSON(t, ts.URL+"/api/resolve?path=/missing", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, "ui_shell_routes 1")
	assert.Contains(t, text, `ui_shell_resolves_total{result="found"} 1`)
	assert.Contains(t, text, `ui_shell_resolves_total{result="not_found"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	s := New(cfg)
	assert.Nil(t, s.Metrics())

	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketSnapshotAndResolve(t *testing.T) {
	s, ts := newTestServer(t, true)
	conn := dial(t, ts)

	msg := read(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.Equal(t, uint64(1), msg.Generation)
	require.Len(t, msg.Routes, 1)
	require.Len(t, msg.Drawer, 1)

	require.NoError(t, conn.WriteJSON(Message{Type: MsgResolve, Path: "/nfc"}))
	msg = read(t, conn)
	assert.Equal(t, MsgResolved, msg.Type)
	require.NotNil(t, msg.Match)
	assert.Equal(t, nfc.RouteName, msg.Match.Route.Name)

	require.NoError(t, conn.WriteJSON(Message{Type: MsgResolve, Path: "/missing"}))
	msg = read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "/missing")

	_, err := s.Registry().Register(modules.Builtin())
	require.NoError(t, err)
	msg = read(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.Equal(t, uint64(2), msg.Generation)
}

func TestWebSocketBeforeReady(t *testing.T) {
	s, ts := newTestServer(t, false)
	conn := dial(t, ts)

	require.NoError(t, conn.WriteJSON(Message{Type: MsgResolve, Path: "/nfc"}))
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)

	require.NoError(t, s.LoadModules())
	msg = read(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.Equal(t, uint64(1), msg.Generation)
}

func TestWebSocketUnknownMessage(t *testing.T) {
	_, ts := newTestServer(t, true)
	conn := dial(t, ts)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: "bogus"}))
	msg := read(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "bogus")
}

func TestWebSocketSnapshotRequest(t *testing.T) {
	s, ts := newTestServer(t, true)
	conn := dial(t, ts)
	read(t, conn)

	_, err := s.Registry().Register(modules.Builtin())
	require.NoError(t, err)
	msg := read(t, conn)
	require.Equal(t, uint64(2), msg.Generation)

	require.NoError(t, conn.WriteJSON(Message{Type: MsgSnapshot}))
	msg = read(t, conn)
	assert.Equal(t, MsgSnapshot, msg.Type)
	assert.Equal(t, uint64(2), msg.Generation)
	require.Len(t, msg.Routes, 1)
	require.Len(t, msg.Drawer, 1)
}

func TestFullSendBufferDropsClient(t *testing.T) {
	ws := NewWebSocketEndpoint(testConfig(), registry.New(""))
	c := &client{send: make(chan []byte, 1)}
	c.send <- []byte("pending")
	ws.connections["conn-full"] = c
	require.Equal(t, 1, ws.Count())

	ws.queue("conn-full", c, Message{Type: MsgError, Error: "overflow"})

	assert.Eventually(t, func() bool { return ws.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []byte("pending"), <-c.send)
	_, open := <-c.send
	assert.False(t, open)
}

func TestStaleSnapshotIsSkipped(t *testing.T) {
	ws := NewWebSocketEndpoint(testConfig(), registry.New(""))
	c := &client{send: make(chan []byte, sendBuffer)}
	ws.connections["conn-stale"] = c

	ws.queue("conn-stale", c, Message{Type: MsgSnapshot, Generation: 2})
	ws.queue("conn-stale", c, Message{Type: MsgSnapshot, Generation: 1})
	ws.queue("conn-stale", c, Message{Type: MsgSnapshot, Generation: 2})
	require.Len(t, c.send, 2)

	for range 2 {
		var msg Message
		require.NoError(t, json.Unmarshal(<-c.send, &msg))
		assert.Equal(t, uint64(2), msg.Generation)
	}
}

func TestStartHTTPAndShutdown(t *testing.T) {
	s := New(testConfig())
	require.NoError(t, s.LoadModules())

	url, err := s.StartHTTP(0)
	require.NoError(t, err)
	assert.NotZero(t, s.config.Server.Port)

	var resp ResolveResponse
	require.Equal(t, http.StatusOK, getJSON(t, url+"/api/resolve?path=/nfc", &resp))
	assert.Equal(t, nfc.RouteName, resp.Route)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
}
