// Package server hosts the shell's registry over HTTP and WebSocket.
package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/drawer"
	"github.com/zot/ui-shell/internal/registry"
	"github.com/zot/ui-shell/internal/router"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// Message types.
const (
	MsgSnapshot = "snapshot"
	MsgResolve  = "resolve"
	MsgResolved = "resolved"
	MsgError    = "error"
)

// Message is the envelope for every frame on /ws.
type Message struct {
	Type       string         `json:"type"`
	Generation uint64         `json:"generation,omitempty"`
	Routes     []router.Route `json:"routes,omitempty"`
	Drawer     []drawer.Entry `json:"drawer,omitempty"`
	Path       string         `json:"path,omitempty"`
	Match      *router.Match  `json:"match,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	mu      sync.Mutex
	lastGen uint64 // newest snapshot generation queued
}

// WebSocketEndpoint pushes registry snapshots to connected shells
// and answers resolve requests.
type WebSocketEndpoint struct {
	config      *config.Config
	registry    *registry.Registry
	connections map[string]*client // connectionID -> client
	mu          sync.RWMutex
}

// NewWebSocketEndpoint creates a new WebSocket endpoint.
func NewWebSocketEndpoint(cfg *config.Config, reg *registry.Registry) *WebSocketEndpoint {
	return &WebSocketEndpoint{
		config:      cfg,
		registry:    reg,
		connections: make(map[string]*client),
	}
}

// Log logs a message via the config.
func (ws *WebSocketEndpoint) Log(level int, format string, args ...interface{}) {
	ws.config.Log(level, format, args...)
}

// HandleWebSocket handles incoming WebSocket connections.
func (ws *WebSocketEndpoint) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.Log(0, "WebSocket upgrade failed: %v", err)
		return
	}

	connectionID := generateConnectionID()
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	ws.mu.Lock()
	ws.connections[connectionID] = c
	ws.mu.Unlock()

	ws.Log(1, "WebSocket connected: conn=%s", connectionID)

	go ws.writePump(connectionID, c)
	if snap, err := ws.registry.Snapshot(); err == nil {
		ws.queue(connectionID, c, snapshotMessage(snap))
	}
	go ws.readPump(connectionID, c)
}

// readPump reads resolve requests from a connection.
func (ws *WebSocketEndpoint) readPump(connectionID string, c *client) {
	defer ws.onDisconnect(connectionID)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				ws.Log(0, "WebSocket error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			ws.queue(connectionID, c, Message{Type: MsgError, Error: "invalid message: " + err.Error()})
			continue
		}
		ws.Log(2, "[IN] %s: from=%s path=%s", msg.Type, connectionID, msg.Path)

		switch msg.Type {
		case MsgResolve:
			ws.queue(connectionID, c, ws.resolve(msg.Path))
		case MsgSnapshot:
			snap, err := ws.registry.Snapshot()
			if err != nil {
				ws.queue(connectionID, c, Message{Type: MsgError, Error: err.Error()})
				continue
			}
			ws.queue(connectionID, c, snapshotMessage(snap))
		default:
			ws.queue(connectionID, c, Message{Type: MsgError, Error: "unknown message type: " + msg.Type})
		}
	}
}

func (ws *WebSocketEndpoint) resolve(path string) Message {
	snap, err := ws.registry.Snapshot()
	if err != nil {
		return Message{Type: MsgError, Path: path, Error: err.Error()}
	}
	m, err := snap.Match(path)
	if err != nil {
		return Message{Type: MsgError, Path: path, Generation: snap.Generation(), Error: err.Error()}
	}
	return Message{Type: MsgResolved, Path: path, Generation: snap.Generation(), Match: &m}
}

// writePump is the only writer on a connection.
func (ws *WebSocketEndpoint) writePump(connectionID string, c *client) {
	defer c.conn.Close()

	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			ws.Log(1, "WebSocket write failed: conn=%s: %v", connectionID, err)
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// queue hands a message to the connection's writer. A snapshot older than one
// already queued is skipped. A client whose buffer is full is dropped.
func (ws *WebSocketEndpoint) queue(connectionID string, c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		ws.Log(0, "Failed to encode %s message: %v", msg.Type, err)
		return
	}

	ws.mu.RLock()
	defer ws.mu.RUnlock()
	if ws.connections[connectionID] != c {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if msg.Type == MsgSnapshot {
		if msg.Generation < c.lastGen {
			ws.Log(2, "Skipping stale snapshot %d for conn=%s (sent %d)", msg.Generation, connectionID, c.lastGen)
			return
		}
		c.lastGen = msg.Generation
	}
	select {
	case c.send <- data:
		ws.Log(2, "[OUT] %s: to=%s", msg.Type, connectionID)
	default:
		ws.Log(0, "WebSocket send buffer full, dropping conn=%s", connectionID)
		go ws.onDisconnect(connectionID)
	}
}

// onDisconnect removes a connection and stops its writer.
func (ws *WebSocketEndpoint) onDisconnect(connectionID string) {
	ws.mu.Lock()
	c, ok := ws.connections[connectionID]
	if ok {
		delete(ws.connections, connectionID)
		close(c.send)
	}
	ws.mu.Unlock()

	if ok {
		ws.Log(1, "WebSocket disconnected: conn=%s", connectionID)
	}
}

// Broadcast pushes a snapshot to every connection. It is a registry.SwapListener.
func (ws *WebSocketEndpoint) Broadcast(snap *registry.Snapshot) {
	msg := snapshotMessage(snap)

	ws.mu.RLock()
	ids := make([]string, 0, len(ws.connections))
	clients := make([]*client, 0, len(ws.connections))
	for id, c := range ws.connections {
		ids = append(ids, id)
		clients = append(clients, c)
	}
	ws.mu.RUnlock()

	ws.Log(2, "[OUT] %s: generation=%d to %d connections", MsgSnapshot, snap.Generation(), len(ids))
	for i, c := range clients {
		ws.queue(ids[i], c, msg)
	}
}

// Count returns the number of open connections.
func (ws *WebSocketEndpoint) Count() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.connections)
}

// Close disconnects every client.
func (ws *WebSocketEndpoint) Close() {
	ws.mu.RLock()
	ids := make([]string, 0, len(ws.connections))
	for id := range ws.connections {
		ids = append(ids, id)
	}
	ws.mu.RUnlock()

	for _, id := range ids {
		ws.onDisconnect(id)
	}
}

func snapshotMessage(snap *registry.Snapshot) Message {
	return Message{
		Type:       MsgSnapshot,
		Generation: snap.Generation(),
		Routes:     snap.Routes(),
		Drawer:     snap.List(),
	}
}

func generateConnectionID() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return "conn-" + hex.EncodeToString(bytes)
}
