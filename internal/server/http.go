package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/drawer"
	"github.com/zot/ui-shell/internal/metrics"
	"github.com/zot/ui-shell/internal/registry"
	"github.com/zot/ui-shell/internal/router"
)

// ResolveResponse is the body of a successful /api/resolve.
type ResolveResponse struct {
	Path   string            `json:"path"`
	URL    string            `json:"url"`
	Route  string            `json:"route"`
	Module string            `json:"module"`
	Slots  descriptor.Slots  `json:"slots"`
	Params map[string]string `json:"params,omitempty"`
}

// RoutesResponse is the body of /api/routes.
type RoutesResponse struct {
	Generation uint64         `json:"generation"`
	Routes     []router.Route `json:"routes"`
}

// DrawerResponse is the body of /api/drawer.
type DrawerResponse struct {
	Generation uint64             `json:"generation"`
	Entries    []drawer.Entry     `json:"entries,omitempty"`
	Flat       []drawer.FlatEntry `json:"flat,omitempty"`
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPEndpoint serves the read-only registry API.
type HTTPEndpoint struct {
	config     *config.Config
	registry   *registry.Registry
	metrics    *metrics.Metrics
	wsEndpoint *WebSocketEndpoint
	mux        *http.ServeMux
}

// NewHTTPEndpoint creates a new HTTP endpoint. m and ws may be nil.
func NewHTTPEndpoint(cfg *config.Config, reg *registry.Registry, m *metrics.Metrics, ws *WebSocketEndpoint) *HTTPEndpoint {
	h := &HTTPEndpoint{
		config:     cfg,
		registry:   reg,
		metrics:    m,
		wsEndpoint: ws,
		mux:        http.NewServeMux(),
	}
	h.setupRoutes()
	return h
}

// setupRoutes configures HTTP routes.
func (h *HTTPEndpoint) setupRoutes() {
	h.mux.HandleFunc("GET /api/routes", h.handleRoutes)
	h.mux.HandleFunc("GET /api/resolve", h.handleResolve)
	h.mux.HandleFunc("GET /api/drawer", h.handleDrawer)
	h.mux.HandleFunc("GET /api/modules", h.handleModules)
	if h.wsEndpoint != nil {
		h.mux.HandleFunc("GET /ws", h.wsEndpoint.HandleWebSocket)
	}
	if h.metrics != nil && h.config.Metrics.Enabled {
		h.mux.Handle("GET "+router.NormalizePath(h.config.Metrics.Path), h.metrics.Handler())
	}
}

// ServeHTTP implements http.Handler.
func (h *HTTPEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.config.Log(3, "HTTP: %s %s", r.Method, r.URL.Path)
	h.mux.ServeHTTP(w, r)
}

// snapshot returns the current snapshot or writes a 503.
func (h *HTTPEndpoint) snapshot(w http.ResponseWriter) (*registry.Snapshot, bool) {
	snap, err := h.registry.Snapshot()
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return snap, true
}

func (h *HTTPEndpoint) handleRoutes(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, RoutesResponse{Generation: snap.Generation(), Routes: snap.Routes()})
}

// handleResolve matches ?path= (a route path) or ?url= (a URL under the mount base).
func (h *HTTPEndpoint) handleResolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	path, url := query.Get("path"), query.Get("url")
	if path == "" && url == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing path or url parameter"})
		return
	}

	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	var m router.Match
	var err error
	if path != "" {
		m, err = snap.Match(path)
	} else {
		m, err = snap.MatchURL(url)
		path = url
	}
	if h.metrics != nil {
		h.metrics.ObserveResolve(err)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResolveResponse{
		Path:   path,
		URL:    snap.URL(m.Route.Path),
		Route:  m.Route.Name,
		Module: m.Route.Module,
		Slots:  m.Route.Slots,
		Params: m.Params,
	})
}

func (h *HTTPEndpoint) handleDrawer(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	resp := DrawerResponse{Generation: snap.Generation()}
	if flat := r.URL.Query().Get("flat"); flat == "1" || flat == "true" {
		resp.Flat = snap.FlatDrawer()
	} else {
		resp.Entries = snap.List()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPEndpoint) handleModules(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Modules())
}

// writeError maps registry errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, registry.ErrRegistryNotReady):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
