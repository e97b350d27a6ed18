package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/hotload"
	"github.com/zot/ui-shell/internal/loader"
	"github.com/zot/ui-shell/internal/metrics"
	"github.com/zot/ui-shell/internal/modules"
	"github.com/zot/ui-shell/internal/registry"
)

// Server is the shell host.
type Server struct {
	config       *config.Config
	registry     *registry.Registry
	loader       *loader.Loader
	metrics      *metrics.Metrics
	hotLoader    *hotload.HotLoader
	httpServer   *http.Server
	httpEndpoint *HTTPEndpoint
	wsEndpoint   *WebSocketEndpoint
}

// New creates a new server with the given configuration.
func New(cfg *config.Config) *Server {
	reg := registry.New(cfg.Server.Base)

	s := &Server{
		config:   cfg,
		registry: reg,
		loader:   loader.New(cfg),
	}
	if cfg.Metrics.Enabled {
		s.metrics = metrics.New()
		reg.OnSwap(s.metrics.ObserveSnapshot)
	}
	s.wsEndpoint = NewWebSocketEndpoint(cfg, reg)
	reg.OnSwap(s.wsEndpoint.Broadcast)
	s.httpEndpoint = NewHTTPEndpoint(cfg, reg, s.metrics, s.wsEndpoint)
	return s
}

// Registry returns the module registry.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Metrics returns the metrics collectors, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpEndpoint
}

// LoadModules performs the initial registration. Any error here is fatal.
func (s *Server) LoadModules() error {
	descs, err := modules.Load(s.config, s.loader)
	if err != nil {
		return fmt.Errorf("failed to load modules: %w", err)
	}
	snap, err := s.registry.Register(descs)
	if err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	s.config.Log(0, "Registered %d modules, %d routes", len(snap.Modules()), len(snap.Routes()))
	return nil
}

// Watch starts the hot loader on the modules directory.
// It is a no-op when the directory does not exist.
func (s *Server) Watch() error {
	dir := s.config.Modules.Dir
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		s.config.Log(1, "Not watching %s: directory does not exist", dir)
		return nil
	}

	load := func() ([]descriptor.Descriptor, error) {
		return modules.Load(s.config, s.loader)
	}
	hl, err := hotload.New(s.config, dir, load, s.registry)
	if err != nil {
		return fmt.Errorf("failed to create hot loader: %w", err)
	}
	if s.metrics != nil {
		hl.OnResult(s.metrics.ObserveReload)
	}
	if err := hl.Start(); err != nil {
		hl.Stop()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.hotLoader = hl
	return nil
}

// Start loads modules, starts the watcher if configured and serves HTTP.
func (s *Server) Start() error {
	if err := s.LoadModules(); err != nil {
		return err
	}
	if s.config.Modules.Watch {
		if err := s.Watch(); err != nil {
			return err
		}
	}
	_, err := s.StartHTTP(s.config.Server.Port)
	return err
}

// StartHTTP starts the HTTP server on the specified port.
// It returns the full base URL.
func (s *Server) StartHTTP(port int) (string, error) {
	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.httpEndpoint,
	}

	// We need to capture the actual port if 0 was passed
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if port == 0 {
		addr = listener.Addr().String()
		_, portStr, _ := net.SplitHostPort(addr)
		s.config.Server.Port, _ = strconv.Atoi(portStr)
	}

	go func() {
		s.config.Log(0, "HTTP server listening on %s", addr)
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.config.Errorf("HTTP server error: %v", err)
		}
	}()

	host := s.config.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.config.Server.Port)), nil
}

// Shutdown stops the watcher, closes WebSocket clients and stops HTTP.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hotLoader != nil {
		s.hotLoader.Stop()
	}
	s.wsEndpoint.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
