// Package mcp exposes the module registry to AI assistants over the Model Context Protocol.
package mcp

import (
	"encoding/json"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/registry"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "ui-shell"

// Server answers MCP tool calls and resource reads from the current registry snapshot.
type Server struct {
	config   *config.Config
	registry *registry.Registry
	mcp      *mcpserver.MCPServer
}

// NewServer creates an MCP server with the standard tools and resources registered.
func NewServer(cfg *config.Config, reg *registry.Registry, version string) *Server {
	s := &Server{
		config:   cfg,
		registry: reg,
		mcp: mcpserver.NewMCPServer(ServerName, version,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithResourceCapabilities(false, false),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves MCP on stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	s.config.Log(0, "Starting MCP server on stdio...")
	return mcpserver.ServeStdio(s.mcp)
}

// snapshot returns the current snapshot; tools report ErrRegistryNotReady as a tool error.
func (s *Server) snapshot() (*registry.Snapshot, error) {
	return s.registry.Snapshot()
}

func toJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	text, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	return mcpgo.NewToolResultText(text), nil
}
