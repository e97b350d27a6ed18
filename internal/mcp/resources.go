package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

// Resource URIs.
const (
	RoutesURI  = "shell://routes"
	DrawerURI  = "shell://drawer"
	ModulesURI = "shell://modules"
)

const jsonMIME = "application/json"

func (s *Server) registerResources() {
	s.mcp.AddResource(mcpgo.NewResource(RoutesURI, "Routes",
		mcpgo.WithResourceDescription("Registered routes with their slot components"),
		mcpgo.WithMIMEType(jsonMIME),
	), s.readRoutes)

	s.mcp.AddResource(mcpgo.NewResource(DrawerURI, "Drawer",
		mcpgo.WithResourceDescription("Navigation drawer entries in registration order"),
		mcpgo.WithMIMEType(jsonMIME),
	), s.readDrawer)

	s.mcp.AddResource(mcpgo.NewResource(ModulesURI, "Modules",
		mcpgo.WithResourceDescription("Registered module names"),
		mcpgo.WithMIMEType(jsonMIME),
	), s.readModules)
}

func (s *Server) readRoutes(ctx context.Context, req mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, snap.Routes())
}

func (s *Server) readDrawer(ctx context.Context, req mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, snap.List())
}

func (s *Server) readModules(ctx context.Context, req mcpgo.ReadResourceRequest) ([]mcpgo.ResourceContents, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, snap.Modules())
}

func jsonContents(uri string, v any) ([]mcpgo.ResourceContents, error) {
	text, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	return []mcpgo.ResourceContents{
		mcpgo.TextResourceContents{URI: uri, MIMEType: jsonMIME, Text: text},
	}, nil
}
