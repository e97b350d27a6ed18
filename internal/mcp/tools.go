package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/zot/ui-shell/internal/descriptor"
)

// Tool names.
const (
	ToolResolveRoute   = "resolve_route"
	ToolListRoutes     = "list_routes"
	ToolListDrawer     = "list_drawer"
	ToolListModules    = "list_modules"
	ToolDescribeModule = "describe_module"
)

// ResolveResult is the payload of resolve_route.
type ResolveResult struct {
	Path       string            `json:"path"`
	Route      string            `json:"route"`
	Module     string            `json:"module"`
	Slots      descriptor.Slots  `json:"slots"`
	Params     map[string]string `json:"params,omitempty"`
	Generation uint64            `json:"generation"`
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcpgo.NewTool(ToolResolveRoute,
		mcpgo.WithDescription("Resolve a navigation path to the slot components the shell would render"),
		mcpgo.WithString("path", mcpgo.Required(), mcpgo.Description("Navigation path, e.g. /nfc")),
	), s.handleResolveRoute)

	s.mcp.AddTool(mcpgo.NewTool(ToolListRoutes,
		mcpgo.WithDescription("List every registered route in registration order"),
	), s.handleListRoutes)

	s.mcp.AddTool(mcpgo.NewTool(ToolListDrawer,
		mcpgo.WithDescription("List the navigation drawer entries in registration order"),
		mcpgo.WithBoolean("flat", mcpgo.Description("Return a depth-first flattened list with depths")),
	), s.handleListDrawer)

	s.mcp.AddTool(mcpgo.NewTool(ToolListModules,
		mcpgo.WithDescription("List registered module names in registration order"),
	), s.handleListModules)

	s.mcp.AddTool(mcpgo.NewTool(ToolDescribeModule,
		mcpgo.WithDescription("Show the descriptor a module registered"),
		mcpgo.WithString("name", mcpgo.Required(), mcpgo.Description("Module name")),
	), s.handleDescribeModule)
}

func (s *Server) handleResolveRoute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	snap, err := s.snapshot()
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	m, err := snap.Match(path)
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	s.config.Log(2, "MCP: resolved %s to %s", path, m.Route.Name)
	return jsonResult(ResolveResult{
		Path:       path,
		Route:      m.Route.Name,
		Module:     m.Route.Module,
		Slots:      m.Route.Slots,
		Params:     m.Params,
		Generation: snap.Generation(),
	})
}

func (s *Server) handleListRoutes(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap.Routes())
}

func (s *Server) handleListDrawer(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	if req.GetBool("flat", false) {
		return jsonResult(snap.FlatDrawer())
	}
	return jsonResult(snap.List())
}

func (s *Server) handleListModules(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	return jsonResult(snap.Modules())
}

func (s *Server) handleDescribeModule(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	snap, err := s.snapshot()
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}
	d, ok := snap.Module(name)
	if !ok {
		return mcpgo.NewToolResultError("module not found: " + name), nil
	}
	return jsonResult(d)
}
