// Package router indexes route paths and resolves navigation paths to routes.
package router

import (
	"strings"

	"github.com/zot/ui-shell/internal/descriptor"
)

// Route is an indexed route: its path, owning module and slot components.
type Route struct {
	Name   string           `json:"name"`
	Path   string           `json:"path"`
	Module string           `json:"module"`
	Slots  descriptor.Slots `json:"slots"`

	segments []string // nil for literal paths
}

// Match is the result of resolving a path.
type Match struct {
	Route  Route             `json:"route"`
	Params map[string]string `json:"params,omitempty"`
}

// Router maps URL paths to routes.
// It is filled once while a registry snapshot is built and only read afterwards,
// so read methods need no locking.
type Router struct {
	base     string
	literals map[string]*Route // normalized path -> route
	patterns []*Route          // routes with :param segments, registration order
	byKey    map[string]*Route // pattern shape -> route, for collision checks
	order    []*Route
}

// New creates a router mounted under base (e.g. "" or "/app").
func New(base string) *Router {
	base = NormalizePath(base)
	if base == "/" {
		base = ""
	}
	return &Router{
		base:     base,
		literals: make(map[string]*Route),
		byKey:    make(map[string]*Route),
	}
}

// Register adds a route and reports whether it was added. A route whose path
// shape is already taken is not added; callers use Lookup to name the owner.
func (r *Router) Register(route Route) bool {
	route.Path = NormalizePath(route.Path)
	route.Slots = route.Slots.Clone()
	stored := &route
	key := ShapeKey(route.Path)

	if _, ok := r.byKey[key]; ok {
		return false
	}
	if IsPattern(route.Path) {
		stored.segments = splitPath(route.Path)
		r.patterns = append(r.patterns, stored)
	} else {
		r.literals[route.Path] = stored
	}
	r.byKey[key] = stored
	r.order = append(r.order, stored)
	return true
}

// Lookup returns the route registered with the same path shape, if any.
// "/a/:x" and "/a/:y" share a shape.
func (r *Router) Lookup(path string) (Route, bool) {
	if route, ok := r.byKey[ShapeKey(NormalizePath(path))]; ok {
		return *route, true
	}
	return Route{}, false
}

// Resolve finds the route for a path. Literal paths win over patterns and
// patterns are tried in registration order.
// Returns the match and true if found, the zero Match and false otherwise.
func (r *Router) Resolve(path string) (Match, bool) {
	path = NormalizePath(path)
	if route, ok := r.literals[path]; ok {
		return Match{Route: route.copy()}, true
	}

	segments := splitPath(path)
	for _, route := range r.patterns {
		if params, ok := matchSegments(route.segments, segments); ok {
			return Match{Route: route.copy(), Params: params}, true
		}
	}
	return Match{}, false
}

// IsRegisteredPath checks if a path was explicitly registered as a literal route.
func (r *Router) IsRegisteredPath(path string) bool {
	_, ok := r.literals[NormalizePath(path)]
	return ok
}

// BuildURL constructs the full URL for a route path under the router's base.
func (r *Router) BuildURL(path string) string {
	path = NormalizePath(path)
	if r.base == "" {
		return path
	}
	if path == "/" {
		return r.base
	}
	return r.base + path
}

// StripBase removes the router's base from a URL path.
// Returns false when the URL is outside the base.
func (r *Router) StripBase(urlPath string) (string, bool) {
	urlPath = NormalizePath(urlPath)
	if r.base == "" {
		return urlPath, true
	}
	if urlPath == r.base {
		return "/", true
	}
	if strings.HasPrefix(urlPath, r.base+"/") {
		return strings.TrimPrefix(urlPath, r.base), true
	}
	return "", false
}

// Base returns the mount prefix ("" when mounted at the root).
func (r *Router) Base() string {
	return r.base
}

// Routes returns a copy of all routes in registration order.
func (r *Router) Routes() []Route {
	routes := make([]Route, 0, len(r.order))
	for _, route := range r.order {
		routes = append(routes, route.copy())
	}
	return routes
}

// Len returns the number of registered routes.
func (r *Router) Len() int {
	return len(r.order)
}

func (rt *Route) copy() Route {
	c := *rt
	c.Slots = rt.Slots.Clone()
	c.segments = nil
	return c
}

// NormalizePath ensures path has leading slash and no trailing slash.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" && strings.HasSuffix(path, "/") {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
