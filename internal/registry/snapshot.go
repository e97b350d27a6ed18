package registry

import (
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/drawer"
	"github.com/zot/ui-shell/internal/router"
)

// Snapshot is an immutable, fully validated index over a set of descriptors.
// All methods are safe for concurrent use.
type Snapshot struct {
	generation uint64
	router     *router.Router
	drawer     *drawer.Composer
	modules    map[string]descriptor.Descriptor
	moduleList []string
	routeOwner map[string]string // route name -> module
}

// Build validates descriptors in order and indexes them into a new snapshot.
// It fails on the first invalid descriptor and returns no partial result.
// The descriptors are deep-copied.
func Build(base string, descriptors []descriptor.Descriptor) (*Snapshot, error) {
	s := &Snapshot{
		router:     router.New(base),
		drawer:     drawer.NewComposer(),
		modules:    make(map[string]descriptor.Descriptor, len(descriptors)),
		routeOwner: make(map[string]string),
	}
	for _, d := range descriptors {
		if err := s.add(d.Clone()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Snapshot) add(d descriptor.Descriptor) error {
	if _, dup := s.modules[d.Name]; dup && d.Name != "" {
		return &DuplicateModuleError{Module: d.Name}
	}
	if err := validateDescriptor(&d); err != nil {
		return err
	}

	for _, route := range d.Routes {
		if existing, ok := s.router.Lookup(route.Path); ok {
			return &DuplicateRouteError{Field: "path", Value: route.Path, Module: d.Name, Existing: existing.Module}
		}
		if owner, ok := s.routeOwner[route.Name]; ok {
			return &DuplicateRouteError{Field: "name", Value: route.Name, Module: d.Name, Existing: owner}
		}
		if err := validateSlots(d.Name, route); err != nil {
			return err
		}
		s.router.Register(router.Route{
			Name:   route.Name,
			Path:   route.Path,
			Module: d.Name,
			Slots:  route.Slots,
		})
		s.routeOwner[route.Name] = d.Name
	}

	s.drawer.Add(d.Name, d.Drawer)
	s.modules[d.Name] = d
	s.moduleList = append(s.moduleList, d.Name)
	return nil
}

// Generation returns the registration count that produced this snapshot (0 for
// snapshots made with Build directly).
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// Resolve returns the slot mapping for a path, or a *NotFoundError.
func (s *Snapshot) Resolve(path string) (descriptor.Slots, error) {
	m, err := s.Match(path)
	if err != nil {
		return nil, err
	}
	return m.Route.Slots, nil
}

// Match resolves a route path to its route, owning module and extracted params.
// The path is relative to the mount base.
func (s *Snapshot) Match(path string) (router.Match, error) {
	if m, found := s.router.Resolve(path); found {
		return m, nil
	}
	return router.Match{}, &NotFoundError{Path: path}
}

// MatchURL strips the mount base from a URL path and matches the remainder.
// A URL outside the base is a *NotFoundError.
func (s *Snapshot) MatchURL(urlPath string) (router.Match, error) {
	rel, ok := s.router.StripBase(urlPath)
	if !ok {
		return router.Match{}, &NotFoundError{Path: urlPath}
	}
	m, err := s.Match(rel)
	if err != nil {
		return router.Match{}, &NotFoundError{Path: urlPath}
	}
	return m, nil
}

// List returns drawer entries in module-registration order.
func (s *Snapshot) List() []drawer.Entry {
	return s.drawer.List()
}

// FlatDrawer returns the drawer tree walked depth-first.
func (s *Snapshot) FlatDrawer() []drawer.FlatEntry {
	return s.drawer.Flatten()
}

// Routes returns all routes in registration order.
func (s *Snapshot) Routes() []router.Route {
	return s.router.Routes()
}

// RouteByName finds a route by its registry-wide name.
func (s *Snapshot) RouteByName(name string) (router.Route, bool) {
	owner, ok := s.routeOwner[name]
	if !ok {
		return router.Route{}, false
	}
	for _, r := range s.modules[owner].Routes {
		if r.Name == name {
			return s.router.Lookup(r.Path)
		}
	}
	return router.Route{}, false
}

// Module returns a copy of a registered descriptor.
func (s *Snapshot) Module(name string) (descriptor.Descriptor, bool) {
	d, ok := s.modules[name]
	if !ok {
		return descriptor.Descriptor{}, false
	}
	return d.Clone(), true
}

// Modules returns module names in registration order.
func (s *Snapshot) Modules() []string {
	out := make([]string, len(s.moduleList))
	copy(out, s.moduleList)
	return out
}

// URL builds the mounted URL for a route path.
func (s *Snapshot) URL(path string) string {
	return s.router.BuildURL(path)
}
