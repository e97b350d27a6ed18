// Package descriptor defines the declarative record a feature module hands to the shell.
package descriptor

// ComponentRef is an opaque handle to a renderable component supplied by the UI layer.
// The registry stores and returns it but never inspects it.
type ComponentRef string

// Slots maps a slot name (e.g. "default", "menubar") to the component placed there.
type Slots map[string]ComponentRef

// Standard slot names used by the built-in modules. The set is open.
const (
	SlotDefault = "default"
	SlotMenuBar = "menubar"
)

// Route binds a path to a set of slot components.
type Route struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Slots Slots  `json:"components"`
}

// DrawerEntry is a module's contribution to the navigation drawer.
type DrawerEntry struct {
	Component ComponentRef  `json:"component"`
	Label     string        `json:"label,omitempty"`
	Icon      string        `json:"icon,omitempty"`
	Children  []DrawerEntry `json:"children,omitempty"`
}

// Descriptor describes one feature module: its name, optional drawer entry and routes.
type Descriptor struct {
	Name   string       `json:"name"`
	Drawer *DrawerEntry `json:"drawer,omitempty"`
	Routes []Route      `json:"routes,omitempty"`
}

// Clone returns a deep copy of the slot mapping.
func (s Slots) Clone() Slots {
	if s == nil {
		return nil
	}
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Names returns the slot names in no particular order.
func (s Slots) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	return names
}

// Clone returns a deep copy of the route.
func (r Route) Clone() Route {
	r.Slots = r.Slots.Clone()
	return r
}

// Clone returns a deep copy of the drawer entry and its children.
func (d DrawerEntry) Clone() DrawerEntry {
	if d.Children != nil {
		children := make([]DrawerEntry, len(d.Children))
		for i, c := range d.Children {
			children[i] = c.Clone()
		}
		d.Children = children
	}
	return d
}

// Clone returns a deep copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	if d.Drawer != nil {
		drawer := d.Drawer.Clone()
		d.Drawer = &drawer
	}
	if d.Routes != nil {
		routes := make([]Route, len(d.Routes))
		for i, r := range d.Routes {
			routes[i] = r.Clone()
		}
		d.Routes = routes
	}
	return d
}
