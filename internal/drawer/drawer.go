// Package drawer composes per-module drawer contributions into one navigation list.
package drawer

import "github.com/zot/ui-shell/internal/descriptor"

// Entry is a drawer contribution tagged with the module that supplied it.
type Entry struct {
	Module    string                  `json:"module"`
	Component descriptor.ComponentRef `json:"component"`
	Label     string                  `json:"label,omitempty"`
	Icon      string                  `json:"icon,omitempty"`
	Children  []Entry                 `json:"children,omitempty"`
}

// FlatEntry is an entry from a depth-first walk of the drawer tree.
type FlatEntry struct {
	Entry
	Depth int `json:"depth"`
}

// Composer collects drawer contributions in registration order.
// Entries are never merged or deduplicated.
type Composer struct {
	entries []Entry
}

// NewComposer creates an empty composer.
func NewComposer() *Composer {
	return &Composer{}
}

// Add appends a module's drawer contribution. A nil drawer is skipped.
func (c *Composer) Add(module string, d *descriptor.DrawerEntry) {
	if d == nil {
		return
	}
	c.entries = append(c.entries, fromDescriptor(module, *d))
}

func fromDescriptor(module string, d descriptor.DrawerEntry) Entry {
	e := Entry{
		Module:    module,
		Component: d.Component,
		Label:     d.Label,
		Icon:      d.Icon,
	}
	for _, child := range d.Children {
		e.Children = append(e.Children, fromDescriptor(module, child))
	}
	return e
}

// List returns the drawer entries in module-registration order.
func (c *Composer) List() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of top-level entries.
func (c *Composer) Len() int {
	return len(c.entries)
}

// Flatten walks the drawer tree depth-first, parents before children.
func (c *Composer) Flatten() []FlatEntry {
	var out []FlatEntry
	var walk func(entries []Entry, depth int)
	walk = func(entries []Entry, depth int) {
		for _, e := range entries {
			flat := e.clone()
			flat.Children = nil
			out = append(out, FlatEntry{Entry: flat, Depth: depth})
			walk(e.Children, depth+1)
		}
	}
	walk(c.entries, 0)
	return out
}

// Filter returns the entries for which keep returns true. A dropped parent drops
// its children. Presentation layers use this for visibility rules.
func Filter(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if !keep(e) {
			continue
		}
		e = e.clone()
		e.Children = Filter(e.Children, keep)
		out = append(out, e)
	}
	return out
}

func (e Entry) clone() Entry {
	if e.Children != nil {
		children := make([]Entry, len(e.Children))
		for i, c := range e.Children {
			children[i] = c.clone()
		}
		e.Children = children
	}
	return e
}
