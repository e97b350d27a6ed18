package loader

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/zot/ui-shell/internal/descriptor"
)

// fileDescriptor is the on-disk shape shared by every descriptor format.
type fileDescriptor struct {
	Name   string      `toml:"name" validate:"required"`
	Drawer *fileDrawer `toml:"drawer"`
	Routes []fileRoute `toml:"routes" validate:"dive"`
}

type fileDrawer struct {
	Component string       `toml:"component" validate:"required_without=Label"`
	Label     string       `toml:"label"`
	Icon      string       `toml:"icon"`
	Children  []fileDrawer `toml:"children" validate:"dive"`
}

type fileRoute struct {
	Name       string            `toml:"name" validate:"required"`
	Path       string            `toml:"path" validate:"required,startswith=/"`
	Components map[string]string `toml:"components" validate:"dive,keys,required,endkeys,required"`
}

// decodeGeneric converts a decoded TOML or Lua table into a fileDescriptor.
// A string drawer is shorthand for {component = "..."}.
func decodeGeneric(raw map[string]interface{}) (*fileDescriptor, error) {
	dropEmptyTable(raw, "routes")
	normalizeDrawer(raw)

	var fd fileDescriptor
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "toml",
		ErrorUnused: true,
		Result:      &fd,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return &fd, nil
}

func normalizeDrawer(m map[string]interface{}) {
	switch d := m["drawer"].(type) {
	case string:
		m["drawer"] = map[string]interface{}{"component": d}
	case map[string]interface{}:
		normalizeChildren(d)
	}
}

// dropEmptyTable removes key when it holds an empty Lua table, which converts to a map.
func dropEmptyTable(m map[string]interface{}, key string) {
	if t, ok := m[key].(map[string]interface{}); ok && len(t) == 0 {
		delete(m, key)
	}
}

func normalizeChildren(d map[string]interface{}) {
	dropEmptyTable(d, "children")
	var children []interface{}
	switch c := d["children"].(type) {
	case []interface{}:
		children = c
	case []map[string]interface{}:
		for _, child := range c {
			children = append(children, child)
		}
	default:
		return
	}
	for i, child := range children {
		switch v := child.(type) {
		case string:
			children[i] = map[string]interface{}{"component": v}
		case map[string]interface{}:
			normalizeChildren(v)
		}
	}
	d["children"] = children
}

// check validates the decoded shape and turns validator errors into one readable error.
func check(v *validator.Validate, fd *fileDescriptor) error {
	err := v.Struct(fd)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", strings.TrimPrefix(fe.Namespace(), "fileDescriptor."), fe.Tag()))
	}
	return fmt.Errorf("invalid descriptor: %s", strings.Join(msgs, "; "))
}

func (fd *fileDescriptor) toDescriptor() descriptor.Descriptor {
	d := descriptor.Descriptor{Name: fd.Name}
	if fd.Drawer != nil {
		drawer := fd.Drawer.toEntry()
		d.Drawer = &drawer
	}
	for _, r := range fd.Routes {
		slots := make(descriptor.Slots, len(r.Components))
		for name, ref := range r.Components {
			slots[name] = descriptor.ComponentRef(ref)
		}
		d.Routes = append(d.Routes, descriptor.Route{Name: r.Name, Path: r.Path, Slots: slots})
	}
	return d
}

func (fd *fileDrawer) toEntry() descriptor.DrawerEntry {
	e := descriptor.DrawerEntry{
		Component: descriptor.ComponentRef(fd.Component),
		Label:     fd.Label,
		Icon:      fd.Icon,
	}
	for i := range fd.Children {
		e.Children = append(e.Children, fd.Children[i].toEntry())
	}
	return e
}
