package registry

import (
	"fmt"
	"strings"

	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/router"
)

// validateDescriptor checks the fields every descriptor needs before indexing.
// Uniqueness is checked by the snapshot builder, which knows what came before.
func validateDescriptor(d *descriptor.Descriptor) error {
	if strings.TrimSpace(d.Name) == "" {
		return &InvalidDescriptorError{Reason: "module name is empty"}
	}
	for i, route := range d.Routes {
		if strings.TrimSpace(route.Name) == "" {
			return &InvalidDescriptorError{Module: d.Name, Reason: fmt.Sprintf("route %d has no name", i)}
		}
		if strings.TrimSpace(route.Path) == "" {
			return &InvalidDescriptorError{Module: d.Name, Reason: fmt.Sprintf("route %q has no path", route.Name)}
		}
		if router.HasEmptyParam(route.Path) {
			return &InvalidDescriptorError{Module: d.Name, Reason: fmt.Sprintf("route %q path %q has a parameter with no name", route.Name, route.Path)}
		}
	}
	if d.Drawer != nil {
		if err := validateDrawer(d.Name, *d.Drawer); err != nil {
			return err
		}
	}
	return nil
}

// validateSlots rejects an empty mapping and blank slot names.
func validateSlots(module string, route descriptor.Route) error {
	if len(route.Slots) == 0 {
		return &EmptyRouteError{Module: module, Route: route.Name}
	}
	for name := range route.Slots {
		if strings.TrimSpace(name) == "" {
			return &InvalidDescriptorError{Module: module, Reason: fmt.Sprintf("route %q has a blank slot name", route.Name)}
		}
	}
	return nil
}

func validateDrawer(module string, d descriptor.DrawerEntry) error {
	if d.Component == "" && d.Label == "" {
		return &InvalidDescriptorError{Module: module, Reason: "drawer entry needs a component or a label"}
	}
	for _, child := range d.Children {
		if err := validateDrawer(module, child); err != nil {
			return err
		}
	}
	return nil
}
