package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors. Construction errors wrap one of the first four; match with errors.Is.
var (
	ErrDuplicateModule   = errors.New("duplicate module")
	ErrDuplicateRoute    = errors.New("duplicate route")
	ErrEmptyRoute        = errors.New("route has no slots")
	ErrInvalidDescriptor = errors.New("invalid descriptor")
	ErrRegistryNotReady  = errors.New("registry not ready")
	ErrNotFound          = errors.New("route not found")
)

// DuplicateModuleError reports a module name registered twice.
type DuplicateModuleError struct {
	Module string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("duplicate module %q", e.Module)
}

func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// DuplicateRouteError reports a route path or name already owned by another route.
type DuplicateRouteError struct {
	Field    string // "path" or "name"
	Value    string
	Module   string // module being registered
	Existing string // module that registered it first
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("duplicate route %s %q in module %q (already registered by module %q)",
		e.Field, e.Value, e.Module, e.Existing)
}

func (e *DuplicateRouteError) Unwrap() error { return ErrDuplicateRoute }

// EmptyRouteError reports a route with an empty slot mapping.
type EmptyRouteError struct {
	Module string
	Route  string
}

func (e *EmptyRouteError) Error() string {
	return fmt.Sprintf("route %q in module %q has no slots", e.Route, e.Module)
}

func (e *EmptyRouteError) Unwrap() error { return ErrEmptyRoute }

// InvalidDescriptorError reports a structurally malformed descriptor.
type InvalidDescriptorError struct {
	Module string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	if e.Module == "" {
		return "invalid descriptor: " + e.Reason
	}
	return fmt.Sprintf("invalid descriptor %q: %s", e.Module, e.Reason)
}

func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// NotFoundError is returned when no route matches a path.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("route not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
