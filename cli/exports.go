// This file re-exports internal packages for wrapper projects.
package cli

import (
	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/registry"
	"github.com/zot/ui-shell/internal/server"
)

// Re-export config types for public API
type (
	Config   = config.Config
	Duration = config.Duration
)

// Re-export descriptor and registry types so wrappers can add compiled-in modules.
type (
	Descriptor   = descriptor.Descriptor
	Route        = descriptor.Route
	DrawerEntry  = descriptor.DrawerEntry
	Slots        = descriptor.Slots
	ComponentRef = descriptor.ComponentRef
	Registry     = registry.Registry
	Snapshot     = registry.Snapshot
	Server       = server.Server
)

var (
	DefaultConfig = config.DefaultConfig
	LoadConfig    = config.Load
	NewRegistry   = registry.New
	NewServer     = server.New
)

// Registry errors.
var (
	ErrDuplicateModule   = registry.ErrDuplicateModule
	ErrDuplicateRoute    = registry.ErrDuplicateRoute
	ErrEmptyRoute        = registry.ErrEmptyRoute
	ErrInvalidDescriptor = registry.ErrInvalidDescriptor
	ErrRegistryNotReady  = registry.ErrRegistryNotReady
	ErrNotFound          = registry.ErrNotFound
)
