// Package registry folds module descriptors into the shell's route table,
// drawer list and name index.
//
// A Registry starts Unbuilt. Each successful Register builds a complete new
// Snapshot and publishes it atomically; a failed Register publishes nothing and
// leaves the previous snapshot, if any, in place.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/drawer"
	"github.com/zot/ui-shell/internal/router"
)

// SwapListener is called after a new snapshot is published.
type SwapListener func(snap *Snapshot)

// Registry holds the current snapshot.
type Registry struct {
	base       string
	current    atomic.Pointer[Snapshot]
	generation uint64
	listeners  []SwapListener
	mu         sync.Mutex // serializes Register and OnSwap
}

// New creates an unbuilt registry whose routes are mounted under base.
func New(base string) *Registry {
	return &Registry{base: base}
}

// Register validates and indexes descriptors, then publishes the result.
// Listeners run synchronously before Register returns and must not call Register.
func (r *Registry) Register(descriptors []descriptor.Descriptor) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap, err := Build(r.base, descriptors)
	if err != nil {
		return nil, err
	}
	r.generation++
	snap.generation = r.generation
	r.current.Store(snap)

	for _, l := range r.listeners {
		l(snap)
	}
	return snap, nil
}

// OnSwap adds a listener for published snapshots.
func (r *Registry) OnSwap(l SwapListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Ready reports whether a snapshot has been published.
func (r *Registry) Ready() bool {
	return r.current.Load() != nil
}

// Snapshot returns the current snapshot or ErrRegistryNotReady.
func (r *Registry) Snapshot() (*Snapshot, error) {
	snap := r.current.Load()
	if snap == nil {
		return nil, ErrRegistryNotReady
	}
	return snap, nil
}

// Resolve returns the slot mapping for a path.
func (r *Registry) Resolve(path string) (descriptor.Slots, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Resolve(path)
}

// Match resolves a path against the current snapshot.
func (r *Registry) Match(path string) (router.Match, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return router.Match{}, err
	}
	return snap.Match(path)
}

// List returns the current drawer entries.
func (r *Registry) List() ([]drawer.Entry, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.List(), nil
}

// Routes returns the current routes in registration order.
func (r *Registry) Routes() ([]router.Route, error) {
	snap, err := r.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Routes(), nil
}
