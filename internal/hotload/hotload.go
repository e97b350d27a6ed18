// Package hotload re-registers module descriptors when the descriptor directory changes.
package hotload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/loader"
	"github.com/zot/ui-shell/internal/registry"
)

// LoadFunc produces the full descriptor list for one registration.
type LoadFunc func() ([]descriptor.Descriptor, error)

// ResultFunc is told the outcome of every reload.
type ResultFunc func(err error)

// HotLoader watches the descriptor directory and publishes a new snapshot after each change.
// A failed reload leaves the current snapshot in place.
type HotLoader struct {
	config   *config.Config
	dir      string
	watcher  *fsnotify.Watcher
	load     LoadFunc
	registry *registry.Registry
	onResult ResultFunc

	// Debouncing
	pendingSince  time.Time
	pending       bool
	debounceMu    sync.Mutex
	debounceDelay time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a hot loader for dir.
func New(cfg *config.Config, dir string, load LoadFunc, reg *registry.Registry) (*HotLoader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	delay := cfg.Modules.Debounce.Duration()
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	return &HotLoader{
		config:        cfg,
		dir:           dir,
		watcher:       watcher,
		load:          load,
		registry:      reg,
		debounceDelay: delay,
		done:          make(chan struct{}),
	}, nil
}

// OnResult sets the callback for reload outcomes. Call before Start.
func (h *HotLoader) OnResult(fn ResultFunc) {
	h.onResult = fn
}

// Start begins watching for file changes.
func (h *HotLoader) Start() error {
	if err := h.watchTree(h.dir); err != nil {
		return err
	}

	go h.eventLoop()
	go h.debounceLoop()

	h.config.Log(1, "HotLoader: watching %s for changes", h.dir)
	return nil
}

// Stop stops the hot loader.
func (h *HotLoader) Stop() error {
	var err error
	h.stopOnce.Do(func() {
		close(h.done)
		err = h.watcher.Close()
	})
	return err
}

// Reload loads and registers descriptors immediately.
func (h *HotLoader) Reload() error {
	descs, err := h.load()
	if err == nil {
		var snap *registry.Snapshot
		snap, err = h.registry.Register(descs)
		if err == nil {
			h.config.Log(1, "HotLoader: registered %d modules, %d routes (generation %d)",
				len(snap.Modules()), len(snap.Routes()), snap.Generation())
		}
	}
	if err != nil {
		h.config.Errorf("HotLoader: reload failed, keeping current modules: %v", err)
	}
	if h.onResult != nil {
		h.onResult(err)
	}
	return err
}

// watchTree adds dir and every non-hidden subdirectory to the watcher.
func (h *HotLoader) watchTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := h.watcher.Add(path); err != nil {
			return err
		}
		h.config.Log(2, "HotLoader: added watch for %s", path)
		return nil
	})
}

// eventLoop processes file system events.
func (h *HotLoader) eventLoop() {
	for {
		select {
		case <-h.done:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			h.handleEvent(event)
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.config.Errorf("HotLoader: watcher error: %v", err)
		}
	}
}

// handleEvent processes a single file system event. Removing or renaming any
// entry reloads, since a moved directory takes its modules with it. Writes and
// creates reload only for descriptor files.
func (h *HotLoader) handleEvent(event fsnotify.Event) {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	h.config.Log(3, "HotLoader: event %s on %s", event.Op, event.Name)

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		h.queueReload()
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := h.watchTree(event.Name); err != nil && !errors.Is(err, os.ErrNotExist) {
				h.config.Errorf("HotLoader: cannot watch %s: %v", event.Name, err)
			}
			h.queueReload()
		} else if loader.Supported(event.Name) {
			h.queueReload()
		}
	case event.Has(fsnotify.Write):
		if loader.Supported(event.Name) {
			h.queueReload()
		}
	}
}

// queueReload marks the directory dirty; bursts of events collapse into one reload.
func (h *HotLoader) queueReload() {
	h.debounceMu.Lock()
	h.pending = true
	h.pendingSince = time.Now()
	h.debounceMu.Unlock()
}

// debounceLoop reloads once no event has arrived for debounceDelay.
func (h *HotLoader) debounceLoop() {
	tick := h.debounceDelay / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			if h.due() {
				_ = h.Reload()
			}
		}
	}
}

func (h *HotLoader) due() bool {
	h.debounceMu.Lock()
	defer h.debounceMu.Unlock()
	if !h.pending || time.Since(h.pendingSince) < h.debounceDelay {
		return false
	}
	h.pending = false
	return true
}
