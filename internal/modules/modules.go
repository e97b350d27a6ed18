// Package modules lists the feature modules compiled into the shell.
package modules

import (
	"errors"
	"os"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/loader"
	"github.com/zot/ui-shell/internal/modules/nfc"
)

// Builtin returns the compiled-in descriptors in registration order.
func Builtin() []descriptor.Descriptor {
	return []descriptor.Descriptor{
		nfc.Module(),
	}
}

// Load returns the builtin descriptors (when enabled) followed by those in the
// configured directory. A missing directory contributes nothing.
func Load(cfg *config.Config, l *loader.Loader) ([]descriptor.Descriptor, error) {
	var out []descriptor.Descriptor
	if cfg.Modules.Builtin {
		out = append(out, Builtin()...)
	}
	if cfg.Modules.Dir == "" {
		return out, nil
	}
	if _, err := os.Stat(cfg.Modules.Dir); errors.Is(err, os.ErrNotExist) {
		cfg.Log(1, "Modules: directory %s does not exist, using builtin modules only", cfg.Modules.Dir)
		return out, nil
	}
	loaded, err := l.LoadDir(cfg.Modules.Dir)
	if err != nil {
		return nil, err
	}
	return append(out, loader.Descriptors(loaded)...), nil
}
