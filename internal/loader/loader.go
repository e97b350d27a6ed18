// Package loader reads module descriptors from .toml, .lua and .hcl files.
package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/lua"
)

// Loaded is a descriptor together with the file that declared it.
type Loaded struct {
	File       string
	Descriptor descriptor.Descriptor
}

// Loader decodes and shape-checks descriptor files.
type Loader struct {
	config   *config.Config
	lua      *lua.Evaluator
	validate *validator.Validate
}

// New creates a loader. cfg may be nil.
func New(cfg *config.Config) *Loader {
	return &Loader{
		config:   cfg,
		lua:      lua.NewEvaluator(cfg),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Log logs a message via the config.
func (l *Loader) Log(level int, format string, args ...interface{}) {
	if l.config != nil {
		l.config.Log(level, format, args...)
	}
}

// Supported reports whether a file name has a descriptor extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml", ".lua", ".hcl":
		return true
	}
	return false
}

// LoadDir loads every descriptor file under dir in lexical path order.
// Hidden files and directories are skipped.
func (l *Loader) LoadDir(dir string) ([]Loaded, error) {
	var out []Loaded
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		loaded, err := l.LoadFile(path)
		if err != nil {
			return err
		}
		out = append(out, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	l.Log(2, "Loader: %d descriptors from %s", len(out), dir)
	return out, nil
}

// LoadFile loads the descriptors declared in one file.
func (l *Loader) LoadFile(path string) ([]Loaded, error) {
	var files []*fileDescriptor

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var raw map[string]interface{}
		if _, err := toml.DecodeFile(path, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		fd, err := decodeGeneric(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		files = append(files, fd)
	case ".lua":
		mods, err := l.lua.EvalFile(path)
		if err != nil {
			return nil, err
		}
		for _, raw := range mods {
			fd, err := decodeGeneric(raw)
			if err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
			files = append(files, fd)
		}
	case ".hcl":
		fds, err := parseHCL(path)
		if err != nil {
			return nil, err
		}
		files = fds
	default:
		return nil, fmt.Errorf("unsupported descriptor file %s", path)
	}

	out := make([]Loaded, 0, len(files))
	for _, fd := range files {
		if err := check(l.validate, fd); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, Loaded{File: path, Descriptor: fd.toDescriptor()})
	}
	l.Log(3, "Loader: loaded %s (%d modules)", path, len(out))
	return out, nil
}

// Descriptors strips file information.
func Descriptors(loaded []Loaded) []descriptor.Descriptor {
	out := make([]descriptor.Descriptor, len(loaded))
	for i, l := range loaded {
		out[i] = l.Descriptor
	}
	return out
}
