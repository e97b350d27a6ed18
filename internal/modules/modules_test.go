package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/loader"
)

func TestLoadBuiltinThenDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.toml"), []byte(`
name = "about"

[[routes]]
name = "about"
path = "/about"
components = { default = "About" }
`), 0o644))

	cfg := config.DefaultConfig()
	cfg.Modules.Dir = dir
	descs, err := Load(cfg, loader.New(cfg))
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, "nfc-test", descs[0].Name)
	assert.Equal(t, "about", descs[1].Name)

	cfg.Modules.Builtin = false
	descs, err = Load(cfg, loader.New(cfg))
	require.NoError(t, err)
	require.Len(t, descs, 1)
	assert.Equal(t, "about", descs[0].Name)
}

func TestLoadMissingDir(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Modules.Dir = filepath.Join(t.TempDir(), "absent")
	descs, err := Load(cfg, loader.New(cfg))
	require.NoError(t, err)
	assert.Len(t, descs, 1)
}
