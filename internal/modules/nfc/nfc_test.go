package nfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/ui-shell/internal/descriptor"
	"github.com/zot/ui-shell/internal/registry"
)

func TestModuleResolvesSlots(t *testing.T) {
	reg := registry.New("")
	_, err := reg.Register([]descriptor.Descriptor{Module()})
	require.NoError(t, err)

	slots, err := reg.Resolve("/nfc")
	require.NoError(t, err)
	assert.Equal(t, descriptor.Slots{"default": View, "menubar": MenuBar}, slots)

	entries, err := reg.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "nfc-test", entries[0].Module)
	assert.Equal(t, DrawerItems, entries[0].Component)
}
