package drawer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zot/ui-shell/internal/descriptor"
)

func nested() *descriptor.DrawerEntry {
	return &descriptor.DrawerEntry{
		Component: "Tools",
		Label:     "Tools",
		Children: []descriptor.DrawerEntry{
			{Component: "Scanner", Label: "Scanner"},
			{Label: "Writers", Children: []descriptor.DrawerEntry{{Component: "NdefWriter"}}},
		},
	}
}

func TestListSkipsModulesWithoutDrawer(t *testing.T) {
	c := NewComposer()
	c.Add("a", &descriptor.DrawerEntry{Component: "Da"})
	c.Add("b", nil)
	c.Add("c", &descriptor.DrawerEntry{Component: "Dc"})

	entries := c.List()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Module)
	assert.Equal(t, "c", entries[1].Module)
	assert.Equal(t, 2, c.Len())
}

func TestNoDeduplication(t *testing.T) {
	c := NewComposer()
	c.Add("a", &descriptor.DrawerEntry{Component: "Same", Label: "Same"})
	c.Add("b", &descriptor.DrawerEntry{Component: "Same", Label: "Same"})
	assert.Len(t, c.List(), 2)
}

func TestListReturnsCopies(t *testing.T) {
	c := NewComposer()
	c.Add("tools", nested())

	entries := c.List()
	entries[0].Children[0].Label = "changed"
	assert.Equal(t, "Scanner", c.List()[0].Children[0].Label)
}

func TestFlatten(t *testing.T) {
	c := NewComposer()
	c.Add("nfc", &descriptor.DrawerEntry{Component: "DrawerItems"})
	c.Add("tools", nested())

	flat := c.Flatten()
	var got []string
	var depths []int
	for _, e := range flat {
		got = append(got, string(e.Component)+"|"+e.Label)
		depths = append(depths, e.Depth)
		assert.Nil(t, e.Children)
	}
	assert.Equal(t, []string{"DrawerItems|", "Tools|Tools", "Scanner|Scanner", "|Writers", "NdefWriter|"}, got)
	assert.Equal(t, []int{0, 0, 1, 1, 2}, depths)
	for _, e := range flat[1:] {
		assert.Equal(t, "tools", e.Module)
	}
}

func TestFilter(t *testing.T) {
	c := NewComposer()
	c.Add("nfc", &descriptor.DrawerEntry{Component: "DrawerItems"})
	c.Add("tools", nested())

	out := Filter(c.List(), func(e Entry) bool { return e.Label != "Writers" })
	require.Len(t, out, 2)
	require.Len(t, out[1].Children, 1)
	assert.Equal(t, "Scanner", out[1].Children[0].Label)

	assert.Empty(t, Filter(c.List(), func(Entry) bool { return false }))
}
