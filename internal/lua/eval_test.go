package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvalFileReturnsTable(t *testing.T) {
	mods, err := NewEvaluator(nil).EvalFile("testdata/nfc.lua")
	require.NoError(t, err)
	require.Len(t, mods, 1)

	m := mods[0]
	assert.Equal(t, "nfc-test", m["name"])
	assert.Equal(t, "DrawerItems", m["drawer"])

	routes, ok := m["routes"].([]interface{})
	require.True(t, ok)
	require.Len(t, routes, 1)
	route := routes[0].(map[string]interface{})
	assert.Equal(t, "/nfc", route["path"])
	assert.Equal(t, map[string]interface{}{"default": "NFC", "menubar": "NFCMenuBar"}, route["components"])
}

func TestEvalShellModuleDeclarations(t *testing.T) {
	mods, err := NewEvaluator(nil).EvalString("multi.lua", `
shell.module { name = "first" }
shell.module { name = "second", drawer = { label = "Second" } }
`)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, "first", mods[0]["name"])
	assert.Equal(t, "second", mods[1]["name"])
	assert.Equal(t, map[string]interface{}{"label": "Second"}, mods[1]["drawer"])
}

func TestEvalErrors(t *testing.T) {
	e := NewEvaluator(nil)

	_, err := e.EvalString("syntax.lua", "return {")
	assert.ErrorContains(t, err, "syntax.lua")

	_, err = e.EvalString("nothing.lua", "local x = 1")
	assert.ErrorContains(t, err, "no module declared")

	_, err = e.EvalString("string.lua", `return "nfc"`)
	assert.ErrorContains(t, err, "expected a descriptor table")

	_, err = e.EvalString("list.lua", `return { "a", "b" }`)
	assert.ErrorContains(t, err, "named fields")
}

func TestEvalIsolatesState(t *testing.T) {
	e := NewEvaluator(nil)
	_, err := e.EvalString("a.lua", `leaked = true; return { name = "a" }`)
	require.NoError(t, err)

	mods, err := e.EvalString("b.lua", `return { name = tostring(leaked) }`)
	require.NoError(t, err)
	assert.Equal(t, "nil", mods[0]["name"])
}

func TestConvertSkipsPrivateKeys(t *testing.T) {
	mods, err := NewEvaluator(nil).EvalString("private.lua", `return { name = "x", _cache = 1, weight = 2 }`)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"name": "x", "weight": float64(2)}, mods[0])
}

func TestConvertRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"sparse", `return { name = "x", routes = { [2^40] = {} } }`, "routes: sparse list"},
		{"gap", `return { name = "x", routes = { [1] = {}, [3] = {} } }`, "sparse list"},
		{"fractional", `return { name = "x", routes = { [1.5] = {} } }`, "unsupported key"},
		{"mixed", `return { name = "x", routes = { {}, extra = 1 } }`, "mixes list items"},
		{"cycle", `local t = { name = "x" }; t.self = t; return t`, "contains itself"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEvaluator(nil).EvalString(tt.name+".lua", tt.code)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.name+".lua")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConvertNestedPaths(t *testing.T) {
	_, err := NewEvaluator(nil).EvalString("nested.lua", `return { name = "x", routes = { { name = "r", components = { [0] = "A" } } } }`)
	assert.ErrorContains(t, err, "routes[1].components: unsupported key 0")
}

func TestConvertSharedTableIsNotACycle(t *testing.T) {
	mods, err := NewEvaluator(nil).EvalString("shared.lua", `
local slots = { default = "A" }
return { name = "x", routes = { { name = "a", components = slots }, { name = "b", components = slots } } }
`)
	require.NoError(t, err)
	routes := mods[0]["routes"].([]interface{})
	assert.Len(t, routes, 2)
}

func TestEvalTimeout(t *testing.T) {
	e := NewEvaluator(nil)
	e.timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := e.EvalString("spin.lua", `while true do end`)
	require.Error(t, err)
	assert.ErrorContains(t, err, "spin.lua")
	assert.Less(t, time.Since(start), 5*time.Second)
}
