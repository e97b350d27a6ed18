// Package lua evaluates module descriptors written in Lua.
//
// A descriptor file either returns a table or calls shell.module once per module:
//
//	local shell = require("shell")
//	return {
//	  name = "nfc-test",
//	  drawer = "DrawerItems",
//	  routes = {
//	    { name = "nfc-test", path = "/nfc",
//	      components = { [shell.DEFAULT] = "NFC", [shell.MENUBAR] = "NFCMenuBar" } },
//	  },
//	}
package lua

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/zot/ui-shell/internal/config"
	"github.com/zot/ui-shell/internal/descriptor"
)

// evalTimeout bounds how long one descriptor file may run.
const evalTimeout = 5 * time.Second

// Evaluator runs descriptor files in a fresh Lua state each time.
type Evaluator struct {
	config  *config.Config
	timeout time.Duration
}

// NewEvaluator creates an evaluator. cfg may be nil.
func NewEvaluator(cfg *config.Config) *Evaluator {
	return &Evaluator{config: cfg, timeout: evalTimeout}
}

// Log logs a message via the config.
func (e *Evaluator) Log(level int, format string, args ...interface{}) {
	if e.config != nil {
		e.config.Log(level, format, args...)
	}
}

// EvalFile runs a Lua file and returns one generic map per declared module.
func (e *Evaluator) EvalFile(path string) ([]map[string]interface{}, error) {
	return e.eval(path, func(L *lua.LState) error { return L.DoFile(path) })
}

// EvalString runs Lua source; name is used in error messages.
func (e *Evaluator) EvalString(name, code string) ([]map[string]interface{}, error) {
	return e.eval(name, func(L *lua.LState) error { return L.DoString(code) })
}

func (e *Evaluator) eval(name string, run func(L *lua.LState) error) ([]map[string]interface{}, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	L.SetContext(ctx)

	lua.OpenBase(L)
	lua.OpenPackage(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	var declared []*lua.LTable
	e.registerShellModule(L, name, &declared)

	top := L.GetTop()
	if err := run(L); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	var tables []*lua.LTable
	if len(declared) > 0 {
		tables = declared
	} else if L.GetTop() > top {
		tbl, ok := L.Get(-1).(*lua.LTable)
		if !ok {
			return nil, fmt.Errorf("%s: expected a descriptor table, got %s", name, L.Get(-1).Type())
		}
		tables = []*lua.LTable{tbl}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%s: no module declared", name)
	}

	out := make([]map[string]interface{}, 0, len(tables))
	for _, tbl := range tables {
		v, err := toGo(tbl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: descriptor must be a table with named fields", name)
		}
		out = append(out, m)
	}
	return out, nil
}

// registerShellModule preloads require("shell") and sets the same table as a global.
func (e *Evaluator) registerShellModule(L *lua.LState, name string, declared *[]*lua.LTable) {
	mod := L.NewTable()
	L.SetField(mod, "DEFAULT", lua.LString(descriptor.SlotDefault))
	L.SetField(mod, "MENUBAR", lua.LString(descriptor.SlotMenuBar))

	// shell.module(table) declares a module and returns the table unchanged
	L.SetField(mod, "module", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		*declared = append(*declared, tbl)
		L.Push(tbl)
		return 1
	}))

	// shell.log([level,] message)
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		level := 0
		msg := ""
		if L.GetTop() == 1 {
			msg = L.CheckString(1)
		} else {
			level = L.CheckInt(1)
			msg = L.CheckString(2)
		}
		e.Log(level, "[lua %s] %s", name, msg)
		return 0
	}))

	L.PreloadModule("shell", func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	L.SetGlobal("shell", mod)
}
