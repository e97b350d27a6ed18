package lua

import (
	"errors"
	"fmt"
	"math"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// toGo converts a descriptor value to plain Go values. A table whose keys are
// exactly 1..n becomes a slice and a table with names becomes a map. Names
// starting with "_" are skipped. Functions and userdata become nil.
func toGo(val lua.LValue) (interface{}, error) {
	c := converter{open: map[*lua.LTable]bool{}}
	return c.value(val, "")
}

type converter struct {
	open map[*lua.LTable]bool // tables on the current path
}

func (c *converter) value(val lua.LValue, at string) (interface{}, error) {
	switch v := val.(type) {
	case lua.LBool:
		return bool(v), nil
	case lua.LNumber:
		return float64(v), nil
	case lua.LString:
		return string(v), nil
	case *lua.LTable:
		if c.open[v] {
			return nil, fieldError(at, errors.New("table contains itself"))
		}
		c.open[v] = true
		defer delete(c.open, v)
		return c.table(v, at)
	default:
		return nil, nil
	}
}

func (c *converter) table(t *lua.LTable, at string) (interface{}, error) {
	var items int
	var maxIndex float64
	named := false
	var badKey lua.LValue
	t.ForEach(func(key, _ lua.LValue) {
		switch k := key.(type) {
		case lua.LNumber:
			n := float64(k)
			if n < 1 || n != math.Trunc(n) {
				badKey = key
				return
			}
			items++
			maxIndex = math.Max(maxIndex, n)
		case lua.LString:
			if !strings.HasPrefix(string(k), "_") {
				named = true
			}
		default:
			badKey = key
		}
	})

	switch {
	case badKey != nil:
		return nil, fieldError(at, fmt.Errorf("unsupported key %s", badKey.String()))
	case items > 0 && named:
		return nil, fieldError(at, errors.New("table mixes list items and named fields"))
	case items > 0 && float64(items) != maxIndex:
		return nil, fieldError(at, fmt.Errorf("sparse list: %d items, highest index %g", items, maxIndex))
	}

	if items > 0 {
		list := make([]interface{}, items)
		for i := 1; i <= items; i++ {
			v, err := c.value(t.RawGetInt(i), fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			list[i-1] = v
		}
		return list, nil
	}

	fields := make(map[string]interface{})
	var err error
	t.ForEach(func(key, value lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok || err != nil || strings.HasPrefix(string(name), "_") {
			return
		}
		path := string(name)
		if at != "" {
			path = at + "." + path
		}
		fields[string(name)], err = c.value(value, path)
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func fieldError(at string, err error) error {
	if at == "" {
		return err
	}
	return fmt.Errorf("%s: %w", at, err)
}
