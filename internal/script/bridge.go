package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// toGo converts a Lua value into its JSON-shaped Go form. Numbers become
// float64, sequences become []any and other tables map[string]any.
// Functions, userdata and cyclic references convert to nil.
func toGo(lv lua.LValue) any {
	return toGoVisited(lv, make(map[*lua.LTable]bool))
}

func toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	count, maxN := 0, 0
	sequence := true
	t.ForEach(func(k, _ lua.LValue) {
		count++
		n, ok := k.(lua.LNumber)
		if !ok || float64(n) != float64(int(n)) || n < 1 {
			sequence = false
			return
		}
		if int(n) > maxN {
			maxN = int(n)
		}
	})

	if sequence && count > 0 && count == maxN {
		out := make([]any, maxN)
		for i := 1; i <= maxN; i++ {
			out[i-1] = toGoVisited(t.RawGetInt(i), visited)
		}
		return out
	}

	out := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = kv.String()
		default:
			return
		}
		out[key] = toGoVisited(v, visited)
	})
	return out
}

// toLua converts a JSON-shaped Go value into a Lua value.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case int:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.CreateTable(len(val), 0)
		for i, item := range val {
			t.RawSetInt(i+1, toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	default:
		return lua.LString(fmt.Sprint(val))
	}
}

// nodeTable describes n without its subtree: children are listed by id.
func nodeTable(L *lua.LState, n *tree.Node) *lua.LTable {
	t := L.CreateTable(0, 4)
	t.RawSetString("id", lua.LString(n.InstanceID))
	t.RawSetString("kind", lua.LString(n.ComponentID))
	t.RawSetString("props", toLua(L, n.Props))
	t.RawSetString("children", childIDs(L, n))
	return t
}

func childIDs(L *lua.LState, n *tree.Node) *lua.LTable {
	t := L.CreateTable(len(n.Children), 0)
	for i, c := range n.Children {
		t.RawSetInt(i+1, lua.LString(c.InstanceID))
	}
	return t
}
