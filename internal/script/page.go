package script

import (
	"errors"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

func (r *Runner) pageModule() *lua.LTable {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"insert":      r.insert,
		"move":        r.move,
		"remove":      r.remove,
		"duplicate":   r.duplicate,
		"update":      r.update,
		"select":      r.selectNode,
		"selected":    r.selected,
		"copy":        r.copyNode,
		"paste":       r.paste,
		"undo":        r.undo,
		"redo":        r.redo,
		"find":        r.find,
		"children":    r.children,
		"locate":      r.locate,
		"transaction": r.transaction,
	})
	mod.RawSetString("root", lua.LString(tree.RootID))
	return mod
}

// optPos reads an optional 1-based position at argument n and returns the
// 0-based index, or -1 when it is omitted.
func optPos(L *lua.LState, n int) int {
	if L.Get(n) == lua.LNil {
		return -1
	}
	pos := L.CheckInt(n)
	if pos < 1 {
		L.ArgError(n, "position must be 1 or greater")
	}
	return pos - 1
}

// propsArg reads a props table at argument n.
func propsArg(L *lua.LState, n int, required bool) map[string]any {
	var t *lua.LTable
	if required {
		t = L.CheckTable(n)
	} else {
		t = L.OptTable(n, nil)
	}
	if t == nil {
		return nil
	}
	props, ok := toGo(t).(map[string]any)
	if !ok {
		L.ArgError(n, "props must be keyed by name")
	}
	return props
}

func pushID(L *lua.LState, id string, ok bool) int {
	if !ok || id == "" {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(id))
	return 1
}

// page.insert(parent, kind [, props [, pos]]) -> id | nil
func (r *Runner) insert(L *lua.LState) int {
	parent := L.CheckString(1)
	kind := L.CheckString(2)
	props := propsArg(L, 3, false)
	index := optPos(L, 4)
	id, ok := r.store.InsertTemplate(parent, kind, props, index)
	return pushID(L, id, ok)
}

// page.move(id, parent [, pos]) -> bool
func (r *Runner) move(L *lua.LState) int {
	id := L.CheckString(1)
	parent := L.CheckString(2)
	index := optPos(L, 3)
	L.Push(lua.LBool(r.store.Move(id, parent, index)))
	return 1
}

// page.remove(id) -> bool
func (r *Runner) remove(L *lua.LState) int {
	L.Push(lua.LBool(r.store.Remove(L.CheckString(1))))
	return 1
}

// page.duplicate(id) -> id | nil
func (r *Runner) duplicate(L *lua.LState) int {
	id, ok := r.store.Duplicate(L.CheckString(1))
	return pushID(L, id, ok)
}

// page.update(id, props) -> bool
func (r *Runner) update(L *lua.LState) int {
	id := L.CheckString(1)
	props := propsArg(L, 2, true)
	L.Push(lua.LBool(r.store.UpdateProps(id, props)))
	return 1
}

// page.select([id]) -> bool
func (r *Runner) selectNode(L *lua.LState) int {
	L.Push(lua.LBool(r.store.Select(L.OptString(1, ""))))
	return 1
}

// page.selected() -> id | nil
func (r *Runner) selected(L *lua.LState) int {
	id := r.store.Selected()
	return pushID(L, id, id != "")
}

// page.copy(id) -> bool
func (r *Runner) copyNode(L *lua.LState) int {
	L.Push(lua.LBool(r.store.Copy(L.CheckString(1))))
	return 1
}

// page.paste([parent [, pos]]) -> id | nil
func (r *Runner) paste(L *lua.LState) int {
	parent := L.OptString(1, tree.RootID)
	index := optPos(L, 2)
	id, ok := r.store.Paste(parent, index)
	return pushID(L, id, ok)
}

// page.undo() -> bool
func (r *Runner) undo(L *lua.LState) int {
	if r.txDepth > 0 {
		L.RaiseError("%s", ErrNestedUndo.Error())
	}
	L.Push(lua.LBool(r.store.Undo()))
	return 1
}

// page.redo() -> bool
func (r *Runner) redo(L *lua.LState) int {
	if r.txDepth > 0 {
		L.RaiseError("%s", ErrNestedUndo.Error())
	}
	L.Push(lua.LBool(r.store.Redo()))
	return 1
}

// page.find(id) -> table | nil
func (r *Runner) find(L *lua.LState) int {
	n := r.store.Find(L.CheckString(1))
	if n == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(nodeTable(L, n))
	return 1
}

// page.children(id) -> {id, ...} | nil
func (r *Runner) children(L *lua.LState) int {
	n := r.store.Find(L.CheckString(1))
	if n == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(childIDs(L, n))
	return 1
}

// page.locate(id) -> parent, pos | nil
func (r *Runner) locate(L *lua.LState) int {
	parent, index, ok := r.store.Locate(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(parent))
	L.Push(lua.LNumber(index + 1))
	return 2
}

// page.transaction(name, fn)
func (r *Runner) transaction(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	// Nested transactions join the outer one.
	if r.txDepth > 0 {
		L.Push(fn)
		L.Call(0, 0)
		return 0
	}

	r.txDepth++
	err := r.store.Transaction(name, func() error {
		L.Push(fn)
		return L.PCall(0, 0, nil)
	})
	r.txDepth--

	if err != nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) && apiErr.Object != nil {
			L.Error(apiErr.Object, 0)
		}
		L.RaiseError("%s", err.Error())
	}
	return 0
}
