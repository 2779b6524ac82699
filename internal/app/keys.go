package app

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/editor"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/key"
	"github.com/dshills/pagecraft/internal/input/shortcut"
	"github.com/dshills/pagecraft/internal/input/term"
)

var responsiveCycle = []editor.ResponsiveMode{editor.Desktop, editor.Tablet, editor.Mobile}

func (app *Application) handleKey(ev *tcell.EventKey) {
	k, ok := term.KeyEvent(ev)
	if !ok {
		return
	}

	app.mu.Lock()
	app.confirmQuit, app.quitArmed = app.quitArmed, false
	app.mu.Unlock()

	if k.Key == key.KeyEscape && app.drag.State() != dnd.Idle {
		app.drag.Cancel()
		app.setStatus("drag cancelled")
		return
	}
	if app.router.Handle(k, app.focus()) {
		return
	}
	app.navigate(k)
}

// focus reports interaction mode as a focused text field: the node's own
// content has the keyboard.
func (app *Application) focus() shortcut.Focus {
	return shortcut.Focus{InTextField: app.store.Interacting() != ""}
}

// navigate handles the outline keys the router does not claim.
func (app *Application) navigate(k key.Event) {
	switch {
	case k.Key == key.KeyUp && k.Modifiers.Has(key.ModAlt):
		app.shift(-1)
	case k.Key == key.KeyDown && k.Modifiers.Has(key.ModAlt):
		app.shift(1)
	case k.Key == key.KeyUp:
		app.step(-1)
	case k.Key == key.KeyDown:
		app.step(1)
	case k.Key == key.KeyHome:
		app.selectRow(0)
	case k.Key == key.KeyEnd:
		app.selectRow(len(app.rows()) - 1)
	case k.Key == key.KeyLeft:
		if parent, _, ok := app.store.Locate(app.store.Selected()); ok {
			app.store.Select(parent)
		}
	case k.Key == key.KeyRight:
		if n := app.store.Find(app.store.Selected()); n != nil && len(n.Children) > 0 {
			app.store.Select(n.Children[0].InstanceID)
		}
	case k.Key == key.KeyEnter:
		if id := app.store.Selected(); id != "" && app.store.SetInteracting(id) {
			app.setStatus("editing " + id)
		}
	case k.Key == key.KeyF2:
		app.cycleResponsive()
	case k.Key == key.KeyF5:
		app.store.SetPreview(!app.store.Preview())
	case k.IsChar() && app.store.Interacting() == "":
		if i, ok := paletteIndex(k.Rune); ok && i < len(app.palette) {
			app.insert(app.palette[i].ID)
		}
	}
}

func (app *Application) rows() []row {
	return flatten(app.store.Tree(), app.catalog)
}

// step selects the row delta rows away from the selection.
func (app *Application) step(delta int) {
	rows := app.rows()
	i := -1
	for j, r := range rows {
		if r.id == app.store.Selected() {
			i = j
			break
		}
	}
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(rows) - 1
	default:
		i += delta
	}
	app.selectRow(i)
}

func (app *Application) selectRow(i int) {
	rows := app.rows()
	if i < 0 || i >= len(rows) {
		return
	}
	app.store.Select(rows[i].id)
}

// shift moves the selected node among its siblings.
func (app *Application) shift(delta int) {
	id := app.store.Selected()
	parent, index, ok := app.store.Locate(id)
	if !ok || index+delta < 0 {
		return
	}
	app.store.Move(id, parent, index+delta)
}

// insert adds a kind next to the selection: inside it when it takes
// children, otherwise after it. Zone lists count as leaves here. Without a
// selection the page gets it.
func (app *Application) insert(kind string) {
	parent, index := tree.RootID, -1
	if sel := app.store.Find(app.store.Selected()); sel != nil {
		if app.store.AcceptsChildren(sel.ComponentID) && !tree.IsMultiZone(sel.ComponentID) {
			parent = sel.InstanceID
		} else if p, i, ok := app.store.Locate(sel.InstanceID); ok {
			parent, index = p, i+1
		}
	}

	id, ok := app.store.InsertTemplate(parent, kind, nil, index)
	if !ok {
		app.setStatus(fmt.Sprintf("cannot insert %s here", kind))
		return
	}
	app.store.Select(id)
	app.setStatus("inserted " + app.catalog.Name(kind))
}

func (app *Application) cycleResponsive() {
	current := app.store.ResponsiveMode()
	for i, m := range responsiveCycle {
		if m == current {
			app.store.SetResponsiveMode(responsiveCycle[(i+1)%len(responsiveCycle)])
			return
		}
	}
	app.store.SetResponsiveMode(editor.Desktop)
}
