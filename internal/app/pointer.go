package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

func (app *Application) handleMouse(ev *tcell.EventMouse) {
	mev, ok := app.decoder.Decode(ev)
	if !ok {
		return
	}

	switch mev.Action {
	case mouse.ActionPress:
		switch mev.Button {
		case mouse.ButtonScrollUp:
			app.view.scroll(-1)
		case mouse.ButtonScrollDown:
			app.view.scroll(1)
		case mouse.ButtonLeft:
			app.press(mev)
		}
	case mouse.ActionDrag:
		if mev.Button == mouse.ButtonLeft {
			app.drag.Move(mev.Position)
		}
	case mouse.ActionRelease:
		if mev.Button == mouse.ButtonLeft {
			app.release(mev.Position)
		}
	}
}

// press selects the row under the pointer and arms a drag. A double click
// enters interaction mode instead.
func (app *Application) press(ev mouse.Event) {
	click := app.clicks.Record(ev)

	if kind, ok := app.view.paletteAt(ev.Position); ok {
		app.drag.Press(dnd.PaletteSource(kind, nil), ev.Position)
		return
	}

	r, ok := app.view.rowAt(ev.Position)
	if !ok {
		if ev.Position.Y >= bodyTop {
			app.store.Select("")
		}
		return
	}
	app.store.Select(r.id)
	if click == mouse.ClickDouble {
		if app.store.SetInteracting(r.id) {
			app.setStatus("editing " + r.id)
		}
		return
	}
	app.drag.Press(dnd.InstanceSource(r.id), ev.Position)
}

func (app *Application) release(pos mouse.Position) {
	res := app.drag.Release(pos)
	switch res.Outcome {
	case dnd.Inserted:
		app.setStatus("inserted " + app.catalog.Name(res.Source.ComponentID))
	case dnd.Moved:
		app.setStatus("moved to " + res.Target.String())
	case dnd.Rejected:
		app.setStatus("cannot drop there")
	case dnd.Cancelled:
		app.setStatus("drop cancelled")
	}
}

// loseCapture abandons a gesture when the terminal loses focus.
func (app *Application) loseCapture() {
	app.decoder.Reset()
	app.clicks.Reset()
	if res := app.drag.LoseCapture(); res.Outcome == dnd.Cancelled {
		app.setStatus("drop cancelled")
	}
}
