package term

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/input/mouse"
)

// MouseDecoder turns tcell's button-state reports into mouse actions.
// It is not safe for concurrent use.
type MouseDecoder struct {
	held mouse.Button
	last mouse.Position
}

// Decode converts ev. Scroll wheel reports become a press of the wheel
// button. The second result is false for reports that carry no change.
func (d *MouseDecoder) Decode(ev *tcell.EventMouse) (mouse.Event, bool) {
	x, y := ev.Position()
	pos := mouse.Pos(x, y)
	out := mouse.Event{
		Position:  pos,
		Modifiers: Modifiers(ev.Modifiers()),
		Timestamp: ev.When(),
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = time.Now()
	}

	btn := Button(ev.Buttons())
	moved := !pos.Equal(d.last)
	d.last = pos

	switch {
	case btn.IsScroll():
		out.Button, out.Action = btn, mouse.ActionPress
	case btn != mouse.ButtonNone && d.held == mouse.ButtonNone:
		d.held = btn
		out.Button, out.Action = btn, mouse.ActionPress
	case btn != mouse.ButtonNone:
		if !moved {
			return out, false
		}
		out.Button, out.Action = d.held, mouse.ActionDrag
	case d.held != mouse.ButtonNone:
		out.Button, out.Action = d.held, mouse.ActionRelease
		d.held = mouse.ButtonNone
	default:
		if !moved {
			return out, false
		}
		out.Action = mouse.ActionMove
	}
	return out, true
}

// Held returns the button currently held down.
func (d *MouseDecoder) Held() mouse.Button {
	return d.held
}

// Reset forgets any held button, for example after focus loss.
func (d *MouseDecoder) Reset() {
	d.held = mouse.ButtonNone
}

// Button converts a tcell button mask to the primary button it holds.
func Button(b tcell.ButtonMask) mouse.Button {
	switch {
	case b&tcell.Button1 != 0:
		return mouse.ButtonLeft
	case b&tcell.Button2 != 0:
		return mouse.ButtonRight
	case b&tcell.Button3 != 0:
		return mouse.ButtonMiddle
	case b&tcell.WheelUp != 0:
		return mouse.ButtonScrollUp
	case b&tcell.WheelDown != 0:
		return mouse.ButtonScrollDown
	default:
		return mouse.ButtonNone
	}
}
