package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagecraft/internal/input/mouse"
)

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		name  string
		ev    *tcell.EventKey
		chord string
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{"shifted rune", tcell.NewEventKey(tcell.KeyRune, 'A', tcell.ModShift), "A"},
		{"control code", tcell.NewEventKey(tcell.KeyCtrlZ, 0, tcell.ModCtrl), "<C-z>"},
		{"control shift letter", tcell.NewEventKey(tcell.KeyRune, 'Z', tcell.ModCtrl), "<C-S-z>"},
		{"meta letter", tcell.NewEventKey(tcell.KeyRune, 'y', tcell.ModMeta), "<D-y>"},
		{"delete", tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "<Del>"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>"},
		{"shift arrow", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), "<S-Up>"},
		{"function key", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone), "<F5>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := KeyEvent(tt.ev)
			require.True(t, ok)
			assert.Equal(t, tt.chord, ev.Chord())
		})
	}
}

func TestModifiers(t *testing.T) {
	m := Modifiers(tcell.ModCtrl | tcell.ModShift)
	assert.Equal(t, "Ctrl+Shift", m.String())
	assert.Zero(t, Modifiers(tcell.ModNone))
}

func TestMouseDecoder(t *testing.T) {
	var d MouseDecoder

	ev, ok := d.Decode(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ActionPress, ev.Action)
	assert.Equal(t, mouse.ButtonLeft, ev.Button)
	assert.Equal(t, mouse.Pos(1, 1), ev.Position)
	assert.Equal(t, mouse.ButtonLeft, d.Held())

	_, ok = d.Decode(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone))
	assert.False(t, ok, "held without moving")

	ev, ok = d.Decode(tcell.NewEventMouse(3, 1, tcell.Button1, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ActionDrag, ev.Action)
	assert.Equal(t, mouse.ButtonLeft, ev.Button)

	ev, ok = d.Decode(tcell.NewEventMouse(3, 1, tcell.ButtonNone, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ActionRelease, ev.Action)
	assert.Equal(t, mouse.ButtonLeft, ev.Button)
	assert.Equal(t, mouse.ButtonNone, d.Held())

	ev, ok = d.Decode(tcell.NewEventMouse(4, 2, tcell.ButtonNone, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ActionMove, ev.Action)

	_, ok = d.Decode(tcell.NewEventMouse(4, 2, tcell.ButtonNone, tcell.ModNone))
	assert.False(t, ok)

	ev, ok = d.Decode(tcell.NewEventMouse(4, 2, tcell.WheelDown, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ButtonScrollDown, ev.Button)
	assert.Equal(t, mouse.ActionPress, ev.Action)
	assert.Equal(t, mouse.ButtonNone, d.Held())
}

func TestMouseDecoderReset(t *testing.T) {
	var d MouseDecoder
	_, ok := d.Decode(tcell.NewEventMouse(0, 0, tcell.Button2, tcell.ModNone))
	require.True(t, ok)
	assert.Equal(t, mouse.ButtonRight, d.Held())
	d.Reset()
	assert.Equal(t, mouse.ButtonNone, d.Held())
}
