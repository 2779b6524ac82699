package app

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

var (
	stylePalette  = tcell.StyleDefault.Reverse(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleEditing  = styleSelected.Bold(true).Underline(true)
	styleTarget   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleDragged  = tcell.StyleDefault.Dim(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
	styleError    = styleStatus.Foreground(tcell.ColorRed)
)

// draw renders the palette, the outline and the status line.
func (app *Application) draw() {
	s := app.screen
	if s == nil {
		return
	}
	s.Clear()
	width, height := s.Size()

	app.drawPalette(width)

	selected := app.store.Selected()
	rows := flatten(app.store.Tree(), app.catalog)
	app.view.layout(rows, width, height-2, selected)
	app.drag.SetZoneMap(app.view.zones)

	interacting := app.store.Interacting()
	target, over := app.drag.Target()
	dragging := ""
	if app.drag.State() == dnd.Dragging {
		if src, ok := app.drag.Source(); ok {
			dragging = src.InstanceID
		}
	}

	for i, r := range app.view.visible() {
		y := bodyTop + i
		style := tcell.StyleDefault
		switch {
		case r.id == interacting:
			style = styleEditing
		case r.id == selected:
			style = styleSelected
		case over && r.id == target.ParentID:
			style = styleTarget
		case dragging != "" && r.id == dragging:
			style = styleDragged
		}
		marker := "  "
		if r.container {
			marker = "▸ "
		}
		line := strings.Repeat(" ", r.depth*indentWidth) + marker + r.label
		if r.id == selected {
			fill(s, 0, y, width, style)
		}
		drawText(s, 0, y, width, line, style)
	}

	app.drawStatus(width, height-1)
	s.Show()
}

func (app *Application) drawPalette(width int) {
	s := app.screen
	fill(s, 0, paletteLine, width, stylePalette)
	app.view.palette = app.view.palette[:0]

	x := 0
	for i, schema := range app.palette {
		label := schema.Name
		if d, ok := digitFor(i); ok {
			label = fmt.Sprintf("%c %s", d, schema.Name)
		}
		start := x + 1
		end := drawText(s, start, paletteLine, width, label, stylePalette)
		if end <= start {
			break
		}
		app.view.palette = append(app.view.palette, paletteEntry{
			bounds: mouse.RectAt(start, paletteLine, end-start, 1),
			kind:   schema.ID,
		})
		x = end
	}
}

func (app *Application) drawStatus(width, y int) {
	s := app.screen
	if y < bodyTop {
		return
	}
	fill(s, 0, y, width, styleStatus)

	name := app.docs.Path()
	if app.store.IsDirty() {
		name += " [+]"
	}
	mode := string(app.store.ResponsiveMode())
	if app.store.Preview() {
		mode += " preview"
	}
	left := fmt.Sprintf(" %s | %s", name, mode)
	x := drawText(s, 0, y, width, left, styleStatus)

	style := styleStatus
	msg := app.Status()
	if err := app.saver.Status().LastError; err != nil {
		msg, style = "autosave failed: "+err.Error(), styleError
	}
	if msg != "" {
		drawText(s, x+3, y, width, msg, style)
	}
}

// drawText writes text at (x, y) without passing maxX and returns the
// column after the last cell written.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	state := -1
	for text != "" && x < maxX {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if width == 0 {
			continue
		}
		if x+width > maxX {
			break
		}
		runes := []rune(cluster)
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += width
	}
	return x
}

func fill(s tcell.Screen, x, y, maxX int, style tcell.Style) {
	for ; x < maxX; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

// digitFor returns the key that inserts the i-th palette kind.
func digitFor(i int) (rune, bool) {
	switch {
	case i < 9:
		return rune('1' + i), true
	case i == 9:
		return '0', true
	}
	return 0, false
}

// paletteIndex is the inverse of digitFor.
func paletteIndex(r rune) (int, bool) {
	switch {
	case r >= '1' && r <= '9':
		return int(r - '1'), true
	case r == '0':
		return 9, true
	}
	return 0, false
}
