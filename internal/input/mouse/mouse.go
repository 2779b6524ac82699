package mouse

import (
	"time"

	"github.com/dshills/pagecraft/internal/input/key"
)

// Button identifies a mouse button. The wheel reports as two buttons.
type Button uint8

// Buttons.
const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
)

var buttonNames = [...]string{"none", "left", "middle", "right", "scroll-up", "scroll-down"}

func (b Button) String() string {
	if int(b) < len(buttonNames) {
		return buttonNames[b]
	}
	return buttonNames[ButtonNone]
}

// IsScroll reports whether b is a wheel direction.
func (b Button) IsScroll() bool {
	return b == ButtonScrollUp || b == ButtonScrollDown
}

// Action is what happened to the pointer.
type Action uint8

// Actions. A drag is a move with a button held.
const (
	ActionNone Action = iota
	ActionPress
	ActionRelease
	ActionMove
	ActionDrag
)

var actionNames = [...]string{"none", "press", "release", "move", "drag"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return actionNames[ActionNone]
}

// Position is a cell on screen; X grows right, Y grows down.
type Position struct {
	X, Y int
}

// Pos returns Position{x, y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Equal reports whether p and q are the same cell.
func (p Position) Equal(q Position) bool {
	return p == q
}

// Distance is the Manhattan distance between p and q, in cells.
func (p Position) Distance(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Rect is a screen region from Min (inclusive) to Max (exclusive).
type Rect struct {
	Min, Max Position
}

// RectAt returns the w by h rect whose top-left cell is (x, y).
func RectAt(x, y, w, h int) Rect {
	return Rect{Min: Pos(x, y), Max: Pos(x+w, y+h)}
}

// Contains reports whether p lies in r. An empty rect contains nothing.
func (r Rect) Contains(p Position) bool {
	return r.Min.X <= p.X && p.X < r.Max.X &&
		r.Min.Y <= p.Y && p.Y < r.Max.Y
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Event is one decoded pointer report.
type Event struct {
	Position  Position
	Button    Button
	Modifiers key.Modifier
	Action    Action
	Timestamp time.Time
}
