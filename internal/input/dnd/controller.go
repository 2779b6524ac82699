package dnd

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

// Option configures a Controller.
type Option func(*Controller)

// WithThreshold sets the pointer travel that starts a drag. Zero starts a
// drag on the first move.
func WithThreshold(cells int) Option {
	return func(c *Controller) {
		if cells >= 0 {
			c.threshold = cells
		}
	}
}

// WithZoneMap resolves targets from pointer positions during Move.
func WithZoneMap(zones ZoneMap) Option {
	return func(c *Controller) {
		c.zones = zones
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger.With().Str("component", "dnd").Logger()
	}
}

// Controller tracks one pointer gesture at a time.
type Controller struct {
	mu        sync.Mutex
	editor    Editor
	zones     ZoneMap
	threshold int
	logger    zerolog.Logger

	state  State
	source Source
	start  mouse.Position
	pos    mouse.Position
	target Target
	over   bool
}

// NewController creates an idle controller driving editor.
func NewController(editor Editor, opts ...Option) *Controller {
	c := &Controller{
		editor:    editor,
		threshold: DefaultThreshold,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetZoneMap replaces the zone map, typically after each redraw.
func (c *Controller) SetZoneMap(zones ZoneMap) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zones = zones
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Source returns the pressed or dragged source.
func (c *Controller) Source() (Source, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source, c.state != Idle
}

// Target returns the target under the pointer during a drag.
func (c *Controller) Target() (Target, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.over
}

// Position returns the last pointer position.
func (c *Controller) Position() mouse.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

// Press records a press on src. It is ignored unless the controller is
// idle and src names something draggable.
func (c *Controller) Press(src Source, pos mouse.Position) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle || !src.Valid() {
		return false
	}
	if src.Kind == FromInstance && c.editor.Find(src.InstanceID) == nil {
		c.logger.Debug().Str("source", src.String()).Msg("press: unknown instance")
		return false
	}
	c.state = Pressed
	c.source = src
	c.start = pos
	c.pos = pos
	return true
}

// Move updates the pointer. A press becomes a drag once the pointer has
// travelled the threshold. While dragging with a zone map, the target
// under the pointer is entered and left automatically. It returns the
// state after the move.
func (c *Controller) Move(pos mouse.Position) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pos = pos
	switch c.state {
	case Pressed:
		if pos.Distance(c.start) < c.threshold {
			return c.state
		}
		c.state = Dragging
		c.logger.Debug().Str("source", c.source.String()).Msg("drag start")
		c.trackLocked(pos)
	case Dragging:
		c.trackLocked(pos)
	}
	return c.state
}

func (c *Controller) trackLocked(pos mouse.Position) {
	if c.zones == nil {
		return
	}
	t, ok := c.zones.TargetAt(pos)
	if !ok {
		c.over = false
		c.target = Target{}
		return
	}
	if !c.over || t != c.target {
		c.enterLocked(t)
	}
}

// Enter marks t as the target under the pointer. Targets that cannot
// receive the source are refused, leaving no target.
func (c *Controller) Enter(t Target) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Dragging {
		return false
	}
	return c.enterLocked(t)
}

func (c *Controller) enterLocked(t Target) bool {
	if !c.acceptsLocked(t) {
		c.over = false
		c.target = Target{}
		return false
	}
	c.target = t
	c.over = true
	return true
}

func (c *Controller) acceptsLocked(t Target) bool {
	parent := c.editor.Find(t.ParentID)
	if parent == nil || !adopts(c.editor, parent) {
		return false
	}
	if c.source.Kind == FromInstance {
		id := c.source.InstanceID
		if t.ParentID == id || c.editor.Contains(id, t.ParentID) {
			return false
		}
		if from, _, ok := c.editor.Locate(id); ok && tree.IsMultiZone(c.editor.Find(from).ComponentID) {
			return false
		}
	}
	return true
}

// adopts reports whether n takes dropped children. Zone lists only change
// through their zone prop.
func adopts(e Editor, n *tree.Node) bool {
	return e.AcceptsChildren(n.ComponentID) && !tree.IsMultiZone(n.ComponentID)
}

// Leave clears t if it is the current target.
func (c *Controller) Leave(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.over && c.target == t {
		c.over = false
		c.target = Target{}
	}
}

// Release ends the gesture. Released over a target, the drop is applied
// to the editor; released anywhere else a drag is cancelled. A press that
// never became a drag ends with outcome None.
func (c *Controller) Release(pos mouse.Position) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pos = pos
	switch c.state {
	case Idle:
		return Result{}
	case Pressed:
		res := Result{Outcome: None, Source: c.source, InstanceID: c.source.InstanceID}
		c.resetLocked()
		return res
	}
	if c.zones != nil {
		c.trackLocked(pos)
	}
	if !c.over {
		return c.cancelLocked("released outside any target")
	}
	res := c.dropLocked()
	c.resetLocked()
	return res
}

// Cancel aborts the gesture, for example on Escape.
func (c *Controller) Cancel() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked("cancelled")
}

// LoseCapture aborts the gesture when the pointer is lost.
func (c *Controller) LoseCapture() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelLocked("lost capture")
}

func (c *Controller) cancelLocked(reason string) Result {
	if c.state == Idle {
		return Result{}
	}
	res := Result{Outcome: Cancelled, Source: c.source}
	if c.state == Pressed {
		res.Outcome = None
	}
	c.logger.Debug().Str("source", c.source.String()).Str("reason", reason).Msg("drag end")
	c.resetLocked()
	return res
}

func (c *Controller) dropLocked() Result {
	src, t := c.source, c.target
	res := Result{Source: src, Target: t, Outcome: Rejected}

	switch src.Kind {
	case FromPalette:
		id, ok := c.editor.InsertTemplate(t.ParentID, src.ComponentID, src.Props, t.Index)
		if ok {
			c.editor.Select(id)
			res.Outcome, res.InstanceID = Inserted, id
		}
	case FromInstance:
		res.InstanceID = src.InstanceID
		index := FinalIndex(c.editor, src.InstanceID, t)
		if parentID, cur, ok := c.editor.Locate(src.InstanceID); ok && parentID == t.ParentID && cur == index {
			res.Outcome = Cancelled
			break
		}
		if c.editor.Move(src.InstanceID, t.ParentID, index) {
			res.Outcome = Moved
		}
	}

	c.logger.Debug().
		Str("source", src.String()).
		Str("target", t.String()).
		Str("outcome", res.Outcome.String()).
		Msg("drop")
	return res
}

func (c *Controller) resetLocked() {
	c.state = Idle
	c.source = Source{}
	c.target = Target{}
	c.over = false
	c.start = mouse.Position{}
}

// FinalIndex converts a drop slot into the index the node will have after
// it is detached from its current position. Slots after the node's own
// position in the same parent shift down by one.
func FinalIndex(editor Editor, id string, t Target) int {
	parentID, index, ok := editor.Locate(id)
	if ok && parentID == t.ParentID && index < t.Index {
		return t.Index - 1
	}
	return t.Index
}
