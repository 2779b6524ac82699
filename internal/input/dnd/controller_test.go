package dnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagecraft/internal/editor"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

func newStore(t *testing.T) *editor.Store {
	t.Helper()
	return editor.New(nil, editor.WithIDs(tree.NewSequence("n")))
}

func insert(t *testing.T, s *editor.Store, parentID, kind string) string {
	t.Helper()
	id, ok := s.InsertTemplate(parentID, kind, nil, -1)
	require.True(t, ok)
	return id
}

func rootIDs(s *editor.Store) []string {
	var ids []string
	for _, c := range s.Tree().Root().Children {
		ids = append(ids, c.InstanceID)
	}
	return ids
}

// drag presses src and moves far enough to start dragging.
func drag(t *testing.T, c *Controller, src Source) {
	t.Helper()
	require.True(t, c.Press(src, mouse.Pos(0, 0)))
	require.Equal(t, Dragging, c.Move(mouse.Pos(10, 0)))
}

func TestPaletteDropInsertsAndSelects(t *testing.T) {
	s := newStore(t)
	c := NewController(s)

	require.True(t, c.Press(PaletteSource("heading", map[string]any{"text": "Hi"}), mouse.Pos(0, 0)))
	assert.Equal(t, Pressed, c.State())
	assert.Equal(t, Pressed, c.Move(mouse.Pos(1, 2)), "below threshold")
	assert.Equal(t, Dragging, c.Move(mouse.Pos(2, 2)))

	require.True(t, c.Enter(Target{ParentID: tree.RootID, Index: 0}))
	res := c.Release(mouse.Pos(2, 2))

	assert.Equal(t, Inserted, res.Outcome)
	require.NotEmpty(t, res.InstanceID)
	n := s.Find(res.InstanceID)
	require.NotNil(t, n)
	assert.Equal(t, "heading", n.ComponentID)
	text, _ := n.Prop("text")
	level, _ := n.Prop("level")
	assert.Equal(t, "Hi", text)
	assert.Equal(t, float64(2), level, "template defaults are kept")
	assert.Equal(t, res.InstanceID, s.Selected())
	assert.Equal(t, Idle, c.State())
}

func TestPaletteDropCreatesZones(t *testing.T) {
	s := newStore(t)
	c := NewController(s)

	drag(t, c, PaletteSource(tree.GridComponentID, map[string]any{"columns": 3}))
	require.True(t, c.Enter(Target{ParentID: tree.RootID, Index: 0}))
	res := c.Release(mouse.Pos(10, 0))

	require.Equal(t, Inserted, res.Outcome)
	assert.Len(t, s.Find(res.InstanceID).Children, 3)
}

func TestClickIsNotADrag(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	c := NewController(s)

	require.True(t, c.Press(InstanceSource(a), mouse.Pos(5, 5)))
	res := c.Release(mouse.Pos(6, 5))

	assert.Equal(t, None, res.Outcome)
	assert.Equal(t, a, res.InstanceID)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []string{a}, rootIDs(s))
}

func TestInstanceReorder(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	b := insert(t, s, tree.RootID, "text")
	cc := insert(t, s, tree.RootID, "text")
	c := NewController(s)

	drag(t, c, InstanceSource(a))
	require.True(t, c.Enter(Target{ParentID: tree.RootID, Index: 3}))
	res := c.Release(mouse.Pos(10, 0))
	assert.Equal(t, Moved, res.Outcome)
	assert.Equal(t, []string{b, cc, a}, rootIDs(s))

	drag(t, c, InstanceSource(a))
	require.True(t, c.Enter(Target{ParentID: tree.RootID, Index: 0}))
	assert.Equal(t, Moved, c.Release(mouse.Pos(10, 0)).Outcome)
	assert.Equal(t, []string{a, b, cc}, rootIDs(s))

	require.True(t, s.Undo())
	assert.Equal(t, []string{b, cc, a}, rootIDs(s))
}

func TestDropOnOwnSlotIsCancelled(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	b := insert(t, s, tree.RootID, "text")
	before, _ := s.PeekUndo()
	c := NewController(s)

	for _, slot := range []int{0, 1} {
		drag(t, c, InstanceSource(a))
		require.True(t, c.Enter(Target{ParentID: tree.RootID, Index: slot}))
		assert.Equal(t, Cancelled, c.Release(mouse.Pos(10, 0)).Outcome)
	}

	assert.Equal(t, []string{a, b}, rootIDs(s))
	after, _ := s.PeekUndo()
	assert.Equal(t, before, after)
}

func TestCrossParentMove(t *testing.T) {
	s := newStore(t)
	sec := insert(t, s, tree.RootID, "section")
	h := insert(t, s, tree.RootID, "heading")
	c := NewController(s)

	drag(t, c, InstanceSource(h))
	require.True(t, c.Enter(Target{ParentID: sec, Index: 0}))
	res := c.Release(mouse.Pos(10, 0))

	assert.Equal(t, Moved, res.Outcome)
	parent, index, ok := s.Locate(h)
	require.True(t, ok)
	assert.Equal(t, sec, parent)
	assert.Zero(t, index)
}

func TestTargetsInsideSourceAreRefused(t *testing.T) {
	s := newStore(t)
	outer := insert(t, s, tree.RootID, "section")
	inner := insert(t, s, outer, "container")
	text := insert(t, s, tree.RootID, "text")
	c := NewController(s)

	drag(t, c, InstanceSource(outer))
	assert.False(t, c.Enter(Target{ParentID: outer, Index: 0}), "self")
	assert.False(t, c.Enter(Target{ParentID: inner, Index: 0}), "descendant")
	assert.False(t, c.Enter(Target{ParentID: text, Index: 0}), "leaf kind")
	assert.False(t, c.Enter(Target{ParentID: "missing", Index: 0}))
	_, over := c.Target()
	assert.False(t, over)

	res := c.Release(mouse.Pos(10, 0))
	assert.Equal(t, Cancelled, res.Outcome)
	parent, _, _ := s.Locate(inner)
	assert.Equal(t, outer, parent)
}

func TestZoneListsRefuseDrops(t *testing.T) {
	s := newStore(t)
	grid := insert(t, s, tree.RootID, tree.GridComponentID)
	zone := s.Find(grid).Children[0].InstanceID
	text := insert(t, s, tree.RootID, "text")
	c := NewController(s)

	drag(t, c, InstanceSource(text))
	assert.False(t, c.Enter(Target{ParentID: grid, Index: 0}), "into zone list")
	require.True(t, c.Enter(Target{ParentID: zone, Index: 0}), "into a zone")
	assert.Equal(t, Moved, c.Release(mouse.Pos(10, 0)).Outcome)

	drag(t, c, InstanceSource(zone))
	assert.False(t, c.Enter(Target{ParentID: tree.RootID, Index: 0}), "zone out of its grid")
	assert.Equal(t, Cancelled, c.Release(mouse.Pos(10, 0)).Outcome)

	drag(t, c, PaletteSource("heading", nil))
	assert.False(t, c.Enter(Target{ParentID: grid, Index: 1}))
	c.Cancel()

	assert.Len(t, s.Find(grid).Children, 2)
	assert.NoError(t, tree.Validate(s.Tree()))
}

func TestCancellation(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	sec := insert(t, s, tree.RootID, "section")

	tests := []struct {
		name string
		end  func(c *Controller) Result
	}{
		{"escape", (*Controller).Cancel},
		{"lost capture", (*Controller).LoseCapture},
		{"release without target", func(c *Controller) Result { return c.Release(mouse.Pos(20, 20)) }},
		{"release after leave", func(c *Controller) Result {
			c.Leave(Target{ParentID: sec, Index: 0})
			return c.Release(mouse.Pos(20, 20))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(s)
			drag(t, c, InstanceSource(a))
			if tt.name == "release after leave" {
				require.True(t, c.Enter(Target{ParentID: sec, Index: 0}))
			}

			res := tt.end(c)
			assert.Equal(t, Cancelled, res.Outcome)
			assert.Equal(t, Idle, c.State())
			assert.Equal(t, []string{a, sec}, rootIDs(s))
		})
	}
}

func TestCancelWhenIdleOrPressed(t *testing.T) {
	s := newStore(t)
	c := NewController(s)
	assert.Equal(t, None, c.Cancel().Outcome)
	assert.Equal(t, None, c.Release(mouse.Pos(0, 0)).Outcome)

	require.True(t, c.Press(PaletteSource("text", nil), mouse.Pos(0, 0)))
	assert.Equal(t, None, c.LoseCapture().Outcome)
	assert.Equal(t, Idle, c.State())
}

func TestPressRules(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	c := NewController(s)

	assert.False(t, c.Press(InstanceSource(tree.RootID), mouse.Pos(0, 0)))
	assert.False(t, c.Press(InstanceSource("missing"), mouse.Pos(0, 0)))
	assert.False(t, c.Press(PaletteSource("", nil), mouse.Pos(0, 0)))
	assert.False(t, c.Press(Source{}, mouse.Pos(0, 0)))

	require.True(t, c.Press(InstanceSource(a), mouse.Pos(0, 0)))
	assert.False(t, c.Press(PaletteSource("text", nil), mouse.Pos(0, 0)), "already pressed")
	src, ok := c.Source()
	require.True(t, ok)
	assert.Equal(t, a, src.InstanceID)

	assert.False(t, c.Enter(Target{ParentID: tree.RootID}), "enter needs a drag")
}

func TestThresholdOption(t *testing.T) {
	s := newStore(t)
	c := NewController(s, WithThreshold(0))
	require.True(t, c.Press(PaletteSource("text", nil), mouse.Pos(3, 3)))
	assert.Equal(t, Dragging, c.Move(mouse.Pos(3, 3)))

	c = NewController(s)
	require.True(t, c.Press(PaletteSource("text", nil), mouse.Pos(0, 0)))
	assert.Equal(t, Pressed, c.Move(mouse.Pos(2, 1)))
	assert.Equal(t, Dragging, c.Move(mouse.Pos(2, 2)))
}

func TestZoneMapDrivesTargets(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	sec := insert(t, s, tree.RootID, "section")

	zones := Zones{
		{Bounds: mouse.RectAt(0, 0, 20, 1), Target: Target{ParentID: tree.RootID, Index: 0}},
		{Bounds: mouse.RectAt(0, 5, 20, 1), Target: Target{ParentID: sec, Index: 0}},
		{Bounds: mouse.RectAt(0, 6, 20, 1), Target: Target{ParentID: a, Index: 0}},
	}
	c := NewController(s, WithZoneMap(zones))

	require.True(t, c.Press(InstanceSource(a), mouse.Pos(0, 2)))
	c.Move(mouse.Pos(0, 6))
	_, over := c.Target()
	assert.False(t, over, "dragged node cannot contain itself")

	c.Move(mouse.Pos(3, 5))
	tgt, over := c.Target()
	require.True(t, over)
	assert.Equal(t, sec, tgt.ParentID)

	c.Move(mouse.Pos(3, 9))
	_, over = c.Target()
	assert.False(t, over)

	res := c.Release(mouse.Pos(3, 5))
	assert.Equal(t, Moved, res.Outcome)
	parent, _, _ := s.Locate(a)
	assert.Equal(t, sec, parent)
}

func TestZonesOverlap(t *testing.T) {
	zones := Zones{
		{Bounds: mouse.RectAt(0, 0, 10, 10), Target: Target{ParentID: "outer"}},
		{Bounds: mouse.RectAt(2, 2, 2, 2), Target: Target{ParentID: "inner"}},
	}
	tgt, ok := zones.TargetAt(mouse.Pos(3, 3))
	require.True(t, ok)
	assert.Equal(t, "inner", tgt.ParentID)

	tgt, ok = zones.TargetAt(mouse.Pos(8, 8))
	require.True(t, ok)
	assert.Equal(t, "outer", tgt.ParentID)

	_, ok = zones.TargetAt(mouse.Pos(10, 0))
	assert.False(t, ok)
}

func TestFinalIndex(t *testing.T) {
	s := newStore(t)
	a := insert(t, s, tree.RootID, "text")
	insert(t, s, tree.RootID, "text")
	sec := insert(t, s, tree.RootID, "section")

	tests := []struct {
		slot Target
		want int
	}{
		{Target{tree.RootID, 0}, 0},
		{Target{tree.RootID, 1}, 0},
		{Target{tree.RootID, 2}, 1},
		{Target{tree.RootID, 3}, 2},
		{Target{sec, 0}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FinalIndex(s, a, tt.slot), tt.slot.String())
	}
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "cancelled", Cancelled.String())
	assert.Equal(t, "palette:text", PaletteSource("text", nil).String())
	assert.Equal(t, "instance:x", InstanceSource("x").String())
	assert.Equal(t, "root[2]", Target{ParentID: "root", Index: 2}.String())
}
