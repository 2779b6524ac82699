package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaStub lists the kinds that accept children.
type schemaStub map[string]bool

func (s schemaStub) AcceptsChildren(componentID string) bool {
	return s[componentID]
}

var testSchema = schemaStub{
	ContainerComponentID: true,
	"section":            true,
	GridComponentID:      true,
	TabsComponentID:      true,
}

func mustInsert(t *testing.T, tr Tree, parentID string, n *Node, index int) Tree {
	t.Helper()
	next, ok := Insert(tr, testSchema, parentID, n, index)
	require.True(t, ok, "insert %s under %s", n.InstanceID, parentID)
	return next
}

// sample builds root -> [a(container) -> [a1(heading), a2(text)], b(heading)].
func sample(t *testing.T) Tree {
	t.Helper()
	tr := New()
	tr = mustInsert(t, tr, RootID, NewNode("a", ContainerComponentID, nil), -1)
	tr = mustInsert(t, tr, RootID, NewNode("b", "heading", map[string]any{"text": "B"}), -1)
	tr = mustInsert(t, tr, "a", NewNode("a1", "heading", nil), -1)
	tr = mustInsert(t, tr, "a", NewNode("a2", "text", nil), -1)
	return tr
}

func childIDs(n *Node) []string {
	ids := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.InstanceID)
	}
	return ids
}

func TestNewTree(t *testing.T) {
	tr := New()
	assert.Equal(t, RootID, tr.Root().InstanceID)
	assert.Equal(t, RootComponentID, tr.Root().ComponentID)
	assert.Empty(t, tr.Root().Children)
	assert.Equal(t, 1, tr.Len())
	assert.NoError(t, Validate(tr))
}

func TestInsertAndFind(t *testing.T) {
	tr := sample(t)
	n := NewNode("c", "text", map[string]any{"body": "hi"})

	next := mustInsert(t, tr, "a", n, 1)

	found := next.Find("c")
	require.NotNil(t, found)
	assert.True(t, Equal(n, found))
	assert.Equal(t, "c", next.Find("a").Children[1].InstanceID)
	assert.Equal(t, []string{"a1", "c", "a2"}, childIDs(next.Find("a")))
	assert.Nil(t, tr.Find("c"), "original tree must be untouched")
}

func TestInsertIndexClamping(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"append on negative", -1, []string{"a1", "a2", "n"}},
		{"front", 0, []string{"n", "a1", "a2"}},
		{"past end", 99, []string{"a1", "a2", "n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := mustInsert(t, sample(t), "a", NewNode("n", "text", nil), tt.index)
			assert.Equal(t, tt.want, childIDs(next.Find("a")))
		})
	}
}

func TestInsertRejected(t *testing.T) {
	tr := sample(t)

	tests := []struct {
		name     string
		parentID string
		node     *Node
	}{
		{"missing parent", "nope", NewNode("n", "text", nil)},
		{"parent refuses children", "b", NewNode("n", "text", nil)},
		{"duplicate id", RootID, NewNode("a1", "text", nil)},
		{"nil node", RootID, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := Insert(tr, testSchema, tt.parentID, tt.node, -1)
			assert.False(t, ok)
			assert.True(t, Equal(tr.Root(), next.Root()))
		})
	}
}

func TestInsertSharesUntouchedSubtrees(t *testing.T) {
	tr := sample(t)
	next := mustInsert(t, tr, "a", NewNode("n", "text", nil), -1)

	assert.Same(t, tr.Find("b"), next.Find("b"))
	assert.Same(t, tr.Find("a1"), next.Find("a1"))
	assert.NotSame(t, tr.Find("a"), next.Find("a"))
}

func TestMoveAcrossParents(t *testing.T) {
	tr := sample(t)
	before := tr.Len()
	subtree := IDs(tr.Find("a1"))

	next, ok := Move(tr, testSchema, "a1", RootID, 1)
	require.True(t, ok)

	assert.Equal(t, []string{"a", "a1", "b"}, childIDs(next.Root()))
	assert.Equal(t, []string{"a2"}, childIDs(next.Find("a")))
	assert.Equal(t, before, next.Len())
	assert.Equal(t, subtree, IDs(next.Find("a1")))
	assert.NoError(t, Validate(next))
}

func TestMoveLocalReorder(t *testing.T) {
	tr := New()
	for _, id := range []string{"x", "y", "z", "w"} {
		tr = mustInsert(t, tr, RootID, NewNode(id, "text", nil), -1)
	}

	tests := []struct {
		name  string
		id    string
		index int
		want  []string
	}{
		{"forward", "x", 2, []string{"y", "z", "x", "w"}},
		{"backward", "w", 0, []string{"w", "x", "y", "z"}},
		{"to end", "y", -1, []string{"x", "z", "w", "y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := Move(tr, testSchema, tt.id, RootID, tt.index)
			require.True(t, ok)
			assert.Equal(t, tt.want, childIDs(next.Root()))
		})
	}
}

func TestMoveToSamePositionIsNoop(t *testing.T) {
	tr := sample(t)
	next, ok := Move(tr, testSchema, "a2", "a", 1)
	assert.False(t, ok)
	assert.Same(t, tr.Root(), next.Root())
}

func TestMoveRejectsCycles(t *testing.T) {
	tr := sample(t)
	tr = mustInsert(t, tr, "a", NewNode("inner", "section", nil), -1)

	for _, target := range []string{"a", "inner"} {
		t.Run(target, func(t *testing.T) {
			next, ok := Move(tr, testSchema, "a", target, 0)
			assert.False(t, ok)
			assert.True(t, Equal(tr.Root(), next.Root()))
		})
	}
}

func TestMoveRejected(t *testing.T) {
	tr := sample(t)

	tests := []struct {
		name   string
		id     string
		parent string
	}{
		{"root", RootID, "a"},
		{"missing node", "nope", RootID},
		{"missing parent", "a1", "nope"},
		{"parent refuses children", "a1", "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Move(tr, testSchema, tt.id, tt.parent, 0)
			assert.False(t, ok)
		})
	}
}

func TestRemove(t *testing.T) {
	tr := sample(t)

	next, ok := Remove(tr, "a")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, childIDs(next.Root()))
	assert.Nil(t, next.Find("a1"))
	assert.Equal(t, 2, next.Len())

	_, ok = Remove(tr, "nope")
	assert.False(t, ok)
	_, ok = Remove(tr, RootID)
	assert.False(t, ok)
}

func TestUpdateProps(t *testing.T) {
	tr := sample(t)

	next, ok := UpdateProps(tr, "b", map[string]any{"text": "new", "level": float64(2)})
	require.True(t, ok)
	assert.Equal(t, map[string]any{"text": "new", "level": float64(2)}, next.Find("b").Props)
	assert.Equal(t, map[string]any{"text": "B"}, tr.Find("b").Props)

	_, ok = UpdateProps(next, "b", map[string]any{"text": "new"})
	assert.False(t, ok, "unchanged values are a no-op")
	_, ok = UpdateProps(next, "b", nil)
	assert.False(t, ok)
	_, ok = UpdateProps(next, "nope", map[string]any{"x": 1})
	assert.False(t, ok)
}

func TestDuplicate(t *testing.T) {
	tr := sample(t)
	ids := NewSequence("dup-")

	next, clone, ok := Duplicate(tr, ids, "a")
	require.True(t, ok)

	assert.Equal(t, []string{"a", clone.InstanceID, "b"}, childIDs(next.Root()))
	assert.Equal(t, tr.Len()+3, next.Len())

	existing := map[string]bool{}
	for _, id := range IDs(tr.Root()) {
		existing[id] = true
	}
	for _, id := range IDs(clone) {
		assert.False(t, existing[id], "id %s reused", id)
	}
	assert.Equal(t, []string{"heading", "text"}, []string{clone.Children[0].ComponentID, clone.Children[1].ComponentID})
	assert.NoError(t, Validate(next))

	_, _, ok = Duplicate(tr, ids, RootID)
	assert.False(t, ok)
}

func TestSyncZonesGrid(t *testing.T) {
	ids := NewSequence("z")
	grid := WithZones(NewNode("g", GridComponentID, map[string]any{"columns": float64(2)}), DefaultZones(ids))
	tr := mustInsert(t, New(), RootID, grid, -1)
	original := childIDs(tr.Find("g"))
	require.Len(t, original, 2)

	tr, _ = UpdateProps(tr, "g", map[string]any{"columns": float64(5)})
	grown, ok := SyncZones(tr, "g", DefaultZones(ids))
	require.True(t, ok)
	kids := childIDs(grown.Find("g"))
	require.Len(t, kids, 5)
	assert.Equal(t, original, kids[:2])
	for _, c := range grown.Find("g").Children[2:] {
		assert.Equal(t, ContainerComponentID, c.ComponentID)
	}

	grown, _ = UpdateProps(grown, "g", map[string]any{"columns": float64(2)})
	shrunk, ok := SyncZones(grown, "g", DefaultZones(ids))
	require.True(t, ok)
	assert.Equal(t, original, childIDs(shrunk.Find("g")))
	assert.NoError(t, Validate(shrunk))
}

func TestStructuralEditsKeepZones(t *testing.T) {
	ids := NewSequence("z")
	grid := WithZones(NewNode("g", GridComponentID, map[string]any{"columns": float64(2)}), DefaultZones(ids))
	tr := mustInsert(t, New(), RootID, grid, -1)
	tr = mustInsert(t, tr, RootID, NewNode("h", "heading", nil), -1)
	zone := tr.Find("g").Children[0].InstanceID
	require.True(t, IsMultiZone(tr.Find("g").ComponentID))
	require.NoError(t, Validate(tr))

	_, ok := Insert(tr, testSchema, "g", NewNode("x", "text", nil), -1)
	assert.False(t, ok, "insert into zone list")
	_, ok = Insert(tr, testSchema, "g", NewNode("x", ContainerComponentID, nil), 0)
	assert.False(t, ok, "insert zone-shaped node")
	_, ok = Move(tr, testSchema, "h", "g", 1)
	assert.False(t, ok, "move into zone list")
	_, ok = Move(tr, testSchema, zone, RootID, 0)
	assert.False(t, ok, "move zone out")
	_, ok = Move(tr, testSchema, zone, "g", 1)
	assert.False(t, ok, "reorder zones")
	_, ok = Remove(tr, zone)
	assert.False(t, ok, "remove zone")
	_, _, ok = Duplicate(tr, ids, zone)
	assert.False(t, ok, "duplicate zone")

	// Content inside a zone is edited freely.
	next, ok := Move(tr, testSchema, "h", zone, 0)
	require.True(t, ok)
	assert.NoError(t, Validate(next))
	next, ok = Remove(next, "h")
	require.True(t, ok)
	assert.NoError(t, Validate(next))

	// The multi-zone node itself moves and copies as a whole.
	next, dup, ok := Duplicate(tr, ids, "g")
	require.True(t, ok)
	assert.Len(t, dup.Children, 2)
	assert.NoError(t, Validate(next))
	next, ok = Remove(next, "g")
	require.True(t, ok)
	assert.NoError(t, Validate(next))
}

func TestZoneCount(t *testing.T) {
	tests := []struct {
		name  string
		node  *Node
		want  int
		valid bool
	}{
		{"grid", NewNode("g", GridComponentID, map[string]any{"columns": float64(3)}), 3, true},
		{"grid int", NewNode("g", GridComponentID, map[string]any{"columns": 4}), 4, true},
		{"grid missing", NewNode("g", GridComponentID, nil), 0, false},
		{"columns fixed", NewNode("c", ColumnsComponentID, nil), 2, true},
		{"tabs list", NewNode("t", TabsComponentID, map[string]any{"tabs": []any{"a", "b", "c"}}), 3, true},
		{"accordion count", NewNode("a", AccordionComponentID, map[string]any{"items": float64(1)}), 1, true},
		{"clamped", NewNode("g", GridComponentID, map[string]any{"columns": float64(500)}), MaxZones, true},
		{"negative", NewNode("g", GridComponentID, map[string]any{"columns": float64(-3)}), 0, true},
		{"plain", NewNode("h", "heading", nil), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ZoneCount(tt.node)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAffectsZones(t *testing.T) {
	assert.True(t, AffectsZones(GridComponentID, map[string]any{"columns": 3}))
	assert.False(t, AffectsZones(GridComponentID, map[string]any{"gap": 3}))
	assert.True(t, AffectsZones(TabsComponentID, map[string]any{"tabs": []any{}}))
	assert.False(t, AffectsZones(ColumnsComponentID, map[string]any{"columns": 3}))
	assert.False(t, AffectsZones("heading", map[string]any{"columns": 3}))
}

func TestRepairZones(t *testing.T) {
	tr := mustInsert(t, New(), RootID, NewNode("tabs", TabsComponentID, map[string]any{"tabs": []any{"one", "two"}}), -1)
	require.ErrorIs(t, Validate(tr), ErrZoneMismatch)

	repaired, stale := RepairZones(tr, DefaultZones(NewSequence("r")))
	assert.Equal(t, []string{"tabs"}, stale)
	assert.NoError(t, Validate(repaired))
}

func TestJSONRoundTrip(t *testing.T) {
	tr := sample(t)
	tr, _ = UpdateProps(tr, "a", map[string]any{"style": map[string]any{"margin": float64(4)}, "tags": []any{"x"}})

	data, err := Marshal(tr)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, Equal(tr.Root(), back.Root()))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, RootID, raw["instanceId"])
	assert.Equal(t, RootComponentID, raw["componentId"])
}

func TestUnmarshalRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"wrong root", `{"instanceId":"x","componentId":"page-root","props":{},"children":[]}`, ErrInvalidRoot},
		{"duplicate", `{"instanceId":"root","componentId":"page-root","props":{},"children":[
			{"instanceId":"a","componentId":"text","props":{},"children":[]},
			{"instanceId":"a","componentId":"text","props":{},"children":[]}]}`, ErrDuplicateID},
		{"empty id", `{"instanceId":"root","componentId":"page-root","children":[{"componentId":"text"}]}`, ErrEmptyID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNormalizeProps(t *testing.T) {
	got, err := NormalizeProps(map[string]any{"n": 3, "list": []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": float64(3), "list": []any{"a"}}, got)

	_, err = NormalizeProps(map[string]any{"bad": func() {}})
	assert.Error(t, err)
}

func TestLocateAndContains(t *testing.T) {
	tr := sample(t)

	parent, index, ok := Locate(tr.Root(), "a2")
	require.True(t, ok)
	assert.Equal(t, "a", parent)
	assert.Equal(t, 1, index)

	_, _, ok = Locate(tr.Root(), RootID)
	assert.False(t, ok)

	assert.True(t, Contains(tr.Root(), "a", "a2"))
	assert.True(t, Contains(tr.Root(), "a", "a"))
	assert.False(t, Contains(tr.Root(), "b", "a2"))
	assert.Equal(t, 2, Depth(tr.Root(), "a1"))
}

func TestCloneIsDeep(t *testing.T) {
	tr := sample(t)
	tr, _ = UpdateProps(tr, "a", map[string]any{"style": map[string]any{"margin": float64(4)}})

	cp := Clone(tr.Find("a"))
	require.True(t, Equal(tr.Find("a"), cp))

	cp.Props["style"].(map[string]any)["margin"] = float64(10)
	assert.Equal(t, float64(4), tr.Find("a").Props["style"].(map[string]any)["margin"])
}
