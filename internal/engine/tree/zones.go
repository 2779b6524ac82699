package tree

import (
	"encoding/json"
	"math"
)

// MaxZones caps the number of zones a multi-zone node may have.
const MaxZones = 24

// Multi-zone component kinds.
const (
	GridComponentID      = "grid"
	ColumnsComponentID   = "columns"
	TabsComponentID      = "tabs"
	AccordionComponentID = "accordion"
)

// zoneProps maps each multi-zone kind to the prop its zone count derives from.
// Columns has a fixed count and no controlling prop.
var zoneProps = map[string]string{
	GridComponentID:      "columns",
	ColumnsComponentID:   "",
	TabsComponentID:      "tabs",
	AccordionComponentID: "items",
}

const fixedColumnZones = 2

// IsMultiZone reports whether the kind keeps one child per zone.
func IsMultiZone(componentID string) bool {
	_, ok := zoneProps[componentID]
	return ok
}

// ZoneProp returns the prop controlling the zone count of a kind.
func ZoneProp(componentID string) (string, bool) {
	p, ok := zoneProps[componentID]
	if !ok || p == "" {
		return "", false
	}
	return p, true
}

// AffectsZones reports whether changing the given props of a node of this
// kind requires zone resynchronization.
func AffectsZones(componentID string, changed map[string]any) bool {
	prop, ok := ZoneProp(componentID)
	if !ok {
		return false
	}
	_, touched := changed[prop]
	return touched
}

// ZoneCount returns the number of zones n must have. ok is false for kinds
// that are not multi-zone or whose controlling prop is missing or invalid.
func ZoneCount(n *Node) (int, bool) {
	if n == nil {
		return 0, false
	}
	prop, known := zoneProps[n.ComponentID]
	if !known {
		return 0, false
	}
	if prop == "" {
		return fixedColumnZones, true
	}
	v, ok := n.Props[prop]
	if !ok {
		return 0, false
	}
	count, ok := countOf(v)
	if !ok {
		return 0, false
	}
	return min(max(count, 0), MaxZones), true
}

// countOf reads a zone count from a number or the length of a list.
func countOf(v any) (int, bool) {
	switch val := v.(type) {
	case []any:
		return len(val), true
	case []string:
		return len(val), true
	case []map[string]any:
		return len(val), true
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case float32:
		return floatCount(float64(val))
	case float64:
		return floatCount(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return floatCount(f)
	default:
		return 0, false
	}
}

func floatCount(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(math.Floor(f)), true
}

// ZoneFactory creates an empty zone container.
type ZoneFactory func() *Node

// DefaultZoneProps is the prop set of a freshly created zone container.
func DefaultZoneProps() map[string]any {
	return map[string]any{
		"padding": float64(16),
		"gap":     float64(8),
	}
}

// DefaultZones returns a ZoneFactory creating containers with
// DefaultZoneProps and ids from ids.
func DefaultZones(ids IDGenerator) ZoneFactory {
	return func() *Node {
		return NewNode(ids.NewID(), ContainerComponentID, DefaultZoneProps())
	}
}

// sizedChildren returns children grown or truncated to count.
func sizedChildren(children []*Node, count int, newZone ZoneFactory) []*Node {
	if len(children) >= count {
		out := make([]*Node, count)
		copy(out, children[:count])
		return out
	}
	out := make([]*Node, len(children), count)
	copy(out, children)
	for len(out) < count {
		out = append(out, newZone())
	}
	return out
}

// SyncZones resizes the children of id to its zone count, appending new
// containers or truncating trailing zones. Truncation discards the removed
// zones together with their content.
func SyncZones(t Tree, id string, newZone ZoneFactory) (Tree, bool) {
	root := t.Root()
	node := Find(root, id)
	if node == nil {
		return t, false
	}
	count, ok := ZoneCount(node)
	if !ok || len(node.Children) == count {
		return t, false
	}
	next, _ := rewrite(root, id, func(n *Node) *Node {
		cp := n.shallow()
		cp.Children = sizedChildren(n.Children, count, newZone)
		return cp
	})
	return Tree{root: next}, true
}

// WithZones returns n with its children sized to its zone count. Nodes that
// are not multi-zone, or already in sync, are returned unchanged.
func WithZones(n *Node, newZone ZoneFactory) *Node {
	count, ok := ZoneCount(n)
	if !ok || len(n.Children) == count {
		return n
	}
	cp := n.shallow()
	cp.Children = sizedChildren(n.Children, count, newZone)
	return cp
}

// RepairZones brings every multi-zone node of t in sync with its props.
// It returns the ids of the repaired nodes.
func RepairZones(t Tree, newZone ZoneFactory) (Tree, []string) {
	var stale []string
	Walk(t.Root(), func(n *Node, _ *Node, _ int) bool {
		if count, ok := ZoneCount(n); ok && len(n.Children) != count {
			stale = append(stale, n.InstanceID)
		}
		return true
	})
	for _, id := range stale {
		t, _ = SyncZones(t, id, newZone)
	}
	return t, stale
}
