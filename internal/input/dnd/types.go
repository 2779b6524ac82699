package dnd

import (
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

// DefaultThreshold is the pointer travel, in cells, that turns a press into
// a drag.
const DefaultThreshold = 4

// State is the controller state.
type State uint8

const (
	// Idle means no gesture is in progress.
	Idle State = iota
	// Pressed means a source was pressed but the pointer has not moved far
	// enough to start a drag.
	Pressed
	// Dragging means a drag is in progress.
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// SourceKind tells palette templates from existing instances.
type SourceKind uint8

const (
	// FromPalette is a template for a node that does not exist yet.
	FromPalette SourceKind = iota + 1
	// FromInstance is an existing node being relocated.
	FromInstance
)

// Source is the thing being dragged.
type Source struct {
	Kind SourceKind

	// ComponentID and Props describe a palette template.
	ComponentID string
	Props       map[string]any

	// InstanceID names the node being moved.
	InstanceID string
}

// PaletteSource creates a source for a palette template.
func PaletteSource(componentID string, props map[string]any) Source {
	return Source{Kind: FromPalette, ComponentID: componentID, Props: props}
}

// InstanceSource creates a source for an existing node.
func InstanceSource(id string) Source {
	return Source{Kind: FromInstance, InstanceID: id}
}

// Valid reports whether the source names something to drag.
func (s Source) Valid() bool {
	switch s.Kind {
	case FromPalette:
		return s.ComponentID != ""
	case FromInstance:
		return s.InstanceID != "" && s.InstanceID != tree.RootID
	}
	return false
}

// String returns a short description for logs.
func (s Source) String() string {
	if s.Kind == FromPalette {
		return "palette:" + s.ComponentID
	}
	return "instance:" + s.InstanceID
}

// Target is a drop slot: the position in ParentID's current children where
// the dragged node would land. Index may equal the number of children.
type Target struct {
	ParentID string
	Index    int
}

// String returns "parent[index]".
func (t Target) String() string {
	return fmt.Sprintf("%s[%d]", t.ParentID, t.Index)
}

// Outcome is how a gesture ended.
type Outcome uint8

const (
	// None means the gesture ended without a drag (a plain click).
	None Outcome = iota
	// Inserted means a palette template was dropped and created.
	Inserted
	// Moved means an instance was relocated.
	Moved
	// Cancelled means the drag ended with no mutation.
	Cancelled
	// Rejected means the editor refused the drop.
	Rejected
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Moved:
		return "moved"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	default:
		return "none"
	}
}

// Result describes a finished gesture.
type Result struct {
	Outcome Outcome
	Source  Source
	Target  Target

	// InstanceID is the inserted or moved node.
	InstanceID string
}

// Editor is the part of the editor store the controller drives.
type Editor interface {
	Find(id string) *tree.Node
	Locate(id string) (parentID string, index int, ok bool)
	Contains(ancestorID, id string) bool
	AcceptsChildren(componentID string) bool

	InsertTemplate(parentID, componentID string, props map[string]any, index int) (string, bool)
	Move(id, newParentID string, newIndex int) bool
	Select(id string) bool
}

// ZoneMap resolves drop targets from pointer positions.
type ZoneMap interface {
	TargetAt(p mouse.Position) (Target, bool)
}

// Zone is a screen region that drops into a target.
type Zone struct {
	Bounds mouse.Rect
	Target Target
}

// Zones is a ZoneMap over a list of regions. Later zones are drawn on top
// and win when regions overlap.
type Zones []Zone

// TargetAt implements ZoneMap.
func (z Zones) TargetAt(p mouse.Position) (Target, bool) {
	for i := len(z) - 1; i >= 0; i-- {
		if z[i].Bounds.Contains(p) {
			return z[i].Target, true
		}
	}
	return Target{}, false
}
