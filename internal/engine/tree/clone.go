package tree

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Clone returns a deep copy of the subtree, keeping instance ids.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		InstanceID:  n.InstanceID,
		ComponentID: n.ComponentID,
		Props:       copyProps(n.Props),
	}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = Clone(c)
		}
	}
	return cp
}

// CloneWithNewIDs returns a deep copy of the subtree in which every node,
// the copy's root included, has a fresh id from ids.
func CloneWithNewIDs(n *Node, ids IDGenerator) *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		InstanceID:  ids.NewID(),
		ComponentID: n.ComponentID,
		Props:       copyProps(n.Props),
	}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = CloneWithNewIDs(c, ids)
		}
	}
	return cp
}

// CopyProps returns a deep copy of a props map. The result is never nil.
func CopyProps(p map[string]any) map[string]any {
	return copyProps(p)
}

func copyProps(p map[string]any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyProps(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two subtrees are structurally equal: same ids, kinds,
// props and children in the same order. Nil and empty props or children are
// considered equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.InstanceID != b.InstanceID || a.ComponentID != b.ComponentID {
		return false
	}
	if len(a.Props) != len(b.Props) {
		return false
	}
	if len(a.Props) > 0 && !reflect.DeepEqual(a.Props, b.Props) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// NormalizeProps returns props with every value converted to the form it
// takes after a JSON round trip (numbers become float64, slices become []any).
// Props normalized this way survive serialization unchanged.
func NormalizeProps(props map[string]any) (map[string]any, error) {
	if len(props) == 0 {
		return map[string]any{}, nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("normalizing props: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalizing props: %w", err)
	}
	return out, nil
}
