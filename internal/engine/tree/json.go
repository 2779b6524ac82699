package tree

import (
	"encoding/json"
	"fmt"
)

type nodeJSON struct {
	InstanceID  string         `json:"instanceId"`
	ComponentID string         `json:"componentId"`
	Props       map[string]any `json:"props"`
	Children    []*Node        `json:"children"`
}

// MarshalJSON writes empty props and children as {} and [] rather than null.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		InstanceID:  n.InstanceID,
		ComponentID: n.ComponentID,
		Props:       n.Props,
		Children:    n.Children,
	}
	if out.Props == nil {
		out.Props = map[string]any{}
	}
	if out.Children == nil {
		out.Children = []*Node{}
	}
	return json.Marshal(out)
}

// MarshalJSON encodes the root node.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Root())
}

// UnmarshalJSON decodes a root node and checks its structure.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return err
	}
	parsed, err := FromRoot(&root)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Marshal serializes t to its persisted JSON shape.
func Marshal(t Tree) ([]byte, error) {
	return json.Marshal(t)
}

// Unmarshal parses a persisted tree.
func Unmarshal(data []byte) (Tree, error) {
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return Tree{}, fmt.Errorf("decoding tree: %w", err)
	}
	return t, nil
}
