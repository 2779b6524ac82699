package tree

import "reflect"

// Schema answers structural questions about component kinds.
// A nil Schema accepts children everywhere.
type Schema interface {
	AcceptsChildren(componentID string) bool
}

func acceptsChildren(schema Schema, n *Node) bool {
	if n.ComponentID == RootComponentID || schema == nil {
		return true
	}
	return schema.AcceptsChildren(n.ComponentID)
}

// zoneLocked reports whether the children of n are zones. Their number
// follows the zone prop, so structural edits may not add or remove them.
func zoneLocked(n *Node) bool {
	return n != nil && IsMultiZone(n.ComponentID)
}

// rewrite replaces the node with the given id by fn's result, copying the
// path from root to that node. It reports false if id is absent.
func rewrite(n *Node, id string, fn func(*Node) *Node) (*Node, bool) {
	if n.InstanceID == id {
		return fn(n), true
	}
	for i, c := range n.Children {
		nc, ok := rewrite(c, id, fn)
		if !ok {
			continue
		}
		cp := n.shallow()
		cp.Children = make([]*Node, len(n.Children))
		copy(cp.Children, n.Children)
		cp.Children[i] = nc
		return cp, true
	}
	return n, false
}

func insertChild(root *Node, parentID string, child *Node, index int) (*Node, bool) {
	return rewrite(root, parentID, func(p *Node) *Node {
		cp := p.shallow()
		cp.Children = make([]*Node, 0, len(p.Children)+1)
		cp.Children = append(cp.Children, p.Children[:index]...)
		cp.Children = append(cp.Children, child)
		cp.Children = append(cp.Children, p.Children[index:]...)
		return cp
	})
}

func removeChild(root *Node, parentID string, index int) (*Node, bool) {
	return rewrite(root, parentID, func(p *Node) *Node {
		cp := p.shallow()
		cp.Children = make([]*Node, 0, len(p.Children)-1)
		cp.Children = append(cp.Children, p.Children[:index]...)
		cp.Children = append(cp.Children, p.Children[index+1:]...)
		return cp
	})
}

// clampIndex maps index into [0, n]; negative values append.
func clampIndex(index, n int) int {
	if index < 0 || index > n {
		return n
	}
	return index
}

// Insert adds node under parentID at index. A negative index appends and
// larger indexes are clamped. Insert is a no-op if the parent is missing,
// does not accept children or is multi-zone, or if any id of node already
// exists in t.
func Insert(t Tree, schema Schema, parentID string, node *Node, index int) (Tree, bool) {
	if node == nil {
		return t, false
	}
	root := t.Root()
	parent := Find(root, parentID)
	if parent == nil || zoneLocked(parent) || !acceptsChildren(schema, parent) {
		return t, false
	}
	seen := make(map[string]struct{})
	Walk(root, func(n *Node, _ *Node, _ int) bool {
		seen[n.InstanceID] = struct{}{}
		return true
	})
	if checkIDs(node, seen) != nil {
		return t, false
	}
	next, _ := insertChild(root, parentID, node, clampIndex(index, len(parent.Children)))
	return Tree{root: next}, true
}

// InsertedIndex returns the index Insert places a node at.
func InsertedIndex(t Tree, parentID string, index int) int {
	parent := t.Find(parentID)
	if parent == nil {
		return -1
	}
	return clampIndex(index, len(parent.Children))
}

// Move detaches the subtree rooted at id and reinserts it under newParentID.
// newIndex is the final position of the node among the new parent's children
// once it has been detached; negative values append. Moving the root, moving
// a node under itself or one of its descendants, or moving into a parent that
// does not accept children is rejected. Zones never move, and nothing moves
// into a zone list.
func Move(t Tree, schema Schema, id, newParentID string, newIndex int) (Tree, bool) {
	root := t.Root()
	if id == "" || id == RootID {
		return t, false
	}
	node := Find(root, id)
	if node == nil {
		return t, false
	}
	if newParentID == id || Find(node, newParentID) != nil {
		return t, false
	}
	target := Find(root, newParentID)
	if target == nil || zoneLocked(target) || !acceptsChildren(schema, target) {
		return t, false
	}
	oldParentID, oldIndex, ok := Locate(root, id)
	if !ok || zoneLocked(Find(root, oldParentID)) {
		return t, false
	}

	size := len(target.Children)
	if oldParentID == newParentID {
		size--
	}
	index := clampIndex(newIndex, size)
	if oldParentID == newParentID && index == oldIndex {
		return t, false
	}

	detached, _ := removeChild(root, oldParentID, oldIndex)
	next, _ := insertChild(detached, newParentID, node, index)
	return Tree{root: next}, true
}

// Remove discards the subtree rooted at id. The root and zones cannot be
// removed.
func Remove(t Tree, id string) (Tree, bool) {
	root := t.Root()
	parentID, index, ok := Locate(root, id)
	if !ok || zoneLocked(Find(root, parentID)) {
		return t, false
	}
	next, _ := removeChild(root, parentID, index)
	return Tree{root: next}, true
}

// UpdateProps shallow-merges partial into the props of id. It is a no-op if
// the node is missing, partial is empty, or every value is already set.
func UpdateProps(t Tree, id string, partial map[string]any) (Tree, bool) {
	root := t.Root()
	node := Find(root, id)
	if node == nil || len(partial) == 0 {
		return t, false
	}
	if propsContain(node.Props, partial) {
		return t, false
	}
	next, _ := rewrite(root, id, func(n *Node) *Node {
		cp := n.shallow()
		cp.Props = mergeProps(n.Props, partial)
		return cp
	})
	return Tree{root: next}, true
}

// ReplaceContent sets the props and children of id wholesale.
// It is the primitive used to replay recorded edits.
func ReplaceContent(t Tree, id string, props map[string]any, children []*Node) (Tree, bool) {
	root := t.Root()
	if Find(root, id) == nil {
		return t, false
	}
	next, _ := rewrite(root, id, func(n *Node) *Node {
		cp := n.shallow()
		cp.Props = props
		cp.Children = children
		return cp
	})
	return Tree{root: next}, true
}

// Duplicate deep-copies the subtree rooted at id, assigns a new id to every
// node of the copy and inserts it right after the original.
// The root and zones cannot be duplicated.
func Duplicate(t Tree, ids IDGenerator, id string) (Tree, *Node, bool) {
	root := t.Root()
	parentID, index, ok := Locate(root, id)
	if !ok || zoneLocked(Find(root, parentID)) {
		return t, nil, false
	}
	clone := CloneWithNewIDs(Find(root, id), ids)
	next, _ := insertChild(root, parentID, clone, index+1)
	return Tree{root: next}, clone, true
}

func propsContain(props, partial map[string]any) bool {
	for k, v := range partial {
		cur, ok := props[k]
		if !ok || !reflect.DeepEqual(cur, v) {
			return false
		}
	}
	return true
}

func mergeProps(base, partial map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(partial))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = copyValue(v)
	}
	return out
}
