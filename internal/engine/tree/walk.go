package tree

import "fmt"

// VisitFunc is called for each node during a walk.
// Returning false skips the node's children.
type VisitFunc func(n *Node, parent *Node, depth int) bool

// Walk visits n and its descendants in depth-first pre-order.
func Walk(n *Node, fn VisitFunc) {
	walk(n, nil, 0, fn)
}

func walk(n, parent *Node, depth int, fn VisitFunc) {
	if n == nil {
		return
	}
	if !fn(n, parent, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, n, depth+1, fn)
	}
}

// Find returns the first node with the given id in depth-first order.
func Find(root *Node, id string) *Node {
	if root == nil || id == "" {
		return nil
	}
	if root.InstanceID == id {
		return root
	}
	for _, c := range root.Children {
		if found := Find(c, id); found != nil {
			return found
		}
	}
	return nil
}

// Locate returns the parent id and child index of the node with the given id.
// The root has no parent and is reported as not found.
func Locate(root *Node, id string) (parentID string, index int, ok bool) {
	if root == nil || id == "" {
		return "", -1, false
	}
	for i, c := range root.Children {
		if c.InstanceID == id {
			return root.InstanceID, i, true
		}
		if p, idx, found := Locate(c, id); found {
			return p, idx, true
		}
	}
	return "", -1, false
}

// Contains reports whether id is ancestorID itself or one of its descendants.
func Contains(root *Node, ancestorID, id string) bool {
	ancestor := Find(root, ancestorID)
	if ancestor == nil {
		return false
	}
	return Find(ancestor, id) != nil
}

// Count returns the number of nodes in the subtree.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node, *Node, int) bool {
		total++
		return true
	})
	return total
}

// IDs returns every instance id of the subtree in pre-order.
func IDs(n *Node) []string {
	var ids []string
	Walk(n, func(c *Node, _ *Node, _ int) bool {
		ids = append(ids, c.InstanceID)
		return true
	})
	return ids
}

// Depth returns the depth of id below the root, or -1 if it is absent.
func Depth(root *Node, id string) int {
	depth := -1
	Walk(root, func(n *Node, _ *Node, d int) bool {
		if depth >= 0 {
			return false
		}
		if n.InstanceID == id {
			depth = d
			return false
		}
		return true
	})
	return depth
}

// checkStructure verifies the root sentinel and id uniqueness.
func checkStructure(root *Node) error {
	if root == nil {
		return ErrNilNode
	}
	if root.InstanceID != RootID || root.ComponentID != RootComponentID {
		return fmt.Errorf("%w: got %q (%q)", ErrInvalidRoot, root.InstanceID, root.ComponentID)
	}
	return checkIDs(root, make(map[string]struct{}))
}

func checkIDs(n *Node, seen map[string]struct{}) error {
	if n == nil {
		return ErrNilNode
	}
	if n.InstanceID == "" {
		return fmt.Errorf("%w (component %q)", ErrEmptyID, n.ComponentID)
	}
	if _, dup := seen[n.InstanceID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.InstanceID)
	}
	seen[n.InstanceID] = struct{}{}
	for _, c := range n.Children {
		if err := checkIDs(c, seen); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks every structural invariant of t, including zone counts.
func Validate(t Tree) error {
	if err := checkStructure(t.Root()); err != nil {
		return err
	}
	var err error
	Walk(t.Root(), func(n *Node, _ *Node, _ int) bool {
		if err != nil {
			return false
		}
		if want, ok := ZoneCount(n); ok && len(n.Children) != want {
			err = fmt.Errorf("%w: %s has %d zones, want %d", ErrZoneMismatch, n.InstanceID, len(n.Children), want)
			return false
		}
		return true
	})
	return err
}
