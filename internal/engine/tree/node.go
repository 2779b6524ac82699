package tree

import "errors"

// Reserved identifiers.
const (
	// RootID is the instance id of every document root.
	RootID = "root"

	// RootComponentID is the component kind of every document root.
	RootComponentID = "page-root"

	// ContainerComponentID is the kind used for multi-zone children.
	ContainerComponentID = "container"
)

// Structural errors.
var (
	ErrNilNode      = errors.New("nil node")
	ErrInvalidRoot  = errors.New("invalid document root")
	ErrDuplicateID  = errors.New("duplicate instance id")
	ErrEmptyID      = errors.New("empty instance id")
	ErrZoneMismatch = errors.New("zone count mismatch")
)

// Node is one component instance in the document tree.
type Node struct {
	InstanceID  string         `json:"instanceId"`
	ComponentID string         `json:"componentId"`
	Props       map[string]any `json:"props"`
	Children    []*Node        `json:"children"`
}

// NewNode creates a node with a copy of props and no children.
func NewNode(instanceID, componentID string, props map[string]any) *Node {
	return &Node{
		InstanceID:  instanceID,
		ComponentID: componentID,
		Props:       copyProps(props),
	}
}

// Prop returns a prop value.
func (n *Node) Prop(name string) (any, bool) {
	if n == nil || n.Props == nil {
		return nil, false
	}
	v, ok := n.Props[name]
	return v, ok
}

// ChildIndex returns the position of the child with the given id, or -1.
func (n *Node) ChildIndex(id string) int {
	for i, c := range n.Children {
		if c.InstanceID == id {
			return i
		}
	}
	return -1
}

// shallow returns a copy of n that shares props and children.
func (n *Node) shallow() *Node {
	c := *n
	return &c
}

// Tree is an immutable document.
type Tree struct {
	root *Node
}

// New returns an empty document.
func New() Tree {
	return Tree{root: &Node{
		InstanceID:  RootID,
		ComponentID: RootComponentID,
		Props:       map[string]any{},
	}}
}

// FromRoot wraps an existing root node after checking its structure.
func FromRoot(root *Node) (Tree, error) {
	if err := checkStructure(root); err != nil {
		return Tree{}, err
	}
	return Tree{root: root}, nil
}

// Root returns the root node. It must not be modified.
func (t Tree) Root() *Node {
	if t.root == nil {
		return New().root
	}
	return t.root
}

// IsZero reports whether t was never initialized.
func (t Tree) IsZero() bool {
	return t.root == nil
}

// Find returns the node with the given id.
func (t Tree) Find(id string) *Node {
	return Find(t.Root(), id)
}

// Len returns the number of nodes, root included.
func (t Tree) Len() int {
	return Count(t.Root())
}
