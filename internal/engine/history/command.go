package history

import (
	"errors"
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// Command errors.
var (
	// ErrNoChange is returned by Apply when the edit would leave the tree
	// unchanged. Such commands are never recorded.
	ErrNoChange = errors.New("edit has no effect")

	// ErrNotApplied is returned when a command is inverted before it was
	// applied, or the tree no longer matches the recorded state.
	ErrNotApplied = errors.New("command not applied")
)

// Command represents a reversible edit of a component tree.
// Commands never modify the tree they receive.
type Command interface {
	// Apply performs the edit and returns the new tree.
	// Applying again after Invert must reproduce the same result.
	Apply(t tree.Tree) (tree.Tree, error)

	// Invert reverses the edit and returns the restored tree.
	Invert(t tree.Tree) (tree.Tree, error)

	// Description returns a human-readable description of the command.
	Description() string
}

// InsertCommand inserts a node under a parent.
type InsertCommand struct {
	ParentID string
	Index    int
	Node     *tree.Node
	Schema   tree.Schema
	Label    string
}

// NewInsertCommand creates a new insert command.
func NewInsertCommand(schema tree.Schema, parentID string, node *tree.Node, index int) *InsertCommand {
	return &InsertCommand{
		ParentID: parentID,
		Index:    index,
		Node:     node,
		Schema:   schema,
	}
}

// Apply inserts the node.
func (c *InsertCommand) Apply(t tree.Tree) (tree.Tree, error) {
	next, ok := tree.Insert(t, c.Schema, c.ParentID, c.Node, c.Index)
	if !ok {
		return t, ErrNoChange
	}
	return next, nil
}

// Invert removes the inserted subtree.
func (c *InsertCommand) Invert(t tree.Tree) (tree.Tree, error) {
	if c.Node == nil {
		return t, ErrNotApplied
	}
	next, ok := tree.Remove(t, c.Node.InstanceID)
	if !ok {
		return t, fmt.Errorf("%w: %s is missing", ErrNotApplied, c.Node.InstanceID)
	}
	return next, nil
}

// Description returns a human-readable description.
func (c *InsertCommand) Description() string {
	if c.Label != "" {
		return c.Label
	}
	if c.Node == nil {
		return "Insert"
	}
	return fmt.Sprintf("Insert %s", c.Node.ComponentID)
}

// MoveCommand moves a subtree to a new parent and position.
type MoveCommand struct {
	ID       string
	ParentID string
	Index    int
	Schema   tree.Schema

	fromParent string
	fromIndex  int
	applied    bool
}

// NewMoveCommand creates a new move command. index is the final position of
// the node among the new parent's children.
func NewMoveCommand(schema tree.Schema, id, parentID string, index int) *MoveCommand {
	return &MoveCommand{
		ID:       id,
		ParentID: parentID,
		Index:    index,
		Schema:   schema,
	}
}

// Apply moves the node and records where it came from.
func (c *MoveCommand) Apply(t tree.Tree) (tree.Tree, error) {
	from, index, ok := tree.Locate(t.Root(), c.ID)
	if !ok {
		return t, ErrNoChange
	}
	next, ok := tree.Move(t, c.Schema, c.ID, c.ParentID, c.Index)
	if !ok {
		return t, ErrNoChange
	}
	c.fromParent, c.fromIndex, c.applied = from, index, true
	return next, nil
}

// Invert moves the node back to its previous parent and position.
func (c *MoveCommand) Invert(t tree.Tree) (tree.Tree, error) {
	if !c.applied {
		return t, ErrNotApplied
	}
	next, ok := tree.Move(t, nil, c.ID, c.fromParent, c.fromIndex)
	if !ok {
		return t, fmt.Errorf("%w: cannot return %s to %s", ErrNotApplied, c.ID, c.fromParent)
	}
	return next, nil
}

// Description returns a human-readable description.
func (c *MoveCommand) Description() string {
	return fmt.Sprintf("Move %s", c.ID)
}

// RemoveCommand removes a subtree and keeps it for restoration.
type RemoveCommand struct {
	ID string

	parentID string
	index    int
	node     *tree.Node
}

// NewRemoveCommand creates a new remove command.
func NewRemoveCommand(id string) *RemoveCommand {
	return &RemoveCommand{ID: id}
}

// Apply removes the subtree.
func (c *RemoveCommand) Apply(t tree.Tree) (tree.Tree, error) {
	parentID, index, ok := tree.Locate(t.Root(), c.ID)
	if !ok {
		return t, ErrNoChange
	}
	node := t.Find(c.ID)
	next, ok := tree.Remove(t, c.ID)
	if !ok {
		return t, ErrNoChange
	}
	c.parentID, c.index, c.node = parentID, index, node
	return next, nil
}

// Invert reinserts the removed subtree at its previous position.
func (c *RemoveCommand) Invert(t tree.Tree) (tree.Tree, error) {
	if c.node == nil {
		return t, ErrNotApplied
	}
	next, ok := tree.Insert(t, nil, c.parentID, c.node, c.index)
	if !ok {
		return t, fmt.Errorf("%w: cannot restore %s", ErrNotApplied, c.ID)
	}
	return next, nil
}

// Removed returns the removed subtree, or nil before Apply.
func (c *RemoveCommand) Removed() *tree.Node {
	return c.node
}

// Description returns a human-readable description.
func (c *RemoveCommand) Description() string {
	if c.node != nil {
		return fmt.Sprintf("Remove %s", c.node.ComponentID)
	}
	return fmt.Sprintf("Remove %s", c.ID)
}

// UpdatePropsCommand merges props into a node. When a zone-controlling prop
// of a multi-zone node changes, the node's zones are resized in the same step.
type UpdatePropsCommand struct {
	ID    string
	Props map[string]any
	Zones tree.ZoneFactory

	before  content
	after   content
	applied bool
}

type content struct {
	props    map[string]any
	children []*tree.Node
}

// NewUpdatePropsCommand creates a new update command. zones creates the
// containers added when a multi-zone node grows; it may be nil for trees
// without multi-zone nodes.
func NewUpdatePropsCommand(id string, props map[string]any, zones tree.ZoneFactory) *UpdatePropsCommand {
	return &UpdatePropsCommand{
		ID:    id,
		Props: props,
		Zones: zones,
	}
}

// Apply merges the props. The first application records the node's content
// before and after so that redo reproduces the same zone ids.
func (c *UpdatePropsCommand) Apply(t tree.Tree) (tree.Tree, error) {
	if c.applied {
		next, ok := tree.ReplaceContent(t, c.ID, c.after.props, c.after.children)
		if !ok {
			return t, fmt.Errorf("%w: %s is missing", ErrNotApplied, c.ID)
		}
		return next, nil
	}

	node := t.Find(c.ID)
	if node == nil {
		return t, ErrNoChange
	}
	next, ok := tree.UpdateProps(t, c.ID, c.Props)
	if !ok {
		return t, ErrNoChange
	}
	if c.Zones != nil && tree.AffectsZones(node.ComponentID, c.Props) {
		next, _ = tree.SyncZones(next, c.ID, c.Zones)
	}

	updated := next.Find(c.ID)
	c.before = content{props: node.Props, children: node.Children}
	c.after = content{props: updated.Props, children: updated.Children}
	c.applied = true
	return next, nil
}

// Invert restores the props and children the node had before Apply.
func (c *UpdatePropsCommand) Invert(t tree.Tree) (tree.Tree, error) {
	if !c.applied {
		return t, ErrNotApplied
	}
	next, ok := tree.ReplaceContent(t, c.ID, c.before.props, c.before.children)
	if !ok {
		return t, fmt.Errorf("%w: %s is missing", ErrNotApplied, c.ID)
	}
	return next, nil
}

// Description returns a human-readable description.
func (c *UpdatePropsCommand) Description() string {
	if len(c.Props) == 1 {
		for k := range c.Props {
			return fmt.Sprintf("Set %s on %s", k, c.ID)
		}
	}
	return fmt.Sprintf("Update %s", c.ID)
}

// DuplicateCommand inserts a copy of a subtree right after the original.
type DuplicateCommand struct {
	ID  string
	IDs tree.IDGenerator

	parentID string
	index    int
	clone    *tree.Node
}

// NewDuplicateCommand creates a new duplicate command.
func NewDuplicateCommand(ids tree.IDGenerator, id string) *DuplicateCommand {
	return &DuplicateCommand{ID: id, IDs: ids}
}

// Apply inserts the copy. The copy is created once and reused on redo so its
// ids stay stable.
func (c *DuplicateCommand) Apply(t tree.Tree) (tree.Tree, error) {
	if c.clone != nil {
		next, ok := tree.Insert(t, nil, c.parentID, c.clone, c.index)
		if !ok {
			return t, fmt.Errorf("%w: cannot reinsert copy of %s", ErrNotApplied, c.ID)
		}
		return next, nil
	}

	parentID, index, ok := tree.Locate(t.Root(), c.ID)
	if !ok {
		return t, ErrNoChange
	}
	next, clone, ok := tree.Duplicate(t, c.IDs, c.ID)
	if !ok {
		return t, ErrNoChange
	}
	c.parentID, c.index, c.clone = parentID, index+1, clone
	return next, nil
}

// Invert removes the copy.
func (c *DuplicateCommand) Invert(t tree.Tree) (tree.Tree, error) {
	if c.clone == nil {
		return t, ErrNotApplied
	}
	next, ok := tree.Remove(t, c.clone.InstanceID)
	if !ok {
		return t, fmt.Errorf("%w: %s is missing", ErrNotApplied, c.clone.InstanceID)
	}
	return next, nil
}

// CloneID returns the id of the copy, or "" before Apply.
func (c *DuplicateCommand) CloneID() string {
	if c.clone == nil {
		return ""
	}
	return c.clone.InstanceID
}

// Description returns a human-readable description.
func (c *DuplicateCommand) Description() string {
	return fmt.Sprintf("Duplicate %s", c.ID)
}

// CompoundCommand groups multiple commands as one undo unit.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Apply runs all commands in order. If a step fails the tree is returned
// as it was before the first step.
func (c *CompoundCommand) Apply(t tree.Tree) (tree.Tree, error) {
	cur := t
	for i, cmd := range c.Commands {
		next, err := cmd.Apply(cur)
		if err != nil {
			return t, fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
		cur = next
	}
	return cur, nil
}

// Invert reverses all commands in reverse order.
func (c *CompoundCommand) Invert(t tree.Tree) (tree.Tree, error) {
	cur := t
	for i := len(c.Commands) - 1; i >= 0; i-- {
		next, err := c.Commands[i].Invert(cur)
		if err != nil {
			return t, fmt.Errorf("undo compound command '%s' step %d: %w", c.Name, i, err)
		}
		cur = next
	}
	return cur, nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
