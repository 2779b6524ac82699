package history

import "github.com/dshills/pagecraft/internal/engine/tree"

// group collects commands pushed between BeginGroup and EndGroup. starts
// holds len(cmds) at each nested BeginGroup; the group is open while it is
// not empty.
type group struct {
	name   string
	cmds   []Command
	starts []int
}

func (g *group) active() bool { return len(g.starts) > 0 }

// BeginGroup starts collecting commands into one undo step named name.
// Inside an open group it starts a nested group that joins the outer one.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.group.active() {
		h.group = group{name: name}
	}
	h.group.starts = append(h.group.starts, len(h.group.cmds))
}

// EndGroup closes the innermost group. Closing the outermost one records
// the collected commands as one CompoundCommand; an empty group records
// nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.group.active() {
		return
	}
	h.group.starts = h.group.starts[:len(h.group.starts)-1]
	if h.group.active() {
		return
	}
	g := h.group
	h.group = group{}
	if len(g.cmds) > 0 {
		h.record(NewCompoundCommand(g.name, g.cmds...))
	}
}

// CancelGroup closes the innermost group without recording it and returns
// the commands pushed since it began, most recent last. Commands of outer
// groups are kept. The tree the returned commands produced is the caller's
// to revert.
func (h *History) CancelGroup() []Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.group.active() {
		return nil
	}
	last := len(h.group.starts) - 1
	start := h.group.starts[last]
	h.group.starts = h.group.starts[:last]

	cmds := make([]Command, len(h.group.cmds)-start)
	copy(cmds, h.group.cmds[start:])
	clear(h.group.cmds[start:])
	h.group.cmds = h.group.cmds[:start]
	if !h.group.active() {
		h.group = group{}
	}
	return cmds
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.group.active()
}

// Transaction runs fn inside a group. If fn fails the group is cancelled
// and the error returned; reverting the tree is up to the caller. A
// transaction inside another one joins it.
func (h *History) Transaction(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.CancelGroup()
		return err
	}
	h.EndGroup()
	return nil
}

// ExecuteGrouped applies cmds in order as one undo step. If any command
// fails nothing is recorded and t is returned.
func (h *History) ExecuteGrouped(name string, t tree.Tree, cmds ...Command) (tree.Tree, error) {
	switch len(cmds) {
	case 0:
		return t, nil
	case 1:
		return h.Execute(cmds[0], t)
	}
	return h.Execute(NewCompoundCommand(name, cmds...), t)
}

// Checkpoint marks a depth of the undo stack.
type Checkpoint struct {
	depth int
}

// CreateCheckpoint marks the current undo depth.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{depth: h.UndoCount()}
}

// UndoToCheckpoint undoes everything recorded since cp.
func (h *History) UndoToCheckpoint(cp Checkpoint, t tree.Tree) (tree.Tree, error) {
	for h.UndoCount() > cp.depth {
		next, err := h.Undo(t)
		if err != nil {
			return t, err
		}
		t = next
	}
	return t, nil
}

// RedoToCheckpoint redoes until the undo stack is back at cp's depth or
// nothing is left to redo.
func (h *History) RedoToCheckpoint(cp Checkpoint, t tree.Tree) (tree.Tree, error) {
	for h.UndoCount() < cp.depth && h.CanRedo() {
		next, err := h.Redo(t)
		if err != nil {
			return t, err
		}
		t = next
	}
	return t, nil
}
