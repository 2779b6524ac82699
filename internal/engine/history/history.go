package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 100

// Errors returned by Undo and Redo on an empty stack.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History records applied commands for undo and redo. It never holds a
// tree: callers pass the current tree in and keep the one returned. The
// undo stack is bounded; the redo stack is not, and any new command
// empties it.
type History struct {
	mu    sync.Mutex
	undo  stack
	redo  stack
	group group
	now   func() time.Time
}

// NewHistory returns a history keeping up to maxEntries undo steps, or
// DefaultMaxEntries when maxEntries is not positive.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{undo: stack{limit: maxEntries}, now: time.Now}
}

// Execute applies cmd to t and records it. On error nothing is recorded
// and t is returned.
func (h *History) Execute(cmd Command, t tree.Tree) (tree.Tree, error) {
	next, err := cmd.Apply(t)
	if err != nil {
		return t, err
	}
	h.Push(cmd)
	return next, nil
}

// Push records a command that has already been applied. Inside a group
// the command joins the group instead.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group.active() {
		h.group.cmds = append(h.group.cmds, cmd)
		return
	}
	h.record(cmd)
}

func (h *History) record(cmd Command) {
	h.undo.push(entry{cmd: cmd, at: h.now()})
	h.redo.reset()
}

// Undo inverts the most recent command. If the inversion fails the entry
// stays where it was.
func (h *History) Undo(t tree.Tree) (tree.Tree, error) {
	return h.step(t, &h.undo, &h.redo, ErrNothingToUndo, Command.Invert)
}

// Redo reapplies the most recently undone command. If it fails the entry
// stays where it was.
func (h *History) Redo(t tree.Tree) (tree.Tree, error) {
	return h.step(t, &h.redo, &h.undo, ErrNothingToRedo, Command.Apply)
}

// step moves the top entry of from onto to after run succeeds on it.
// The lock is not held while the command runs.
func (h *History) step(t tree.Tree, from, to *stack, empty error, run func(Command, tree.Tree) (tree.Tree, error)) (tree.Tree, error) {
	h.mu.Lock()
	e, ok := from.pop()
	h.mu.Unlock()
	if !ok {
		return t, empty
	}

	next, err := run(e.cmd, t)

	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		from.entries = append(from.entries, e)
		return t, err
	}
	to.push(e)
	return next, nil
}

// CanUndo reports whether Undo has an entry to revert.
func (h *History) CanUndo() bool { return h.UndoCount() > 0 }

// CanRedo reports whether Redo has an entry to reapply.
func (h *History) CanRedo() bool { return h.RedoCount() > 0 }

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undo.entries)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redo.entries)
}

// PeekUndo describes the command Undo would revert.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undo.peek()
}

// PeekRedo describes the command Redo would reapply.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.redo.peek()
}

// UndoInfo lists the undo stack, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undo.infos()
}

// RedoInfo lists the redo stack, oldest first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.redo.infos()
}

// SetMaxEntries changes the undo depth, dropping the oldest entries if
// the stack is already deeper. Values below one restore the default.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo.limit = n
	h.undo.trim()
}

// MaxEntries returns the undo depth.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.undo.limit
}

// Clear drops both stacks and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undo.reset()
	h.redo.reset()
	h.group = group{}
}
