// Package history provides undo/redo for component trees.
//
// The history system uses the Command pattern. Every edit is a command with
// Apply and Invert; both take a tree and return a new one, so commands never
// mutate shared state. Commands record what they need to invert themselves
// the first time they are applied.
//
// # Commands
//
// Built-in commands:
//   - InsertCommand: insert a subtree under a parent
//   - MoveCommand: move a subtree to a new parent and position
//   - RemoveCommand: remove a subtree
//   - UpdatePropsCommand: merge props and resize multi-zone children
//   - DuplicateCommand: insert a copy with fresh ids after the original
//   - CompoundCommand: group multiple commands as one undo unit
//
// # History Stack
//
// The History type manages undo/redo stacks and command grouping:
//
//	h := NewHistory(100) // Max 100 undo entries
//
//	t, err = h.Execute(cmd, t)
//	t, err = h.Undo(t)
//	t, err = h.Redo(t)
//
// Pushing a new command clears the redo stack. When the undo stack exceeds
// its limit the oldest entries are dropped.
//
// # Command Grouping
//
// Multiple commands can be grouped as a single undo unit:
//
//	h.BeginGroup("Build hero")
//	// ... multiple edits ...
//	h.EndGroup()
//
// Now all edits undo together with one Ctrl+Z.
package history
