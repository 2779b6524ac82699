// Package editor holds the state of one page being edited.
//
// A Store owns the component tree, the current selection, the interacting
// sub-mode, the single-slot clipboard and the dirty flag. Every structural
// edit goes through the history engine so it can be undone. Stores are
// plain values created with New; any number of them may coexist.
//
// # Thread Safety
//
// Edits normally run on one goroutine, but a Store is safe for concurrent
// use so that an Autosaver can snapshot and mark it saved from its own
// goroutine. Trees are immutable, which keeps snapshots cheap: serialization
// happens outside the lock.
//
// # Failure Policy
//
// Edits that cannot be resolved (unknown ids, parents that refuse children,
// cycles) are silent no-ops: they report false, record no history and leave
// the dirty flag alone.
package editor
