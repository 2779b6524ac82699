// Package dnd turns pointer gestures into editor insertions and moves.
//
// The Controller is a state machine independent of any UI toolkit:
//
//	Idle --Press--> Pressed --Move past threshold--> Dragging
//	Dragging --Enter/Leave--> Dragging (over a target or not)
//	Dragging --Release over target--> dropped, Idle
//	Dragging --Release elsewhere, Cancel, LoseCapture--> cancelled, Idle
//
// A drag carries a Source: either a palette template (a component kind and
// its props) or an existing instance. Drop targets are slots in a parent's
// current child list. Dropping a template inserts a new node and selects
// it; dropping an instance moves it. Targets inside the dragged subtree are
// refused on Enter so a node can never be dropped into itself.
//
// Hosts that know where each slot is drawn can supply a ZoneMap; the
// controller then resolves Enter and Leave from pointer positions.
package dnd
