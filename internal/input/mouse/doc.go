// Package mouse defines pointer events for the page editor.
//
// Terminal and test front ends translate their native pointer input into
// Event values. The drag-and-drop controller consumes positions and the
// ClickCounter turns presses into single and double clicks:
//
//	counter := mouse.NewClickCounter(mouse.DefaultDoubleClickTime, 1)
//	if counter.Record(ev) == mouse.ClickDouble {
//	    store.SetInteracting(id)
//	}
//
// Positions are measured in cells. Distance is the Manhattan distance,
// used both for double-click proximity and for the drag start threshold.
package mouse
