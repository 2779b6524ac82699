// Package app is the terminal page editor.
//
// The screen has three parts: a palette line listing the component kinds,
// an outline of the document with one row per node, and a status line.
//
//	Up/Down, Home/End     move the selection through the outline
//	Left/Right            select the parent or the first child
//	Alt+Up/Alt+Down       move the selected node among its siblings
//	Enter                 enter interaction mode for the selected node
//	1-9, 0                insert the numbered palette kind
//	F2                    cycle desktop, tablet and mobile
//	F5                    toggle preview
//	Ctrl+S, Ctrl+Q        save, quit
//
// Editing shortcuts such as undo, redo, delete, duplicate, copy and paste
// come from the keymap. Dragging a palette entry or a row with the mouse
// inserts or moves a node; a double click enters interaction mode.
package app
