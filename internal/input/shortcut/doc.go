// Package shortcut routes keyboard chords to editor actions.
//
// The Router resolves each key event through a keymap to an action name and
// runs the handler registered for it. A handler reports whether it consumed
// the key; when an action's precondition is unmet (nothing to undo, no
// selection, focus inside a text field) the key is not intercepted and the
// host may give it to the focused widget.
//
//	r := shortcut.NewRouter(store)
//	if !r.Handle(ev, shortcut.Focus{InTextField: field.Focused()}) {
//	    field.HandleKey(ev)
//	}
package shortcut
