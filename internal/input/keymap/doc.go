// Package keymap maps key chords to editor actions.
//
// A Keymap is a named set of bindings. Each binding maps one chord to an
// action name such as "history.undo". Chords are compared in their
// normalized form, so "Ctrl+Shift+Z" and "<C-S-z>" are the same binding.
//
// # Overrides
//
// User configuration may rebind or unbind chords:
//
//	[keymap]
//	"<C-S-d>" = "component.duplicate"
//	"<C-d>"   = "none"
//
// # Usage
//
//	km := keymap.Default()
//	if b, ok := km.Lookup(ev); ok {
//	    // run b.Action
//	}
package keymap
