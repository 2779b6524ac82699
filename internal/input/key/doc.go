// Package key provides key chord types and parsing for editor shortcuts.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: identifies a keyboard key (special keys, function keys, or runes)
//   - Modifier: represents modifier keys (Ctrl, Alt, Shift, Meta/Cmd)
//   - Event: a single key press with modifiers
//
// # Key Specifications
//
// Chords can be written in two formats:
//
//   - With modifiers: "Ctrl+Z", "Cmd+Shift+Z", "Delete"
//   - Vim-style: "<C-z>", "<C-S-z>", "<D-z>", "<Del>", "<Esc>"
//
// Both parse to the same Event. Event.Chord returns the canonical Vim-style
// form, which keymaps use as their lookup key. Unlike plain typing, chords
// keep Shift on letters: <C-z> and <C-S-z> are different chords.
package key
