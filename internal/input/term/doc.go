// Package term translates tcell terminal events into editor input events.
//
// Keys become key.Event values whose chords match keymap bindings. Legacy
// control codes (tcell.KeyCtrlA through tcell.KeyCtrlZ) are reported as
// the letter with Ctrl held. Terminal mouse reports carry button state
// rather than transitions, so MouseDecoder remembers the previous state to
// produce press, drag and release actions.
package term
