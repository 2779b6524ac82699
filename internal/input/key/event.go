package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event represents a single key press.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a key event for a special key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{Key: key, Modifiers: mods}
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsChar returns true if this is a printable character typed without
// Ctrl, Alt or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && unicode.IsPrint(e.Rune) && !e.Modifiers.Has(ModCtrl|ModAlt|ModMeta)
}

// Normalize returns the canonical form of e used for chord matching.
//
// A letter typed with Ctrl, Alt or Meta is lowercased and an uppercase
// letter sets Shift, so "Ctrl+Z" and "Ctrl+Shift+z" match. For plain
// characters Shift is part of the character and is dropped.
func (e Event) Normalize() Event {
	if !e.IsRune() {
		return e
	}
	if !e.Modifiers.Has(ModCtrl | ModAlt | ModMeta) {
		e.Modifiers = e.Modifiers.Without(ModShift)
		return e
	}
	if unicode.IsUpper(e.Rune) {
		e.Rune = unicode.ToLower(e.Rune)
		e.Modifiers = e.Modifiers.With(ModShift)
	}
	return e
}

// Chord returns the canonical Vim-style notation of the normalized event.
// Examples: "a", "A", "<Space>", "<C-z>", "<C-S-z>", "<D-y>", "<Del>".
func (e Event) Chord() string {
	n := e.Normalize()
	if n.IsChar() && n.Rune != ' ' && n.Rune != '<' {
		return string(n.Rune)
	}

	var parts []string
	if n.Modifiers.Has(ModCtrl) {
		parts = append(parts, "C")
	}
	if n.Modifiers.Has(ModAlt) {
		parts = append(parts, "A")
	}
	if n.Modifiers.Has(ModMeta) {
		parts = append(parts, "D")
	}
	if n.Modifiers.Has(ModShift) {
		parts = append(parts, "S")
	}

	switch {
	case n.Key == KeyRune && n.Rune == ' ':
		parts = append(parts, "Space")
	case n.Key == KeyRune && n.Rune == '<':
		parts = append(parts, "lt")
	case n.Key == KeyRune:
		parts = append(parts, string(n.Rune))
	default:
		parts = append(parts, n.Key.String())
	}
	return "<" + strings.Join(parts, "-") + ">"
}

// String returns the chord notation.
func (e Event) String() string {
	return e.Chord()
}

// Equals returns true if two events are the same chord.
func (e Event) Equals(other Event) bool {
	a, b := e.Normalize(), other.Normalize()
	return a.Key == b.Key && a.Rune == b.Rune && a.Modifiers == b.Modifiers
}

// Matches checks if this event matches a key specification string.
func (e Event) Matches(spec string) bool {
	parsed, err := Parse(spec)
	if err != nil {
		return false
	}
	return e.Equals(parsed)
}

// IsEscape returns true if this is the Escape key (with no modifiers).
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape && e.Modifiers == ModNone
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
