package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

// Modifiers. Alt is Option and Meta is Cmd on macOS.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
	ModAlt   Modifier = 1 << 3
	ModMeta  Modifier = 1 << 4
)

// modifierOrder is the display and chord order.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
	{ModMeta, "Cmd"},
	{ModShift, "Shift"},
}

// Has reports whether any modifier of mod is held.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m plus mod.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns m minus mod.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// Command reports whether the platform command key is held: Ctrl, or Cmd
// on macOS.
func (m Modifier) Command() bool {
	return m.Has(ModCtrl | ModMeta)
}

// String formats m as "Ctrl+Shift"; ModNone is empty.
func (m Modifier) String() string {
	var b strings.Builder
	for _, o := range modifierOrder {
		if !m.Has(o.mod) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('+')
		}
		b.WriteString(o.name)
	}
	return b.String()
}

// Accepted spellings in "Ctrl+Shift+Z" chords.
var modifierNames = map[string]Modifier{
	"ctrl": ModCtrl, "control": ModCtrl,
	"alt": ModAlt, "opt": ModAlt, "option": ModAlt,
	"shift": ModShift,
	"meta": ModMeta, "cmd": ModMeta, "command": ModMeta, "super": ModMeta,
}

// Letters accepted in "<C-S-z>" chords. D is Cmd.
var vimModifiers = map[string]Modifier{
	"c": ModCtrl,
	"a": ModAlt,
	"s": ModShift,
	"m": ModMeta,
	"d": ModMeta,
}

// ModifierFromName looks up a modifier spelling, ignoring case and
// surrounding space. Unknown names give ModNone.
func ModifierFromName(name string) Modifier {
	return modifierNames[strings.ToLower(strings.TrimSpace(name))]
}
