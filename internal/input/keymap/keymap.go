package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/pagecraft/internal/input/key"
)

// Keymap errors.
var (
	ErrEmptyAction   = errors.New("empty action")
	ErrUnknownAction = errors.New("unknown action")
)

// Unbind is the override value that removes a binding.
const Unbind = "none"

// Keymap holds chord bindings. It is safe for concurrent use so that a
// config watcher may apply overrides while input is being handled.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	mu       sync.RWMutex
	bindings map[string]Binding // keyed by chord
}

// NewKeymap creates an empty keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		bindings: make(map[string]Binding),
	}
}

// Add binds keys to action, replacing any existing binding of the chord.
func (k *Keymap) Add(keys, action string) error {
	return k.AddBinding(NewBinding(keys, action))
}

// AddBinding adds a fully configured binding.
func (k *Keymap) AddBinding(b Binding) error {
	if b.Action == "" {
		return fmt.Errorf("%s: %w", b.Keys, ErrEmptyAction)
	}
	ev, err := key.Parse(b.Keys)
	if err != nil {
		return fmt.Errorf("binding %q: %w", b.Keys, err)
	}
	chord := ev.Chord()

	k.mu.Lock()
	defer k.mu.Unlock()
	b.Keys = chord
	k.bindings[chord] = b
	return nil
}

// MustAdd binds keys to action and panics on error.
func (k *Keymap) MustAdd(b Binding) {
	if err := k.AddBinding(b); err != nil {
		panic(err)
	}
}

// Remove unbinds a chord. It reports whether a binding existed.
func (k *Keymap) Remove(keys string) (bool, error) {
	ev, err := key.Parse(keys)
	if err != nil {
		return false, fmt.Errorf("binding %q: %w", keys, err)
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.bindings[ev.Chord()]
	delete(k.bindings, ev.Chord())
	return ok, nil
}

// Lookup returns the binding for a key event.
func (k *Keymap) Lookup(ev key.Event) (Binding, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	b, ok := k.bindings[ev.Chord()]
	return b, ok
}

// Keys returns the chords bound to action, sorted.
func (k *Keymap) Keys(action string) []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	var out []string
	for chord, b := range k.bindings {
		if b.Action == action {
			out = append(out, chord)
		}
	}
	sort.Strings(out)
	return out
}

// Bindings returns every binding sorted by category, then chord.
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Keys < out[j].Keys
	})
	return out
}

// Len returns the number of bindings.
func (k *Keymap) Len() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return len(k.bindings)
}

// Clone creates a copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	k.mu.RLock()
	defer k.mu.RUnlock()
	clone := NewKeymap(k.Name)
	for chord, b := range k.bindings {
		clone.bindings[chord] = b
	}
	return clone
}

// ApplyOverrides rebinds chords from a chord-to-action map. The value
// "none" (or an empty string) removes the chord. If known is non-nil,
// actions outside it are rejected. All overrides are validated before any
// is applied.
func (k *Keymap) ApplyOverrides(overrides map[string]string, known map[string]bool) error {
	type change struct {
		chord  string
		action string
	}
	changes := make([]change, 0, len(overrides))
	for spec, action := range overrides {
		ev, err := key.Parse(spec)
		if err != nil {
			return fmt.Errorf("keymap override %q: %w", spec, err)
		}
		action = strings.TrimSpace(action)
		if action != "" && action != Unbind && known != nil && !known[action] {
			return fmt.Errorf("keymap override %q: %w: %s", spec, ErrUnknownAction, action)
		}
		changes = append(changes, change{chord: ev.Chord(), action: action})
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	for _, c := range changes {
		if c.action == "" || c.action == Unbind {
			delete(k.bindings, c.chord)
			continue
		}
		b := k.bindings[c.chord]
		if b.Action != c.action {
			b.Description = ""
		}
		b.Keys, b.Action = c.chord, c.action
		if b.Category == "" {
			b.Category = "User"
		}
		k.bindings[c.chord] = b
	}
	return nil
}
