package shortcut

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/key"
	"github.com/dshills/pagecraft/internal/input/keymap"
)

// Editor is the part of the editor store the default actions drive.
type Editor interface {
	Selected() string
	Interacting() string
	Select(id string) bool
	SetInteracting(id string) bool

	CanUndo() bool
	CanRedo() bool
	Undo() bool
	Redo() bool

	Remove(id string) bool
	Duplicate(id string) (string, bool)
	Copy(id string) bool
	Paste(parentID string, index int) (string, bool)
}

// Focus describes where keyboard focus is when a key arrives.
type Focus struct {
	// InTextField is set while a text input, textarea or select has focus.
	InTextField bool

	// HasTextSelection is set while the platform reports selected text.
	HasTextSelection bool
}

// HandlerFunc runs an action. It returns false when the action's
// precondition is unmet and the key should not be intercepted.
type HandlerFunc func(focus Focus) bool

// Option configures a Router.
type Option func(*Router)

// WithKeymap sets the keymap used to resolve chords.
func WithKeymap(km *keymap.Keymap) Option {
	return func(r *Router) {
		if km != nil {
			r.keymap = km
		}
	}
}

// WithLogger sets the router logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Router) {
		r.logger = logger.With().Str("component", "shortcut").Logger()
	}
}

// Router maps key events to editor actions.
type Router struct {
	mu       sync.RWMutex
	editor   Editor
	keymap   *keymap.Keymap
	handlers map[string]HandlerFunc
	logger   zerolog.Logger
}

// NewRouter creates a router with the default keymap and the default
// actions bound to editor.
func NewRouter(editor Editor, opts ...Option) *Router {
	r := &Router{
		editor:   editor,
		keymap:   keymap.Default(),
		handlers: make(map[string]HandlerFunc),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.registerDefaults()
	return r
}

// Keymap returns the keymap the router resolves chords with.
func (r *Router) Keymap() *keymap.Keymap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.keymap
}

// SetKeymap replaces the keymap, for example after a config reload.
func (r *Router) SetKeymap(km *keymap.Keymap) {
	if km == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keymap = km
}

// Register sets the handler for an action, replacing any existing one.
func (r *Router) Register(action string, h HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h == nil {
		delete(r.handlers, action)
		return
	}
	r.handlers[action] = h
}

// Actions returns the names of all registered actions, sorted.
func (r *Router) Actions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known returns the registered actions as a set, suitable for
// keymap.ApplyOverrides.
func (r *Router) Known() map[string]bool {
	known := make(map[string]bool)
	for _, name := range r.Actions() {
		known[name] = true
	}
	return known
}

// Handle resolves ev and runs the bound action. It reports whether the key
// was intercepted.
func (r *Router) Handle(ev key.Event, focus Focus) bool {
	b, ok := r.Keymap().Lookup(ev)
	if !ok {
		return false
	}
	handled := r.Dispatch(b.Action, focus)
	r.logger.Debug().
		Str("chord", ev.Chord()).
		Str("action", b.Action).
		Bool("handled", handled).
		Msg("shortcut")
	return handled
}

// Dispatch runs an action by name. Unknown actions are not handled.
func (r *Router) Dispatch(action string, focus Focus) bool {
	r.mu.RLock()
	h, ok := r.handlers[action]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return h(focus)
}

func (r *Router) registerDefaults() {
	ed := r.editor
	r.handlers[keymap.ActionUndo] = func(Focus) bool {
		return ed.CanUndo() && ed.Undo()
	}
	r.handlers[keymap.ActionRedo] = func(Focus) bool {
		return ed.CanRedo() && ed.Redo()
	}
	r.handlers[keymap.ActionRemove] = func(f Focus) bool {
		if f.InTextField {
			return false
		}
		id := ed.Selected()
		return id != "" && ed.Remove(id)
	}
	r.handlers[keymap.ActionDuplicate] = func(Focus) bool {
		id := ed.Selected()
		if id == "" {
			return false
		}
		_, ok := ed.Duplicate(id)
		return ok
	}
	r.handlers[keymap.ActionCopy] = func(f Focus) bool {
		if f.HasTextSelection {
			return false
		}
		id := ed.Selected()
		return id != "" && ed.Copy(id)
	}
	r.handlers[keymap.ActionPaste] = func(Focus) bool {
		_, ok := ed.Paste(tree.RootID, -1)
		return ok
	}
	r.handlers[keymap.ActionClearSelection] = func(Focus) bool {
		if ed.Interacting() != "" {
			return ed.SetInteracting("")
		}
		return ed.Selected() != "" && ed.Select("")
	}
}
