// Package registry describes the component kinds a document may contain.
//
// The editor core only needs three facts about a kind: its display name,
// whether it accepts children and the props a fresh instance starts with.
// Rendering and prop validation live outside the core.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// Registry errors.
var (
	ErrUnknownComponent  = errors.New("unknown component")
	ErrAlreadyRegistered = errors.New("component already registered")
	ErrInvalidDefinition = errors.New("invalid component definition")
	ErrReservedComponent = errors.New("reserved component")
)

// Schema is the definition of one component kind.
type Schema struct {
	ID              string
	Name            string
	AcceptsChildren bool
	DefaultProps    map[string]any
}

// Registry maps component ids to their schemas.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{schemas: make(map[string]Schema)}
}

// NewWithDefaults creates a registry holding the built-in kinds.
func NewWithDefaults() *Registry {
	r := New()
	for _, s := range Builtins() {
		r.MustRegister(s)
	}
	return r
}

// Register adds a schema. It fails if the id is empty or already taken.
func (r *Registry) Register(s Schema) error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, s.ID)
	}
	r.schemas[s.ID] = normalized(s)
	return nil
}

// MustRegister registers a schema and panics on error.
func (r *Registry) MustRegister(s Schema) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Put registers s, replacing any existing definition with the same id.
// The document root kind cannot be replaced.
func (r *Registry) Put(s Schema) error {
	if s.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if s.ID == tree.RootComponentID {
		return fmt.Errorf("%w: %s", ErrReservedComponent, s.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.ID] = normalized(s)
	return nil
}

// Lookup returns the schema for componentID.
func (r *Registry) Lookup(componentID string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[componentID]
	if !ok {
		return Schema{}, false
	}
	s.DefaultProps = tree.CopyProps(s.DefaultProps)
	return s, true
}

// AcceptsChildren implements tree.Schema. Unknown kinds accept nothing.
func (r *Registry) AcceptsChildren(componentID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[componentID].AcceptsChildren
}

// Name returns the display name of a kind, or its id when unknown.
func (r *Registry) Name(componentID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schemas[componentID]; ok && s.Name != "" {
		return s.Name
	}
	return componentID
}

// Template returns a new, unattached node of the given kind. props are
// merged over the kind's defaults.
func (r *Registry) Template(id, componentID string, props map[string]any) (*tree.Node, error) {
	s, ok := r.Lookup(componentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, componentID)
	}
	if componentID == tree.RootComponentID {
		return nil, fmt.Errorf("%w: %s", ErrReservedComponent, componentID)
	}
	merged := s.DefaultProps
	for k, v := range props {
		merged[k] = v
	}
	return tree.NewNode(id, componentID, merged), nil
}

// All returns every schema sorted by id.
func (r *Registry) All() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Palette returns the kinds a user may place, sorted by id.
func (r *Registry) Palette() []Schema {
	all := r.All()
	out := all[:0]
	for _, s := range all {
		if s.ID != tree.RootComponentID {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of registered kinds.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.schemas)
}

func normalized(s Schema) Schema {
	if s.Name == "" {
		s.Name = s.ID
	}
	s.DefaultProps = tree.CopyProps(s.DefaultProps)
	return s
}
