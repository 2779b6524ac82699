package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/registry"
	"github.com/dshills/pagecraft/internal/engine/tree"
)

// Catalog resolves component kinds for the store.
// *registry.Registry implements it.
type Catalog interface {
	tree.Schema
	Template(id, componentID string, props map[string]any) (*tree.Node, error)
}

// ResponsiveMode is the viewport the page is previewed in.
type ResponsiveMode string

// Responsive modes.
const (
	Desktop ResponsiveMode = "desktop"
	Tablet  ResponsiveMode = "tablet"
	Mobile  ResponsiveMode = "mobile"
)

// Valid reports whether m is a known mode.
func (m ResponsiveMode) Valid() bool {
	switch m {
	case Desktop, Tablet, Mobile:
		return true
	}
	return false
}

// Snapshot is a serialized document at a given revision.
type Snapshot struct {
	Data     []byte
	Revision uint64
}

// Store is the single source of truth for one document being edited.
type Store struct {
	mu sync.Mutex

	catalog Catalog
	history *history.History
	ids     tree.IDGenerator
	zones   tree.ZoneFactory
	system  Clipboard
	logger  zerolog.Logger

	tree        tree.Tree
	selected    string
	interacting string
	clipboard   *tree.Node
	dirty       bool
	revision    uint64
	responsive  ResponsiveMode
	preview     bool

	observers    map[int]Observer
	nextObserver int

	historyLimit int
}

// New creates a store editing an empty page. A nil catalog uses the
// built-in component kinds.
func New(catalog Catalog, opts ...Option) *Store {
	s := &Store{
		catalog:      catalog,
		ids:          tree.UUIDGenerator{},
		logger:       zerolog.Nop(),
		responsive:   Desktop,
		observers:    make(map[int]Observer),
		historyLimit: defaultHistoryLimit(),
	}
	if s.catalog == nil {
		s.catalog = registry.NewWithDefaults()
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With().Str("component", "store").Logger()
	s.zones = tree.DefaultZones(s.ids)
	s.history = history.NewHistory(s.historyLimit)

	if s.tree.IsZero() {
		s.tree = tree.New()
	} else if repaired, stale := tree.RepairZones(s.tree, s.zones); len(stale) > 0 {
		s.logger.Warn().Strs("nodes", stale).Msg("repaired zone counts")
		s.tree = repaired
	}
	return s
}

// ============================================================================
// Read Operations
// ============================================================================

// Tree returns the current document. Trees are immutable and safe to keep.
func (s *Store) Tree() tree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Find returns the node with the given id, or nil.
func (s *Store) Find(id string) *tree.Node {
	return s.Tree().Find(id)
}

// Locate returns the parent id and index of a node.
func (s *Store) Locate(id string) (parentID string, index int, ok bool) {
	return tree.Locate(s.Tree().Root(), id)
}

// Contains reports whether id is ancestorID or one of its descendants.
func (s *Store) Contains(ancestorID, id string) bool {
	return tree.Contains(s.Tree().Root(), ancestorID, id)
}

// AcceptsChildren reports whether nodes of the kind may have children.
func (s *Store) AcceptsChildren(componentID string) bool {
	return componentID == tree.RootComponentID || s.catalog.AcceptsChildren(componentID)
}

// Selected returns the selected instance id, or "".
func (s *Store) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Interacting returns the id of the node in interaction mode, or "".
func (s *Store) Interacting() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interacting
}

// IsDirty reports whether the document changed since it was last saved.
func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Revision returns a counter bumped by every change of the document.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// HasClipboard reports whether something was copied.
func (s *Store) HasClipboard() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clipboard != nil
}

// CanUndo returns true if undo is available.
func (s *Store) CanUndo() bool {
	return s.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (s *Store) CanRedo() bool {
	return s.history.CanRedo()
}

// PeekUndo describes the edit Undo would revert.
func (s *Store) PeekUndo() (history.OperationInfo, bool) {
	return s.history.PeekUndo()
}

// PeekRedo describes the edit Redo would reapply.
func (s *Store) PeekRedo() (history.OperationInfo, bool) {
	return s.history.PeekRedo()
}

// ResponsiveMode returns the current preview viewport.
func (s *Store) ResponsiveMode() ResponsiveMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responsive
}

// Preview reports whether preview mode is on.
func (s *Store) Preview() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview
}

// ============================================================================
// Selection
// ============================================================================

// Select selects a node. An empty id clears the selection; unknown ids are
// ignored. Selecting anything other than the interacting node exits
// interaction mode. It reports whether the state changed.
func (s *Store) Select(id string) bool {
	s.mu.Lock()
	if id != "" && s.tree.Find(id) == nil {
		s.mu.Unlock()
		s.logger.Debug().Str("id", id).Msg("select: unknown node")
		return false
	}
	if id == s.selected {
		s.mu.Unlock()
		return false
	}
	s.selected = id
	if s.interacting != "" && s.interacting != id {
		s.interacting = ""
	}
	notify := s.changeLocked(ChangeSelection, "")
	s.mu.Unlock()

	notify()
	return true
}

// SetInteracting enters interaction mode for the selected node, or exits it
// when id is empty. Only the selected node can enter interaction mode.
func (s *Store) SetInteracting(id string) bool {
	s.mu.Lock()
	if id == s.interacting || (id != "" && id != s.selected) {
		s.mu.Unlock()
		return false
	}
	s.interacting = id
	notify := s.changeLocked(ChangeSelection, "")
	s.mu.Unlock()

	notify()
	return true
}

// ============================================================================
// Structural Edits
// ============================================================================

// Insert adds a subtree under parentID at index (negative appends). Nodes
// without an instance id get a fresh one; props are normalized to their
// JSON form. It reports false if the insert was rejected.
func (s *Store) Insert(parentID string, node *tree.Node, index int) bool {
	prepared, err := s.prepare(node)
	if err != nil {
		s.logger.Debug().Err(err).Msg("insert: invalid node")
		return false
	}
	return s.execute(history.NewInsertCommand(s, parentID, prepared, index))
}

// InsertTemplate creates a node of componentID from its registry defaults,
// overridden by props, and inserts it. Multi-zone kinds get their zones.
// It returns the new instance id.
func (s *Store) InsertTemplate(parentID, componentID string, props map[string]any, index int) (string, bool) {
	normalized, err := tree.NormalizeProps(props)
	if err != nil {
		s.logger.Debug().Err(err).Str("kind", componentID).Msg("insert template: bad props")
		return "", false
	}
	node, err := s.catalog.Template(s.ids.NewID(), componentID, normalized)
	if err != nil {
		s.logger.Debug().Err(err).Str("kind", componentID).Msg("insert template")
		return "", false
	}
	node = tree.WithZones(node, s.zones)
	if !s.execute(history.NewInsertCommand(s, parentID, node, index)) {
		return "", false
	}
	return node.InstanceID, true
}

// Move moves a subtree to newParentID. newIndex is the node's final position
// among the new parent's children.
func (s *Store) Move(id, newParentID string, newIndex int) bool {
	return s.execute(history.NewMoveCommand(s, id, newParentID, newIndex))
}

// Remove deletes a subtree. If the selected or interacting node was inside
// it, that state is cleared.
func (s *Store) Remove(id string) bool {
	return s.execute(history.NewRemoveCommand(id))
}

// Duplicate inserts a deep copy of a subtree right after it and returns the
// copy's id. The selection does not change.
func (s *Store) Duplicate(id string) (string, bool) {
	cmd := history.NewDuplicateCommand(s.ids, id)
	if !s.execute(cmd) {
		return "", false
	}
	return cmd.CloneID(), true
}

// UpdateProps merges props into a node. Changing the zone prop of a
// multi-zone node resizes its zones in the same undo step.
func (s *Store) UpdateProps(id string, props map[string]any) bool {
	normalized, err := tree.NormalizeProps(props)
	if err != nil {
		s.logger.Debug().Err(err).Str("id", id).Msg("update props: bad props")
		return false
	}
	return s.execute(history.NewUpdatePropsCommand(id, normalized, s.zones))
}

// Undo reverts the last edit.
func (s *Store) Undo() bool {
	return s.replay(s.history.Undo, "undo")
}

// Redo reapplies the last undone edit.
func (s *Store) Redo() bool {
	return s.replay(s.history.Redo, "redo")
}

// Transaction runs fn so that every edit it makes becomes one undo entry.
// If fn returns an error the document is restored to its state before fn
// and the error is returned.
func (s *Store) Transaction(name string, fn func() error) error {
	s.mu.Lock()
	start := s.tree
	selected, interacting := s.selected, s.interacting
	s.mu.Unlock()

	err := s.history.Transaction(name, fn)
	if err == nil {
		return nil
	}

	s.mu.Lock()
	if s.tree.Root() == start.Root() {
		s.mu.Unlock()
		return err
	}
	s.tree = start
	s.selected, s.interacting = selected, interacting
	s.dropStaleLocked()
	notify := s.changeLocked(ChangeTree, "rollback "+name)
	s.mu.Unlock()

	notify()
	return err
}

// execute runs cmd against the current tree and records it.
func (s *Store) execute(cmd history.Command) bool {
	s.mu.Lock()
	next, err := s.history.Execute(cmd, s.tree)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, history.ErrNoChange) {
			s.logger.Debug().Str("op", cmd.Description()).Msg("no-op edit")
		} else {
			s.logger.Warn().Err(err).Str("op", cmd.Description()).Msg("edit failed")
		}
		return false
	}
	s.tree = next
	s.dropStaleLocked()
	notify := s.changeLocked(ChangeTree, cmd.Description())
	s.mu.Unlock()

	notify()
	return true
}

func (s *Store) replay(step func(tree.Tree) (tree.Tree, error), op string) bool {
	s.mu.Lock()
	next, err := step(s.tree)
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, history.ErrNothingToUndo) || errors.Is(err, history.ErrNothingToRedo) {
			s.logger.Debug().Str("op", op).Msg("history empty")
		} else {
			s.logger.Warn().Err(err).Str("op", op).Msg("history replay failed")
		}
		return false
	}
	s.tree = next
	s.dropStaleLocked()
	notify := s.changeLocked(ChangeTree, op)
	s.mu.Unlock()

	notify()
	return true
}

// dropStaleLocked clears selection state that points at nodes no longer in
// the tree.
func (s *Store) dropStaleLocked() {
	if s.selected != "" && s.tree.Find(s.selected) == nil {
		s.selected = ""
	}
	if s.interacting != "" && (s.interacting != s.selected || s.tree.Find(s.interacting) == nil) {
		s.interacting = ""
	}
}

// prepare deep-copies node, fills in missing ids and normalizes props.
func (s *Store) prepare(node *tree.Node) (*tree.Node, error) {
	if node == nil {
		return nil, tree.ErrNilNode
	}
	var err error
	var fill func(n *tree.Node) *tree.Node
	fill = func(n *tree.Node) *tree.Node {
		cp := tree.NewNode(n.InstanceID, n.ComponentID, nil)
		if cp.InstanceID == "" {
			cp.InstanceID = s.ids.NewID()
		}
		props, perr := tree.NormalizeProps(n.Props)
		if perr != nil && err == nil {
			err = fmt.Errorf("%s: %w", cp.InstanceID, perr)
		}
		cp.Props = props
		for _, c := range n.Children {
			cp.Children = append(cp.Children, fill(c))
		}
		return cp
	}
	out := fill(node)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ============================================================================
// Clipboard
// ============================================================================

// Copy puts a deep copy of a subtree on the clipboard.
func (s *Store) Copy(id string) bool {
	s.mu.Lock()
	node := s.tree.Find(id)
	if node == nil || id == tree.RootID {
		s.mu.Unlock()
		s.logger.Debug().Str("id", id).Msg("copy: nothing to copy")
		return false
	}
	s.clipboard = tree.Clone(node)
	system := s.system
	s.mu.Unlock()

	if system != nil {
		if err := writeClipboard(system, node); err != nil {
			s.logger.Warn().Err(err).Msg("mirroring to system clipboard")
		}
	}
	return true
}

// Paste inserts a copy of the clipboard with fresh ids under parentID and
// returns the new id. The selection does not change.
func (s *Store) Paste(parentID string, index int) (string, bool) {
	s.mu.Lock()
	content := s.clipboard
	system := s.system
	s.mu.Unlock()

	if content == nil && system != nil {
		var err error
		content, err = readClipboard(system)
		if err != nil {
			s.logger.Debug().Err(err).Msg("paste: system clipboard holds no component")
		} else if !s.wellFormed(content) {
			s.logger.Debug().Msg("paste: clipboard subtree breaks nesting rules")
			content = nil
		}
	}
	if content == nil {
		return "", false
	}

	clone := tree.CloneWithNewIDs(content, s.ids)
	cmd := history.NewInsertCommand(s, parentID, clone, index)
	cmd.Label = "Paste " + clone.ComponentID
	if !s.execute(cmd) {
		return "", false
	}
	return clone.InstanceID, true
}

// wellFormed reports whether every node of n with children accepts them and
// every multi-zone node has the right number of zones.
func (s *Store) wellFormed(n *tree.Node) bool {
	ok := true
	tree.Walk(n, func(c *tree.Node, _ *tree.Node, _ int) bool {
		if len(c.Children) > 0 && !s.AcceptsChildren(c.ComponentID) {
			ok = false
		}
		if want, multi := tree.ZoneCount(c); multi && want != len(c.Children) {
			ok = false
		}
		return ok
	})
	return ok
}

// ============================================================================
// View State
// ============================================================================

// SetResponsiveMode switches the preview viewport.
func (s *Store) SetResponsiveMode(mode ResponsiveMode) bool {
	if !mode.Valid() {
		return false
	}
	s.mu.Lock()
	if s.responsive == mode {
		s.mu.Unlock()
		return false
	}
	s.responsive = mode
	notify := s.changeLocked(ChangeView, string(mode))
	s.mu.Unlock()

	notify()
	return true
}

// SetPreview turns preview mode on or off. Entering preview exits
// interaction mode.
func (s *Store) SetPreview(on bool) bool {
	s.mu.Lock()
	if s.preview == on {
		s.mu.Unlock()
		return false
	}
	s.preview = on
	if on {
		s.interacting = ""
	}
	notify := s.changeLocked(ChangeView, "preview")
	s.mu.Unlock()

	notify()
	return true
}

// ============================================================================
// Persistence
// ============================================================================

// Serialize encodes the current document as JSON.
func (s *Store) Serialize() ([]byte, error) {
	return tree.Marshal(s.Tree())
}

// Snapshot serializes the current document and reports the revision it
// was taken at. Pass the revision to MarkSaved once the data is stored.
func (s *Store) Snapshot() (Snapshot, error) {
	s.mu.Lock()
	t, rev := s.tree, s.revision
	s.mu.Unlock()

	data, err := tree.Marshal(t)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Data: data, Revision: rev}, nil
}

// MarkSaved clears the dirty flag if the document has not changed since
// the snapshot at revision was taken. It reports whether it did.
func (s *Store) MarkSaved(revision uint64) bool {
	s.mu.Lock()
	if revision != s.revision || !s.dirty {
		s.mu.Unlock()
		return false
	}
	s.dirty = false
	notify := s.notifierLocked(Change{Kind: ChangeSaved, Revision: s.revision})
	s.mu.Unlock()

	notify()
	return true
}

// Load replaces the document with a serialized tree. History, selection and
// the dirty flag are reset. Multi-zone nodes whose zone count disagrees
// with their props are repaired.
func (s *Store) Load(data []byte) error {
	t, err := tree.Unmarshal(data)
	if err != nil {
		return err
	}
	return s.Replace(t)
}

// Replace installs t as the document, as Load does.
func (s *Store) Replace(t tree.Tree) error {
	if err := tree.Validate(t); err != nil && !errors.Is(err, tree.ErrZoneMismatch) {
		return err
	}
	repaired, stale := tree.RepairZones(t, s.zones)
	if len(stale) > 0 {
		s.logger.Warn().Strs("nodes", stale).Msg("repaired zone counts")
	}

	s.mu.Lock()
	s.tree = repaired
	s.selected, s.interacting = "", ""
	s.history.Clear()
	s.revision++
	s.dirty = false
	notify := s.notifierLocked(Change{Kind: ChangeLoaded, Revision: s.revision})
	s.mu.Unlock()

	notify()
	return nil
}

// changeLocked bumps the revision for tree changes and returns a function
// that notifies observers. Call it with s.mu held and the result without.
func (s *Store) changeLocked(kind ChangeKind, desc string) func() {
	if kind == ChangeTree {
		s.revision++
		s.dirty = true
	}
	return s.notifierLocked(Change{Kind: kind, Description: desc, Revision: s.revision})
}
