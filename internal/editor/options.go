package editor

import (
	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/tree"
)

// Option configures a Store during creation.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDs sets the instance id generator. The default issues UUIDs.
func WithIDs(ids tree.IDGenerator) Option {
	return func(s *Store) {
		if ids != nil {
			s.ids = ids
		}
	}
}

// WithHistoryLimit sets the maximum number of undo entries.
func WithHistoryLimit(max int) Option {
	return func(s *Store) {
		if max > 0 {
			s.historyLimit = max
		}
	}
}

// WithClipboard mirrors copied subtrees to an external clipboard as JSON.
// Paste falls back to it when the store's own clipboard is empty.
func WithClipboard(c Clipboard) Option {
	return func(s *Store) {
		s.system = c
	}
}

// WithTree sets the initial document.
func WithTree(t tree.Tree) Option {
	return func(s *Store) {
		s.tree = t
	}
}

func defaultHistoryLimit() int {
	return history.DefaultMaxEntries
}
