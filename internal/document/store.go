package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("document not found")

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *FileStore) {
		s.logger = logger.With().Str("component", "document").Logger()
	}
}

// WithClock sets the time source for savedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// FileStore keeps one page in a file.
type FileStore struct {
	mu     sync.Mutex
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewFileStore creates a store for path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:   path,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save writes serialized tree JSON inside an envelope. The file is
// replaced atomically: readers see the old page or the new one, never a
// partial write.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := Encode(data, s.now())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("renaming temp file: %w", err)
	}

	s.logger.Debug().Str("path", s.path).Int("bytes", len(out)).Msg("saved")
	return nil
}

// SaveTree serializes and saves t.
func (s *FileStore) SaveTree(ctx context.Context, t tree.Tree) error {
	data, err := tree.Marshal(t)
	if err != nil {
		return err
	}
	return s.Save(ctx, data)
}

// Load reads the page. A missing file returns ErrNotFound.
func (s *FileStore) Load(ctx context.Context) (tree.Tree, Meta, error) {
	if err := ctx.Err(); err != nil {
		return tree.Tree{}, Meta{}, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tree.Tree{}, Meta{}, fmt.Errorf("%s: %w", s.path, ErrNotFound)
		}
		return tree.Tree{}, Meta{}, fmt.Errorf("reading %s: %w", s.path, err)
	}

	t, meta, err := Decode(data)
	if err != nil {
		return tree.Tree{}, Meta{}, fmt.Errorf("%s: %w", s.path, err)
	}
	s.logger.Debug().Str("path", s.path).Int("nodes", t.Len()).Msg("loaded")
	return t, meta, nil
}
