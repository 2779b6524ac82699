package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// DefaultAutosaveInterval is how often a dirty document is saved.
const DefaultAutosaveInterval = 30 * time.Second

// Saver stores serialized documents.
type Saver interface {
	Save(ctx context.Context, data []byte) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(ctx context.Context, data []byte) error

// Save implements Saver.
func (f SaverFunc) Save(ctx context.Context, data []byte) error {
	return f(ctx, data)
}

// AutosaveStatus reports the outcome of recent saves.
type AutosaveStatus struct {
	LastSaved    time.Time
	LastRevision uint64
	LastError    error
	Saves        int
	Failures     int
}

// Autosaver periodically saves a store while it is dirty.
type Autosaver struct {
	store    *Store
	saver    Saver
	interval time.Duration
	logger   zerolog.Logger

	group singleflight.Group

	mu     sync.Mutex
	status AutosaveStatus
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithInterval sets the save period.
func WithInterval(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithAutosaveLogger sets the logger.
func WithAutosaveLogger(logger zerolog.Logger) AutosaveOption {
	return func(a *Autosaver) {
		a.logger = logger
	}
}

// NewAutosaver creates an autosaver for store.
func NewAutosaver(store *Store, saver Saver, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		store:    store,
		saver:    saver,
		interval: DefaultAutosaveInterval,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With().Str("component", "autosave").Logger()
	return a
}

// Interval returns the save period.
func (a *Autosaver) Interval() time.Duration {
	return a.interval
}

// Run saves the store every interval until ctx is done. Failed saves are
// retried on the next tick. It returns ctx.Err().
func (a *Autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.SaveNow(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("autosave failed")
			}
		}
	}
}

// SaveNow saves the store if it is dirty. Calls made while a save is in
// flight share its result instead of starting another one.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	_, err, shared := a.group.Do("save", func() (any, error) {
		return nil, a.save(ctx)
	})
	if shared {
		a.logger.Debug().Msg("joined in-flight save")
	}
	return err
}

func (a *Autosaver) save(ctx context.Context) error {
	if !a.store.IsDirty() {
		return nil
	}

	snap, err := a.store.Snapshot()
	if err != nil {
		return a.fail(fmt.Errorf("serializing document: %w", err))
	}
	if err := a.saver.Save(ctx, snap.Data); err != nil {
		return a.fail(fmt.Errorf("saving document: %w", err))
	}

	clean := a.store.MarkSaved(snap.Revision)

	a.mu.Lock()
	a.status.LastSaved = time.Now()
	a.status.LastRevision = snap.Revision
	a.status.LastError = nil
	a.status.Saves++
	a.mu.Unlock()

	a.logger.Debug().
		Uint64("revision", snap.Revision).
		Int("bytes", len(snap.Data)).
		Bool("clean", clean).
		Msg("document saved")
	return nil
}

func (a *Autosaver) fail(err error) error {
	a.mu.Lock()
	a.status.LastError = err
	a.status.Failures++
	a.mu.Unlock()
	return err
}

// Status returns the outcome of recent saves.
func (a *Autosaver) Status() AutosaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}
