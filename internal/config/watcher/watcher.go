// Package watcher provides file watching for configuration live reload.
//
// The watcher monitors a configuration file for changes and calls its
// handlers once the file has been quiet for the debounce interval. The
// file's directory is watched rather than the file itself so that editors
// which save by renaming a temporary file are still seen.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherClosed is returned when starting a stopped watcher.
var ErrWatcherClosed = errors.New("watcher closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last change in the burst occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before handlers run.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger.With().Str("component", "config-watcher").Logger()
	}
}

// Watcher monitors one file for changes.
type Watcher struct {
	mu       sync.Mutex
	path     string
	debounce time.Duration
	logger   zerolog.Logger
	handlers []Handler

	fsw     *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
	closed  bool

	// pending coalesces a burst of events into one.
	pending *Event
	timer   *time.Timer
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: 100 * time.Millisecond,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// Start begins watching. It is a no-op if already running. The file need
// not exist yet but its directory must.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.done = make(chan struct{})
	w.running = true
	w.wg.Add(1)
	go w.loop(fsw, w.done)
	return nil
}

// Stop stops watching and drops any pending event. A stopped watcher
// cannot be restarted.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.closed = true
		w.mu.Unlock()
		return
	}
	w.running = false
	w.closed = true
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.pending = nil
	fsw := w.fsw
	w.mu.Unlock()

	_ = fsw.Close()
	w.wg.Wait()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) loop(fsw *fsnotify.Watcher, done chan struct{}) {
	defer w.wg.Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			w.queue(Event{Path: w.path, Op: convertOp(ev.Op), Time: time.Now()})
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")
		}
	}
}

func convertOp(op fsnotify.Op) Operation {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	case op.Has(fsnotify.Create):
		return OpCreate
	default:
		return OpWrite
	}
}

// queue coalesces events: remove wins over everything, create wins over
// write, and the burst keeps the latest time.
func (w *Watcher) queue(ev Event) {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	if w.pending != nil {
		switch {
		case w.pending.Op == OpRemove && ev.Op != OpCreate:
			ev.Op = OpRemove
		case w.pending.Op == OpCreate && ev.Op == OpWrite:
			ev.Op = OpCreate
		}
	}
	w.pending = &ev

	if w.debounce == 0 {
		w.mu.Unlock()
		w.flush()
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
	w.mu.Unlock()
}

func (w *Watcher) flush() {
	w.mu.Lock()
	ev := w.pending
	w.pending = nil
	w.timer = nil
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	if ev == nil {
		return
	}
	w.logger.Debug().Str("path", ev.Path).Str("op", ev.Op.String()).Msg("config file changed")
	for _, h := range handlers {
		w.safeCall(h, *ev)
	}
}

// safeCall calls a handler with panic recovery so a bad handler cannot
// stop later deliveries.
func (w *Watcher) safeCall(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Interface("panic", r).Msg("change handler panicked")
		}
	}()
	h(ev)
}
