package config

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/config/watcher"
)

// Reloader keeps the current Config in sync with its file.
type Reloader struct {
	mu        sync.RWMutex
	path      string
	opts      Options
	current   *Config
	callbacks []func(*Config)
	watcher   *watcher.Watcher
	logger    zerolog.Logger
}

// NewReloader loads path and prepares to watch it. Call Start to begin
// watching and Stop when done.
func NewReloader(path string, opts Options, logger zerolog.Logger) (*Reloader, error) {
	cfg, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	w, err := watcher.New(path, watcher.WithLogger(logger), watcher.WithDebounce(100*time.Millisecond))
	if err != nil {
		return nil, err
	}
	r := &Reloader{
		path:    path,
		opts:    opts,
		current: cfg,
		watcher: w,
		logger:  logger.With().Str("component", "config").Logger(),
	}
	w.OnChange(r.handleChange)
	return r, nil
}

// Config returns the latest valid configuration.
func (r *Reloader) Config() *Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnReload registers a callback run after each successful reload.
func (r *Reloader) OnReload(fn func(*Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, fn)
}

// Start begins watching the file.
func (r *Reloader) Start() error {
	return r.watcher.Start()
}

// Stop stops watching.
func (r *Reloader) Stop() {
	r.watcher.Stop()
}

// Reload reads the file now. An invalid file keeps the previous config.
func (r *Reloader) Reload() error {
	cfg, err := Load(r.path, r.opts)
	if err != nil {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("reload failed, keeping previous config")
		return err
	}

	r.mu.Lock()
	r.current = cfg
	callbacks := make([]func(*Config), len(r.callbacks))
	copy(callbacks, r.callbacks)
	r.mu.Unlock()

	r.logger.Info().Str("path", r.path).Msg("config reloaded")
	for _, fn := range callbacks {
		fn(cfg)
	}
	return nil
}

func (r *Reloader) handleChange(ev watcher.Event) {
	r.logger.Debug().Str("op", ev.Op.String()).Msg("config change detected")
	_ = r.Reload()
}
