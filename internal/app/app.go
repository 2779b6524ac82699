package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/document"
	"github.com/dshills/pagecraft/internal/editor"
	"github.com/dshills/pagecraft/internal/engine/registry"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/keymap"
	"github.com/dshills/pagecraft/internal/input/mouse"
	"github.com/dshills/pagecraft/internal/input/shortcut"
	"github.com/dshills/pagecraft/internal/input/term"
)

// Application actions bound in addition to the editor defaults.
const (
	ActionSave = "document.save"
	ActionQuit = "app.quit"
)

// Options configures the application.
type Options struct {
	// Config holds the settings. Nil uses config.Default.
	Config *config.Config

	// Reloader, if set, supplies keymap changes while running.
	Reloader *config.Reloader

	// Catalog lists the component kinds. Nil uses the built-in kinds plus
	// any definitions named by Config.Registry.Path.
	Catalog *registry.Registry

	// Screen is the terminal. Nil opens the real terminal on Run.
	Screen tcell.Screen

	// Saver, if set, receives saved documents instead of the document file.
	Saver editor.Saver

	// Logger receives diagnostics. The zero value discards them.
	Logger zerolog.Logger
}

// Application is the running editor.
type Application struct {
	cfg      *config.Config
	reloader *config.Reloader
	catalog  *registry.Registry
	logger   zerolog.Logger

	screen tcell.Screen
	store  *editor.Store
	docs   *document.FileStore
	saver  *editor.Autosaver
	router *shortcut.Router
	drag   *dnd.Controller

	decoder term.MouseDecoder
	clicks  *mouse.ClickCounter
	palette []registry.Schema
	view    outline

	mu          sync.Mutex
	status      string
	quitArmed   bool
	confirmQuit bool
	quitting    bool

	saves   sync.WaitGroup
	running atomic.Bool
}

// New creates the application and loads the document if it exists.
func New(ctx context.Context, opts Options) (*Application, error) {
	app := &Application{
		cfg:      opts.Config,
		reloader: opts.Reloader,
		catalog:  opts.Catalog,
		screen:   opts.Screen,
		logger:   opts.Logger.With().Str("component", "app").Logger(),
	}
	if app.cfg == nil {
		app.cfg = config.Default()
	}
	if err := app.bootstrap(ctx, opts); err != nil {
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap(ctx context.Context, opts Options) error {
	cfg, logger := app.cfg, opts.Logger

	// 1. Component kinds
	if app.catalog == nil {
		app.catalog = registry.NewWithDefaults()
		if cfg.Registry.Path != "" {
			ids, err := app.catalog.LoadFile(cfg.Registry.Path)
			if err != nil {
				return &InitError{Component: "registry", Err: err}
			}
			app.logger.Info().Strs("kinds", ids).Msg("loaded component definitions")
		}
	}
	app.palette = paletteOrder(app.catalog)

	// 2. Store
	storeOpts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithHistoryLimit(cfg.History.MaxEntries),
	}
	if cfg.Clipboard.System && editor.SystemClipboardAvailable() {
		storeOpts = append(storeOpts, editor.WithClipboard(editor.SystemClipboard{}))
	}
	app.store = editor.New(app.catalog, storeOpts...)

	// 3. Document
	app.docs = document.NewFileStore(cfg.Document.Path, document.WithLogger(logger))
	if app.docs.Exists() {
		t, meta, err := app.docs.Load(ctx)
		if err != nil {
			return &InitError{Component: "document", Err: err}
		}
		if err := app.store.Replace(t); err != nil {
			return &InitError{Component: "document", Err: err}
		}
		app.logger.Info().Str("path", app.docs.Path()).Time("saved_at", meta.SavedAt).Msg("document loaded")
	}
	var saver editor.Saver = app.docs
	if opts.Saver != nil {
		saver = opts.Saver
	}
	app.saver = editor.NewAutosaver(app.store, saver,
		editor.WithInterval(cfg.Autosave.Interval.Std()),
		editor.WithAutosaveLogger(logger),
	)

	// 4. Shortcuts
	app.router = shortcut.NewRouter(app.store, shortcut.WithLogger(logger))
	app.router.Register(ActionSave, func(shortcut.Focus) bool {
		app.save(context.Background())
		return true
	})
	app.router.Register(ActionQuit, func(shortcut.Focus) bool {
		app.quit()
		return true
	})
	if err := app.applyKeymap(cfg); err != nil {
		app.setStatus(fmt.Sprintf("keymap: %v", err))
	}

	// 5. Pointer
	app.drag = dnd.NewController(app.store,
		dnd.WithThreshold(cfg.Drag.Threshold),
		dnd.WithLogger(logger),
	)
	app.clicks = mouse.NewClickCounter(cfg.Drag.DoubleClick.Std(), 0)

	// 6. Live config
	if app.reloader != nil {
		app.reloader.OnReload(func(next *config.Config) {
			if err := app.applyKeymap(next); err != nil {
				app.setStatus(fmt.Sprintf("keymap: %v", err))
			} else {
				app.setStatus("keymap reloaded")
			}
			app.wake()
		})
	}
	return nil
}

// applyKeymap installs the keymap for cfg. On error the current keymap is
// kept.
func (app *Application) applyKeymap(cfg *config.Config) error {
	km, err := BuildKeymap(cfg.Keymap, app.router.Known())
	if err != nil {
		return err
	}
	app.router.SetKeymap(km)
	return nil
}

// BuildKeymap returns the default keymap plus the application bindings
// with overrides applied. A nil known set accepts the default actions and
// the application actions.
func BuildKeymap(overrides map[string]string, known map[string]bool) (*keymap.Keymap, error) {
	if known == nil {
		known = keymap.Actions()
		known[ActionSave] = true
		known[ActionQuit] = true
	}
	km := keymap.Default()
	km.MustAdd(keymap.NewBinding("<C-s>", ActionSave).
		WithDescription("Save document").
		WithCategory("Document"))
	km.MustAdd(keymap.NewBinding("<C-q>", ActionQuit).
		WithDescription("Quit").
		WithCategory("Document"))
	if err := km.ApplyOverrides(overrides, known); err != nil {
		return nil, err
	}
	return km, nil
}

// paletteOrder lists the placeable kinds: built-ins in their usual order,
// then the rest by id.
func paletteOrder(catalog *registry.Registry) []registry.Schema {
	var out []registry.Schema
	seen := make(map[string]bool)
	for _, b := range registry.Builtins() {
		if b.ID == tree.RootComponentID {
			continue
		}
		if s, ok := catalog.Lookup(b.ID); ok && !seen[s.ID] {
			seen[s.ID] = true
			out = append(out, s)
		}
	}
	for _, s := range catalog.Palette() {
		if !seen[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// Store returns the document store.
func (app *Application) Store() *editor.Store {
	return app.store
}

// Status returns the status line message.
func (app *Application) Status() string {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.status
}

func (app *Application) setStatus(msg string) {
	app.mu.Lock()
	app.status = msg
	app.mu.Unlock()
}

// wake asks the event loop to redraw.
func (app *Application) wake() {
	if app.screen != nil && app.running.Load() {
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// save writes the document on its own goroutine; the outcome lands in the
// status line.
func (app *Application) save(ctx context.Context) {
	app.setStatus("saving " + app.docs.Path())
	app.saves.Add(1)
	go func() {
		defer app.saves.Done()
		if err := app.saver.SaveNow(ctx); err != nil {
			app.setStatus(fmt.Sprintf("save failed: %v", err))
		} else {
			app.setStatus("saved " + app.docs.Path())
		}
		app.wake()
	}()
}

// quit ends the session. With unsaved changes and no autosave, the first
// request only warns.
func (app *Application) quit() {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.store.IsDirty() && !app.cfg.Autosave.Enabled && !app.confirmQuit {
		app.quitArmed = true
		app.status = "unsaved changes: quit again to discard"
		return
	}
	app.quitting = true
}
