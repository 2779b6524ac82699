package app

import (
	"context"
	"errors"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/editor"
)

// cancelled marks the interrupt posted when Run's context ends.
type cancelled struct{}

// Run draws the editor and processes terminal events until the user quits
// or ctx is cancelled. With autosave enabled, pending changes are saved
// before Run returns.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return &InitError{Component: "screen", Err: err}
		}
		app.screen = screen
	}
	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()
	app.screen.EnableMouse()
	app.screen.EnableFocus()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Autosave marks the document saved from its own goroutine.
	unsubscribe := app.store.Subscribe(func(c editor.Change) {
		if c.Kind == editor.ChangeSaved {
			app.wake()
		}
	})
	defer unsubscribe()

	if app.cfg.Autosave.Enabled {
		go func() {
			if err := app.saver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				app.logger.Warn().Err(err).Msg("autosave stopped")
			}
		}()
	}
	if app.reloader != nil {
		if err := app.reloader.Start(); err != nil {
			app.logger.Warn().Err(err).Msg("config watch unavailable")
		}
		defer app.reloader.Stop()
	}
	go func() {
		<-ctx.Done()
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(cancelled{}))
	}()

	app.logger.Info().Str("document", app.docs.Path()).Msg("editor started")
	app.draw()
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		err := app.HandleEvent(ev)
		if errors.Is(err, ErrQuit) {
			return app.finish()
		}
		if err != nil {
			return err
		}
	}
}

// finish waits for saves in flight, then saves pending changes when
// autosave is on.
func (app *Application) finish() error {
	app.saves.Wait()
	if !app.cfg.Autosave.Enabled {
		return nil
	}
	return app.saver.SaveNow(context.Background())
}

// HandleEvent processes one terminal event and redraws. It returns ErrQuit
// when the editor should exit.
func (app *Application) HandleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
	case *tcell.EventKey:
		app.handleKey(e)
	case *tcell.EventMouse:
		app.handleMouse(e)
	case *tcell.EventFocus:
		if !e.Focused {
			app.loseCapture()
		}
	case *tcell.EventInterrupt:
		if _, ok := e.Data().(cancelled); ok {
			return ErrQuit
		}
	}

	app.mu.Lock()
	quitting := app.quitting
	app.mu.Unlock()
	if quitting {
		return ErrQuit
	}

	app.draw()
	return nil
}
