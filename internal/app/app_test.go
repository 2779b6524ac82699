package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/document"
	"github.com/dshills/pagecraft/internal/editor"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/dnd"
	"github.com/dshills/pagecraft/internal/input/mouse"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Document.Path = filepath.Join(t.TempDir(), "page.json")
	cfg.Autosave.Enabled = false
	cfg.Clipboard.System = false
	cfg.Drag.Threshold = 1
	return cfg
}

func newApp(t *testing.T, cfg *config.Config) (*Application, tcell.SimulationScreen) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(60, 16)
	t.Cleanup(screen.Fini)

	app, err := New(context.Background(), Options{Config: cfg, Screen: screen})
	require.NoError(t, err)
	app.draw()
	return app, screen
}

func sendKey(t *testing.T, app *Application, k tcell.Key, r rune, mod tcell.ModMask) error {
	t.Helper()
	return app.HandleEvent(tcell.NewEventKey(k, r, mod))
}

func typeRune(t *testing.T, app *Application, r rune) {
	t.Helper()
	require.NoError(t, sendKey(t, app, tcell.KeyRune, r, tcell.ModNone))
}

func ctrl(t *testing.T, app *Application, r rune) error {
	t.Helper()
	return sendKey(t, app, tcell.KeyRune, r, tcell.ModCtrl)
}

func special(t *testing.T, app *Application, k tcell.Key) {
	t.Helper()
	require.NoError(t, sendKey(t, app, k, 0, tcell.ModNone))
}

func mouseAt(t *testing.T, app *Application, x, y int, buttons tcell.ButtonMask) {
	t.Helper()
	require.NoError(t, app.HandleEvent(tcell.NewEventMouse(x, y, buttons, tcell.ModNone)))
}

func screenLine(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		c := cells[y*width+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func rootKinds(s *editor.Store) []string {
	var kinds []string
	for _, c := range s.Tree().Root().Children {
		kinds = append(kinds, c.ComponentID)
	}
	return kinds
}

func TestPaletteOrder(t *testing.T) {
	app, screen := newApp(t, nil)

	require.NotEmpty(t, app.palette)
	assert.Equal(t, tree.ContainerComponentID, app.palette[0].ID)
	for _, s := range app.palette {
		assert.NotEqual(t, tree.RootComponentID, s.ID)
	}
	assert.True(t, strings.HasPrefix(screenLine(screen, paletteLine), " 1 Container 2 Section"))

	for i := 0; i < 10; i++ {
		d, ok := digitFor(i)
		require.True(t, ok)
		back, ok := paletteIndex(d)
		require.True(t, ok)
		assert.Equal(t, i, back)
	}
	_, ok := digitFor(10)
	assert.False(t, ok)
}

func TestDigitsInsertNextToSelection(t *testing.T) {
	app, screen := newApp(t, nil)
	s := app.Store()

	typeRune(t, app, '2') // section at the page
	typeRune(t, app, '3') // heading inside the selected section
	typeRune(t, app, '4') // text after the selected heading

	root := s.Tree().Root()
	require.Len(t, root.Children, 1)
	section := root.Children[0]
	assert.Equal(t, "section", section.ComponentID)
	require.Len(t, section.Children, 2)
	assert.Equal(t, "heading", section.Children[0].ComponentID)
	assert.Equal(t, "text", section.Children[1].ComponentID)
	assert.Equal(t, section.Children[1].InstanceID, s.Selected())

	assert.Contains(t, screenLine(screen, bodyTop+2), `Heading "Heading"`)
	assert.Contains(t, app.Status(), "inserted Text")
}

func TestArrowNavigation(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	typeRune(t, app, '2')
	typeRune(t, app, '3')
	section := s.Tree().Root().Children[0]
	heading := section.Children[0]

	special(t, app, tcell.KeyUp)
	assert.Equal(t, section.InstanceID, s.Selected())
	special(t, app, tcell.KeyDown)
	assert.Equal(t, heading.InstanceID, s.Selected())
	special(t, app, tcell.KeyLeft)
	assert.Equal(t, section.InstanceID, s.Selected())
	special(t, app, tcell.KeyLeft)
	assert.Equal(t, tree.RootID, s.Selected())
	special(t, app, tcell.KeyRight)
	assert.Equal(t, section.InstanceID, s.Selected())
	special(t, app, tcell.KeyEnd)
	assert.Equal(t, heading.InstanceID, s.Selected())
	special(t, app, tcell.KeyHome)
	assert.Equal(t, tree.RootID, s.Selected())
}

func TestAltArrowsReorder(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	typeRune(t, app, '4') // text
	typeRune(t, app, '9') // tabs after it
	assert.Equal(t, []string{"text", "tabs"}, rootKinds(s))

	require.NoError(t, sendKey(t, app, tcell.KeyUp, 0, tcell.ModAlt))
	assert.Equal(t, []string{"tabs", "text"}, rootKinds(s))
	require.NoError(t, sendKey(t, app, tcell.KeyUp, 0, tcell.ModAlt))
	assert.Equal(t, []string{"tabs", "text"}, rootKinds(s))
	require.NoError(t, sendKey(t, app, tcell.KeyDown, 0, tcell.ModAlt))
	assert.Equal(t, []string{"text", "tabs"}, rootKinds(s))
}

func TestShortcutsReachTheStore(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	typeRune(t, app, '4')
	require.Equal(t, 2, s.Tree().Len())

	require.NoError(t, ctrl(t, app, 'z'))
	assert.Equal(t, 1, s.Tree().Len())
	require.NoError(t, ctrl(t, app, 'y'))
	assert.Equal(t, 2, s.Tree().Len())

	special(t, app, tcell.KeyDown)
	special(t, app, tcell.KeyDown)
	require.NotEqual(t, tree.RootID, s.Selected())
	special(t, app, tcell.KeyDelete)
	assert.Equal(t, 1, s.Tree().Len())
}

func TestInteractionMode(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	typeRune(t, app, '4')
	id := s.Selected()

	special(t, app, tcell.KeyEnter)
	assert.Equal(t, id, s.Interacting())

	// Keys belong to the node while interacting.
	special(t, app, tcell.KeyDelete)
	typeRune(t, app, '4')
	assert.Equal(t, 2, s.Tree().Len())

	special(t, app, tcell.KeyEscape)
	assert.Empty(t, s.Interacting())
	assert.Equal(t, id, s.Selected())

	special(t, app, tcell.KeyEscape)
	assert.Empty(t, s.Selected())
}

func TestSaveAndQuit(t *testing.T) {
	cfg := testConfig(t)
	app, _ := newApp(t, cfg)
	s := app.Store()

	typeRune(t, app, '2')
	require.True(t, s.IsDirty())
	require.NoError(t, ctrl(t, app, 's'))
	app.saves.Wait()
	assert.False(t, s.IsDirty())
	assert.Contains(t, app.Status(), "saved")

	loaded, _, err := document.NewFileStore(cfg.Document.Path).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, tree.Equal(s.Tree().Root(), loaded.Root()))

	typeRune(t, app, '4')
	require.NoError(t, ctrl(t, app, 'q'))
	assert.Contains(t, app.Status(), "unsaved changes")

	// Any other key disarms the quit.
	special(t, app, tcell.KeyUp)
	require.NoError(t, ctrl(t, app, 'q'))
	assert.ErrorIs(t, ctrl(t, app, 'q'), ErrQuit)
}

func TestSaveDoesNotBlockEditing(t *testing.T) {
	cfg := testConfig(t)
	started := make(chan struct{})
	release := make(chan struct{})
	var saved []byte
	saver := editor.SaverFunc(func(_ context.Context, data []byte) error {
		close(started)
		<-release
		saved = data
		return nil
	})

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	app, err := New(context.Background(), Options{Config: cfg, Screen: screen, Saver: saver})
	require.NoError(t, err)
	s := app.Store()

	typeRune(t, app, '2')
	require.NoError(t, ctrl(t, app, 's'))
	<-started
	assert.Contains(t, app.Status(), "saving")

	typeRune(t, app, '4')
	assert.Len(t, s.Tree().Root().Children[0].Children, 1, "edits go through while saving")

	close(release)
	app.saves.Wait()
	assert.Contains(t, app.Status(), "saved")
	assert.True(t, s.IsDirty(), "the edit made during the save is still pending")
	assert.Contains(t, string(saved), `"section"`)
	assert.NotContains(t, string(saved), `"text"`)
}

func TestQuitWhenClean(t *testing.T) {
	app, _ := newApp(t, nil)
	assert.ErrorIs(t, ctrl(t, app, 'q'), ErrQuit)
}

func TestLoadsExistingDocument(t *testing.T) {
	cfg := testConfig(t)

	src := editor.New(nil, editor.WithIDs(tree.NewSequence("n")))
	sec, ok := src.InsertTemplate(tree.RootID, "section", nil, -1)
	require.True(t, ok)
	_, ok = src.InsertTemplate(sec, "button", nil, -1)
	require.True(t, ok)
	require.NoError(t, document.NewFileStore(cfg.Document.Path).SaveTree(context.Background(), src.Tree()))

	app, screen := newApp(t, cfg)
	assert.True(t, tree.Equal(src.Tree().Root(), app.Store().Tree().Root()))
	assert.False(t, app.Store().IsDirty())
	assert.Contains(t, screenLine(screen, bodyTop+2), `Button "Click me"`)
}

func TestBrokenDocumentFailsStartup(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Document.Path, []byte(`{"version": 7, "tree": {}}`), 0o600))

	_, err := New(context.Background(), Options{Config: cfg, Screen: tcell.NewSimulationScreen("UTF-8")})
	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "document", initErr.Component)
	assert.ErrorIs(t, err, document.ErrUnsupportedVersion)
}

func TestMouseDragMovesNode(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	a, _ := s.InsertTemplate(tree.RootID, "text", map[string]any{"text": "a"}, -1)
	b, _ := s.InsertTemplate(tree.RootID, "text", map[string]any{"text": "b"}, -1)
	app.draw()

	// Rows: page, a, b.
	mouseAt(t, app, 4, bodyTop+2, tcell.Button1)
	assert.Equal(t, b, s.Selected())
	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	assert.Equal(t, dnd.Dragging, app.drag.State())
	mouseAt(t, app, 4, bodyTop+1, tcell.ButtonNone)

	root := s.Tree().Root()
	assert.Equal(t, b, root.Children[0].InstanceID)
	assert.Equal(t, a, root.Children[1].InstanceID)
	assert.Equal(t, "moved to root[0]", app.Status())

	require.NoError(t, ctrl(t, app, 'z'))
	assert.Equal(t, a, s.Tree().Root().Children[0].InstanceID)
}

func TestPaletteDragInserts(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()

	mouseAt(t, app, 3, paletteLine, tcell.Button1)
	mouseAt(t, app, 3, bodyTop, tcell.Button1)
	mouseAt(t, app, 3, bodyTop, tcell.ButtonNone)

	assert.Equal(t, []string{tree.ContainerComponentID}, rootKinds(s))
	assert.Equal(t, s.Tree().Root().Children[0].InstanceID, s.Selected())
	assert.Equal(t, "inserted Container", app.Status())
}

func TestReleaseOutsideCancels(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()
	_, _ = s.InsertTemplate(tree.RootID, "text", nil, -1)
	app.draw()

	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	mouseAt(t, app, 4, paletteLine, tcell.Button1)
	mouseAt(t, app, 4, paletteLine, tcell.ButtonNone)

	assert.Equal(t, "drop cancelled", app.Status())
	assert.Equal(t, dnd.Idle, app.drag.State())
}

func TestEscapeCancelsDrag(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()
	a, _ := s.InsertTemplate(tree.RootID, "text", nil, -1)
	_, _ = s.InsertTemplate(tree.RootID, "image", nil, -1)
	app.draw()

	mouseAt(t, app, 4, bodyTop+2, tcell.Button1)
	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	require.Equal(t, dnd.Dragging, app.drag.State())

	special(t, app, tcell.KeyEscape)
	assert.Equal(t, dnd.Idle, app.drag.State())
	assert.Equal(t, "drag cancelled", app.Status())
	assert.NotEmpty(t, s.Selected(), "escape during a drag keeps the selection")

	mouseAt(t, app, 4, bodyTop+1, tcell.ButtonNone)
	assert.Equal(t, a, s.Tree().Root().Children[0].InstanceID)
}

func TestFocusLossCancelsDrag(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()
	_, _ = s.InsertTemplate(tree.RootID, "text", nil, -1)
	_, _ = s.InsertTemplate(tree.RootID, "image", nil, -1)
	app.draw()

	mouseAt(t, app, 4, bodyTop+2, tcell.Button1)
	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	require.NoError(t, app.HandleEvent(tcell.NewEventFocus(false)))

	assert.Equal(t, dnd.Idle, app.drag.State())
	assert.Equal(t, "drop cancelled", app.Status())
}

func TestDoubleClickEntersInteraction(t *testing.T) {
	app, _ := newApp(t, nil)
	s := app.Store()
	id, _ := s.InsertTemplate(tree.RootID, "text", nil, -1)
	app.draw()

	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	mouseAt(t, app, 4, bodyTop+1, tcell.ButtonNone)
	mouseAt(t, app, 4, bodyTop+1, tcell.Button1)
	mouseAt(t, app, 4, bodyTop+1, tcell.ButtonNone)

	assert.Equal(t, id, s.Interacting())
}

func TestKeymapOverrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Keymap = map[string]string{
		"<C-s>": "none",
		"<C-w>": ActionSave,
	}
	app, _ := newApp(t, cfg)

	typeRune(t, app, '2')
	require.NoError(t, ctrl(t, app, 's'))
	assert.True(t, app.Store().IsDirty())
	require.NoError(t, ctrl(t, app, 'w'))
	assert.False(t, app.Store().IsDirty())

	require.Error(t, app.applyKeymap(&config.Config{Keymap: map[string]string{"<C-e>": "no.such.action"}}))
	typeRune(t, app, '3')
	require.NoError(t, ctrl(t, app, 'w'))
	assert.False(t, app.Store().IsDirty(), "a rejected keymap leaves the current one in place")
}

func TestResponsiveAndPreview(t *testing.T) {
	app, screen := newApp(t, nil)
	_, height := screen.Size()

	special(t, app, tcell.KeyF2)
	assert.Equal(t, editor.Tablet, app.Store().ResponsiveMode())
	special(t, app, tcell.KeyF5)
	assert.True(t, app.Store().Preview())
	assert.Contains(t, screenLine(screen, height-1), "tablet preview")

	special(t, app, tcell.KeyF2)
	special(t, app, tcell.KeyF2)
	assert.Equal(t, editor.Desktop, app.Store().ResponsiveMode())
}

func TestScrollKeepsSelectionVisible(t *testing.T) {
	app, screen := newApp(t, nil)
	s := app.Store()
	_, height := screen.Size()

	var last string
	for i := 0; i < height*2; i++ {
		last, _ = s.InsertTemplate(tree.RootID, "divider", nil, -1)
	}
	s.Select(last)
	app.draw()
	assert.Positive(t, app.view.top)

	r, ok := app.view.rowAt(mouse.Pos(0, height-2))
	require.True(t, ok)
	assert.Equal(t, last, r.id)

	top := app.view.top
	mouseAt(t, app, 0, bodyTop, tcell.WheelUp)
	assert.Equal(t, top-1, app.view.top)
	mouseAt(t, app, 0, bodyTop, tcell.WheelDown)
	mouseAt(t, app, 0, bodyTop, tcell.WheelDown)
	assert.Equal(t, top, app.view.top, "scrolling stops at the last row")
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	screen := tcell.NewSimulationScreen("UTF-8")
	app, err := New(context.Background(), Options{Config: cfg, Screen: screen})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
