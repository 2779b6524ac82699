package script

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagecraft/internal/editor"
)

// DefaultTimeout bounds a single Run.
const DefaultTimeout = 5 * time.Second

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each Run. Zero disables the bound; the caller's
// context still applies.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithOutput sets where print writes. Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger.With().Str("component", "script").Logger()
	}
}

// Runner executes scripts against one store. A Runner keeps its Lua state
// between runs, so globals defined by one script are visible to the next.
//
// gopher-lua states are not goroutine-safe; Runner serializes all runs.
type Runner struct {
	mu      sync.Mutex
	L       *lua.LState
	store   *editor.Store
	timeout time.Duration
	out     io.Writer
	logger  zerolog.Logger

	txDepth int
	closed  bool
}

// NewRunner creates a sandboxed runner bound to store.
func NewRunner(store *editor.Store, opts ...Option) *Runner {
	r := &Runner{
		store:   store,
		timeout: DefaultTimeout,
		out:     io.Discard,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.L = newState()
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
	r.L.SetGlobal("page", r.pageModule())
	return r
}

func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Run compiles and executes code. name identifies the chunk in error
// messages.
func (r *Runner) Run(ctx context.Context, name, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}

	fn, err := r.L.Load(strings.NewReader(code), name)
	if err != nil {
		return &Error{Name: name, Err: err}
	}
	return r.call(ctx, name, fn)
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, filepath.Base(path), string(data))
}

func (r *Runner) call(ctx context.Context, name string, fn *lua.LFunction) (err error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	defer func() {
		r.txDepth = 0
		if rec := recover(); rec != nil {
			err = &Error{Name: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	start := time.Now()
	r.L.Push(fn)
	if callErr := r.L.PCall(0, 0, nil); callErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			callErr = ctxErr
		}
		r.logger.Debug().Err(callErr).Str("script", name).Msg("script failed")
		return &Error{Name: name, Err: callErr}
	}
	r.logger.Debug().Str("script", name).Dur("elapsed", time.Since(start)).Msg("script done")
	return nil
}

// Close releases the Lua state. Later runs return ErrClosed.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	if _, err := fmt.Fprintln(r.out, strings.Join(parts, "\t")); err != nil {
		r.logger.Warn().Err(err).Msg("print failed")
	}
	return 0
}
