package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// IncludeKey names the files a config file is layered over:
//
//	"@include" = ["base.toml", "keys.toml"]
//
// Relative paths resolve against the including file. Later includes win
// over earlier ones and the including file wins over all of them.
const IncludeKey = "@include"

// maxIncludeDepth bounds include chains, which also stops cycles.
const maxIncludeDepth = 8

// ErrIncludeDepthExceeded is returned for include chains that are too
// deep or cyclic.
var ErrIncludeDepthExceeded = errors.New("include depth exceeded")

// TOMLLoader reads one TOML file and its includes.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoaderWithFS returns a loader for path read through fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fsys, path: path}
}

// Load returns the merged file contents. A missing file yields nil and no
// error; a missing include is an error.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.load(l.path, maxIncludeDepth)
}

func (l *TOMLLoader) load(path string, depth int) (map[string]any, error) {
	if depth == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeDepthExceeded)
	}

	data, err := l.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	values, err := parse(path, data)
	if err != nil {
		return nil, err
	}

	raw, ok := values[IncludeKey]
	if !ok {
		return values, nil
	}
	delete(values, IncludeKey)
	includes, err := includeList(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	layered := map[string]any{}
	for _, inc := range includes {
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(filepath.Dir(path), inc)
		}
		if _, err := l.fs.ReadFile(inc); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: include %s: %w", path, inc, err)
		}
		sub, err := l.load(inc, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", inc, err)
		}
		layered = DeepMerge(layered, sub)
	}
	return DeepMerge(layered, values), nil
}

func includeList(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", IncludeKey, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a string or a list of strings, got %T", IncludeKey, v)
}

func parse(source string, data []byte) (map[string]any, error) {
	var values map[string]any
	if err := toml.Unmarshal(data, &values); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

// ParseError reports a malformed config file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
