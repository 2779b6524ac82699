// Package loader reads configuration sources into generic maps.
//
// Files are TOML and may pull in other files with an @include directive.
// Environment variables with a prefix override file values. Sources are
// combined with DeepMerge before being decoded into typed settings.
package loader

import (
	"io/fs"
	"os"
)

// FileSystem reads configuration files. Tests substitute MapFS.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS reads from the operating system.
func DefaultFS() FileSystem {
	return osFS{}
}

// MapFS adapts an fs.FS, such as fstest.MapFS or an embed.FS.
type MapFS struct {
	FS fs.FS
}

// ReadFile implements FileSystem.
func (m MapFS) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(m.FS, path)
}

// DeepMerge returns base overlaid with over. Tables merge key by key at
// every level; any other value in over replaces the one in base. Neither
// argument is modified and the result is never nil.
func DeepMerge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		sub, isTable := v.(map[string]any)
		prev, prevTable := out[k].(map[string]any)
		if isTable && prevTable {
			out[k] = DeepMerge(prev, sub)
			continue
		}
		out[k] = v
	}
	return out
}
