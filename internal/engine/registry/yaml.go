package registry

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pagecraft/internal/engine/tree"
)

// definitionFile is the YAML layout of extra component kinds:
//
//	components:
//	  - id: hero
//	    name: Hero banner
//	    acceptsChildren: true
//	    defaultProps:
//	      title: Welcome
type definitionFile struct {
	Components []definition `yaml:"components"`
}

type definition struct {
	ID              string         `yaml:"id"`
	Name            string         `yaml:"name"`
	AcceptsChildren bool           `yaml:"acceptsChildren"`
	DefaultProps    map[string]any `yaml:"defaultProps"`
}

// LoadYAML reads component definitions from r and puts them into the
// registry, replacing built-ins with the same id. It returns the ids loaded.
// Nothing is registered if any definition is invalid.
func (r *Registry) LoadYAML(src io.Reader) ([]string, error) {
	var file definitionFile
	if err := yaml.NewDecoder(src).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing component definitions: %w", err)
	}

	schemas := make([]Schema, 0, len(file.Components))
	seen := make(map[string]bool, len(file.Components))
	for i, d := range file.Components {
		if d.ID == "" {
			return nil, fmt.Errorf("%w: entry %d has no id", ErrInvalidDefinition, i)
		}
		if d.ID == tree.RootComponentID {
			return nil, fmt.Errorf("%w: %s", ErrReservedComponent, d.ID)
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: %s defined twice", ErrInvalidDefinition, d.ID)
		}
		seen[d.ID] = true

		props, err := tree.NormalizeProps(d.DefaultProps)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, d.ID, err)
		}
		schemas = append(schemas, Schema{
			ID:              d.ID,
			Name:            d.Name,
			AcceptsChildren: d.AcceptsChildren,
			DefaultProps:    props,
		})
	}

	ids := make([]string, 0, len(schemas))
	for _, s := range schemas {
		if err := r.Put(s); err != nil {
			return ids, err
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// LoadFile reads component definitions from a YAML file.
func (r *Registry) LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return r.LoadYAML(f)
}
