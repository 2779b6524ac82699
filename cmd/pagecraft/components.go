package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/engine/registry"
	"github.com/dshills/pagecraft/internal/engine/tree"
	"github.com/dshills/pagecraft/internal/input/fuzzy"
)

func newComponentsCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "components [query]",
		Aliases: []string{"kinds"},
		Short:   "List the component kinds",
		Long: `List the component kinds scripts and the editor can place. With a
query, only kinds whose id or name fuzzy-match it are shown, best first.

Examples:
  pagecraft components
  pagecraft components btn`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := e.catalog()
			if err != nil {
				return err
			}

			var query string
			if len(args) > 0 {
				query = args[0]
			}
			schemas := findKinds(catalog, query)
			if len(schemas) == 0 {
				return fmt.Errorf("no component matches %q", query)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tNAME\tCHILDREN\tDEFAULTS")
			for _, s := range schemas {
				children := "no"
				if s.AcceptsChildren {
					children = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, children, formatDefaults(s.DefaultProps))
			}
			return w.Flush()
		},
	}
}

// findKinds returns the placeable kinds matching query by id or name.
func findKinds(catalog *registry.Registry, query string) []registry.Schema {
	var items []fuzzy.Item
	for _, s := range catalog.All() {
		if s.ID == tree.RootComponentID {
			continue
		}
		items = append(items, fuzzy.Item{Text: s.ID, Data: s})
		if s.Name != "" && !strings.EqualFold(s.Name, s.ID) {
			items = append(items, fuzzy.Item{Text: s.Name, Data: s})
		}
	}

	var out []registry.Schema
	seen := make(map[string]bool)
	for _, r := range fuzzy.Match(query, items, 0) {
		s := r.Item.Data.(registry.Schema)
		if !seen[s.ID] {
			seen[s.ID] = true
			out = append(out, s)
		}
	}
	return out
}

func formatDefaults(props map[string]any) string {
	if len(props) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, props[k])
	}
	return strings.Join(parts, " ")
}
