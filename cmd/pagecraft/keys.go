package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/app"
	"github.com/dshills/pagecraft/internal/input/keymap"
)

func newKeysCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the editor's key bindings",
		Long: `List the key bindings the editor uses, including overrides from the
[keymap] section of the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			km, err := app.BuildKeymap(e.cfg.Keymap, nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, group := range keymap.GroupByCategory(km.Bindings()) {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, strings.ToUpper(group.Name))
				for _, b := range group.Bindings {
					desc := b.Description
					if desc == "" {
						desc = b.Action
					}
					fmt.Fprintf(w, "  %s\t%s\n", b.Keys, desc)
				}
			}
			return w.Flush()
		},
	}
}
