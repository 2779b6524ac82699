package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/dshills/pagecraft/internal/app"
	"github.com/dshills/pagecraft/internal/document"
	"github.com/dshills/pagecraft/internal/engine/tree"
)

func newShowCommand(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [document]",
		Short: "Print a document's component tree",
		Long: `Print a document as an outline, one component per line.

Examples:
  # Outline of the configured document
  pagecraft show

  # The tree as indented JSON
  pagecraft show site/home.json --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := document.NewFileStore(e.document(args), document.WithLogger(e.logger))
			t, meta, err := docs.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := tree.Marshal(t)
				if err != nil {
					return err
				}
				_, err = out.Write(pretty.Pretty(data))
				return err
			}

			catalog, err := e.catalog()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s (%d components", docs.Path(), t.Len()-1)
			if !meta.SavedAt.IsZero() {
				fmt.Fprintf(out, ", saved %s", meta.SavedAt.Local().Format("2006-01-02 15:04"))
			}
			fmt.Fprintln(out, ")")
			fmt.Fprintln(out, strings.Join(app.Outline(t, catalog), "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	return cmd
}
