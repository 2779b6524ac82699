package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/app"
	"github.com/dshills/pagecraft/internal/document"
	"github.com/dshills/pagecraft/internal/editor"
	"github.com/dshills/pagecraft/internal/script"
)

func newRunCommand(e *env) *cobra.Command {
	var (
		dryRun  bool
		show    bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <script.lua>...",
		Short: "Apply Lua scripts to a document",
		Long: `Run Lua scripts against the document and save the result.

Scripts use the global page table to edit the tree:

  local hero = page.insert(page.root, "section")
  page.insert(hero, "heading", {text = "Welcome", level = 1})
  page.insert(hero, "button", {label = "Start"})

Scripts run in order against the same document. A failing script stops
the run and nothing is saved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			catalog, err := e.catalog()
			if err != nil {
				return err
			}
			store := editor.New(catalog,
				editor.WithLogger(e.logger),
				editor.WithHistoryLimit(e.cfg.History.MaxEntries),
			)

			docs := document.NewFileStore(e.cfg.Document.Path, document.WithLogger(e.logger))
			if docs.Exists() {
				t, _, err := docs.Load(ctx)
				if err != nil {
					return err
				}
				if err := store.Replace(t); err != nil {
					return err
				}
			}

			runner := script.NewRunner(store,
				script.WithOutput(cmd.OutOrStdout()),
				script.WithTimeout(timeout),
				script.WithLogger(e.logger),
			)
			defer runner.Close()

			for _, path := range args {
				if err := runner.RunFile(ctx, path); err != nil {
					return err
				}
			}

			if show {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(app.Outline(store.Tree(), catalog), "\n"))
			}
			if dryRun || !store.IsDirty() {
				return nil
			}
			saver := editor.NewAutosaver(store, docs, editor.WithAutosaveLogger(e.logger))
			if err := saver.SaveNow(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (%d components)\n", docs.Path(), store.Tree().Len()-1)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "run the scripts without saving")
	flags.BoolVar(&show, "show", false, "print the resulting outline")
	flags.DurationVar(&timeout, "timeout", script.DefaultTimeout, "time limit per script (0 for none)")
	return cmd
}
