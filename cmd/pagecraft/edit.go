package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/app"
	"github.com/dshills/pagecraft/internal/config"
)

func newEditCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [document]",
		Short: "Open the terminal editor",
		Long: `Open the terminal editor on a document. The document is created on
first save if it does not exist. Keymap changes in the config file apply
while the editor runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, e, args)
		},
	}
}

func runEdit(cmd *cobra.Command, e *env, args []string) error {
	e.cfg.Document.Path = e.document(args)

	catalog, err := e.catalog()
	if err != nil {
		return err
	}

	var reloader *config.Reloader
	if fileExists(e.configPath) {
		reloader, err = config.NewReloader(e.configPath, config.Options{}, e.logger)
		if err != nil {
			e.logger.Warn().Err(err).Msg("config reload disabled")
			reloader = nil
		}
	}

	application, err := app.New(cmd.Context(), app.Options{
		Config:   e.cfg,
		Reloader: reloader,
		Catalog:  catalog,
		Logger:   e.logger,
	})
	if err != nil {
		return err
	}
	return application.Run(cmd.Context())
}
