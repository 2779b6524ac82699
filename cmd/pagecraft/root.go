package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/engine/registry"
	"github.com/dshills/pagecraft/internal/logging"
)

// env is the state shared by all commands, filled in before each runs.
type env struct {
	configPath   string
	documentPath string
	logLevel     string

	cfg      *config.Config
	logger   zerolog.Logger
	closeLog func() error
}

func newRootCommand() *cobra.Command {
	e := &env{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "pagecraft [document]",
		Short: "Build web pages as trees of components",
		Long: `Pagecraft edits page documents: trees of components such as sections,
headings, columns and tabs. Run it without a command to open the terminal
editor, or use the commands below to inspect documents and script edits.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if e.closeLog == nil {
				return nil
			}
			return e.closeLog()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, e, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&e.configPath, "config", "c", config.DefaultPath(), "config file")
	flags.StringVarP(&e.documentPath, "document", "d", "", "document file (overrides the config)")
	flags.StringVar(&e.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")

	root.AddCommand(
		newEditCommand(e),
		newShowCommand(e),
		newRunCommand(e),
		newComponentsCommand(e),
		newKeysCommand(e),
		newConfigCommand(e),
		newVersionCommand(),
	)
	return root
}

// setup loads the config, applies flag overrides and opens the logger.
// The editor owns the terminal, so it logs only to a file.
func (e *env) setup(cmd *cobra.Command) error {
	e.closeLog = func() error { return nil }

	cfg, err := config.Load(e.configPath, config.Options{})
	if err != nil {
		return err
	}
	if e.documentPath != "" {
		cfg.Document.Path = e.documentPath
	}
	if e.logLevel != "" {
		cfg.Logging.Level = e.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	e.cfg = cfg

	interactive := cmd == cmd.Root() || cmd.Name() == "edit"
	if interactive && cfg.Logging.File == "" {
		e.logger = zerolog.Nop()
		return nil
	}

	opts := cfg.LoggingOptions()
	if opts.File == "" {
		opts.Output = cmd.ErrOrStderr()
	}
	logger, closeLog, err := logging.Open(opts)
	if err != nil {
		return err
	}
	e.logger, e.closeLog = logger, closeLog
	return nil
}

// catalog returns the built-in kinds plus those from the registry file.
func (e *env) catalog() (*registry.Registry, error) {
	catalog := registry.NewWithDefaults()
	if path := e.cfg.Registry.Path; path != "" {
		if _, err := catalog.LoadFile(path); err != nil {
			return nil, fmt.Errorf("loading components: %w", err)
		}
	}
	return catalog, nil
}

// document returns the document path, preferring an argument.
func (e *env) document(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return e.cfg.Document.Path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
