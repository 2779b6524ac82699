package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(e *env) *cobra.Command {
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file and
PAGECRAFT_* environment variables are combined.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pathOnly {
				fmt.Fprintln(cmd.OutOrStdout(), e.configPath)
				return nil
			}
			data, err := e.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&pathOnly, "path", false, "print only the config file location")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pagecraft %s (commit %s, built %s)\n", version, commit, date)
			return nil
		},
	}
}
