package cmd

import (
	"fmt"

	"github.com/fulmenhq/goldencheck/pkg/config"
	"github.com/fulmenhq/goldencheck/pkg/encode"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect goldencheck configuration",
	}

	validate := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a configuration file against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runConfigValidate,
	}
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	schema := &cobra.Command{
		Use:   "schema",
		Short: "Print the configuration JSON schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cmd.OutOrStdout().Write(config.Schema())
			return err
		},
	}
	cmd.AddCommand(validate, show, schema)
	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path = cfg.File
	}
	if path == "" {
		_, _ = fmt.Fprintln(out, "No configuration file found; using defaults")
		return nil
	}

	if err := config.ValidateFile(path); err != nil {
		return err
	}
	if _, err := config.LoadFile(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "%s is valid\n", path)
	return nil
}

type effectiveConfig struct {
	File      string   `yaml:"file,omitempty"`
	Directory string   `yaml:"directory"`
	Backend   string   `yaml:"backend"`
	Timeout   string   `yaml:"timeout"`
	GitBinary string   `yaml:"git_binary"`
	GUIDs     bool     `yaml:"sanitize_guids"`
	Quoted    bool     `yaml:"sanitize_quoted_guids"`
	Patterns  []string `yaml:"sanitize_patterns,omitempty"`
	MaxColumn int      `yaml:"table_max_column_length"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	timeout := "default"
	if cfg.VCS.Timeout > 0 {
		timeout = cfg.VCS.Timeout.String()
	}
	out, err := encode.YAML(effectiveConfig{
		File:      cfg.File,
		Directory: cfg.Dir(),
		Backend:   cfg.VCS.Backend,
		Timeout:   timeout,
		GitBinary: cfg.VCS.GitBinary,
		GUIDs:     cfg.Sanitize.GUIDs,
		Quoted:    cfg.Sanitize.QuotedGUIDs,
		Patterns:  cfg.Sanitize.Patterns,
		MaxColumn: cfg.Table.MaxColumnLength,
	})
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
