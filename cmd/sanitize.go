package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/goldencheck/pkg/golden"
	"github.com/fulmenhq/goldencheck/pkg/sanitize"
	"github.com/spf13/cobra"
)

func newSanitizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sanitize",
		Short: "Apply the configured sanitizer rules to stdin",
		Long: `Read text from stdin and print it the way a golden check would store it:
line endings normalized, trailing newlines collapsed and every non-deterministic
match replaced by a sequential placeholder.`,
		Args: cobra.NoArgs,
		RunE: runSanitize,
	}
	cmd.Flags().Bool("guids", false, "Replace GUIDs")
	cmd.Flags().Bool("quoted-guids", false, "Replace GUIDs in double quotes")
	cmd.Flags().StringArray("pattern", nil, "Additional regular expression to replace (repeatable)")
	return cmd
}

func runSanitize(cmd *cobra.Command, _ []string) error {
	guids, _ := cmd.Flags().GetBool("guids")
	quoted, _ := cmd.Flags().GetBool("quoted-guids")
	patterns, _ := cmd.Flags().GetStringArray("pattern")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// configured rules run first, command-line rules after them
	base, err := sanitize.New(cfg.Sanitize.Patterns...)
	if err != nil {
		return fmt.Errorf("%w: %v", golden.ErrConfiguration, err)
	}
	extra := append([]string(nil), patterns...)
	switch {
	case guids || cfg.Sanitize.GUIDs:
		extra = append(extra, sanitize.GUIDPattern)
	case quoted || cfg.Sanitize.QuotedGUIDs:
		extra = append(extra, sanitize.QuotedGUIDPattern)
	}
	s, err := base.With(extra...)
	if err != nil {
		return fmt.Errorf("%w: invalid --pattern: %v", golden.ErrConfiguration, err)
	}

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), golden.NormalizeText(string(input), s))
	return err
}
