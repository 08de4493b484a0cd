package cmd

import (
	"fmt"
	"io"

	"github.com/fulmenhq/goldencheck/pkg/logger"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List reference files that are not accepted",
		Long: `List the reference files in the check directory whose working-tree copy
differs from the git index: modified files have changed since they were last
accepted, untracked files were never accepted.`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
	cmd.Flags().StringSlice("include", nil, "Only consider files matching these globs (relative to the check directory, ** supported)")
	cmd.Flags().Bool("all", false, "Also list accepted files")
	cmd.Flags().Bool("exit-code", false, "Exit with a non-zero code when files are pending")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	includes, _ := cmd.Flags().GetStringSlice("include")
	all, _ := cmd.Flags().GetBool("all")
	exitCode, _ := cmd.Flags().GetBool("exit-code")

	c, err := openChecker(cmd)
	if err != nil {
		return err
	}
	states, err := collectStates(cmd, c, includes)
	if err != nil {
		return err
	}
	if len(states) > 0 && !c.Store().Available(cmd.Context()) {
		logger.Warn("git is not usable for the check directory; file states cannot be determined", logger.String("dir", c.Dir()))
	}

	out := cmd.OutOrStdout()
	todo := pending(states)
	shown := todo
	if all {
		shown = states
	}
	printStates(out, shown)

	switch {
	case len(states) == 0:
		_, _ = fmt.Fprintf(out, "No reference files in %s\n", c.Dir())
	case len(todo) == 0:
		_, _ = fmt.Fprintf(out, "All %d reference file(s) accepted\n", len(states))
	default:
		_, _ = fmt.Fprintf(out, "%d of %d reference file(s) pending\n", len(todo), len(states))
		if exitCode {
			return fmt.Errorf("%d file(s): %w", len(todo), errPending)
		}
	}
	return nil
}

func printStates(w io.Writer, states []fileState) {
	title := cases.Title(language.English)
	labels := make([]string, len(states))
	width := 0
	for i, s := range states {
		labels[i] = title.String(s.Status.String())
		width = max(width, runewidth.StringWidth(labels[i]))
	}
	for i, s := range states {
		_, _ = fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(labels[i], width), s.Rel)
	}
}
