package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [file...]",
		Short: "Show changes of reference files against their accepted content",
		Long: `Show the git diff of reference files. Without arguments every pending file
in the check directory is shown; untracked files are listed as new.`,
		RunE: runDiff,
	}
	cmd.Flags().StringSlice("include", nil, "Only consider files matching these globs")
	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	includes, _ := cmd.Flags().GetStringSlice("include")

	c, err := openChecker(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if !c.Store().Available(ctx) {
		return fmt.Errorf("cannot diff reference files in %s: %w", c.Dir(), vcs.ErrUnavailable)
	}

	var targets []fileState
	if len(args) > 0 {
		if targets, err = resolveArgs(c.Dir(), args); err != nil {
			return err
		}
		for i := range targets {
			if targets[i].Status, err = vcs.StatusOf(ctx, c.Store(), targets[i].Path); err != nil {
				return err
			}
		}
	} else {
		states, err := collectStates(cmd, c, includes)
		if err != nil {
			return err
		}
		targets = pending(states)
	}

	out := cmd.OutOrStdout()
	for _, t := range targets {
		switch t.Status {
		case vcs.Unmodified:
			continue
		case vcs.Untracked:
			_, _ = color.New(color.FgYellow).Fprintf(out, "new file: %s\n", t.Rel)
			continue
		}
		d, err := c.Store().Diff(ctx, t.Path)
		if err != nil {
			return err
		}
		writeDiff(out, d)
	}
	return nil
}

var (
	diffAdded   = color.New(color.FgGreen)
	diffRemoved = color.New(color.FgRed)
	diffHunk    = color.New(color.FgCyan)
	diffHeader  = color.New(color.Bold)
)

func writeDiff(w io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "diff "):
			_, _ = diffHeader.Fprintln(w, line)
		case strings.HasPrefix(line, "@@"):
			_, _ = diffHunk.Fprintln(w, line)
		case strings.HasPrefix(line, "+"):
			_, _ = diffAdded.Fprintln(w, line)
		case strings.HasPrefix(line, "-"):
			_, _ = diffRemoved.Fprintln(w, line)
		default:
			_, _ = fmt.Fprintln(w, line)
		}
	}
}
