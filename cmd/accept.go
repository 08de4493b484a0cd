package cmd

import (
	"fmt"

	"github.com/fulmenhq/goldencheck/pkg/golden"
	"github.com/fulmenhq/goldencheck/pkg/logger"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/cobra"
)

func newAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept [file...]",
		Short: "Accept reference files by staging them",
		Long: `Accept the current content of reference files by adding them to the git
index. Pass files explicitly, or --all for every pending file in the check
directory.`,
		RunE: runAccept,
	}
	cmd.Flags().Bool("all", false, "Accept every pending reference file")
	cmd.Flags().StringSlice("include", nil, "With --all, only accept files matching these globs")
	cmd.Flags().Bool("dry-run", false, "List the files that would be accepted")
	return cmd
}

func runAccept(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	includes, _ := cmd.Flags().GetStringSlice("include")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if all == (len(args) > 0) {
		return fmt.Errorf("%w: pass either files or --all", golden.ErrConfiguration)
	}

	c, err := openChecker(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	stager, ok := c.Store().(vcs.Stager)
	if !ok || !c.Store().Available(ctx) {
		return fmt.Errorf("cannot accept files in %s: %w", c.Dir(), vcs.ErrUnavailable)
	}

	var targets []fileState
	if all {
		states, err := collectStates(cmd, c, includes)
		if err != nil {
			return err
		}
		targets = pending(states)
	} else if targets, err = resolveArgs(c.Dir(), args); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(targets) == 0 {
		_, _ = fmt.Fprintln(out, "Nothing to accept")
		return nil
	}

	paths := make([]string, len(targets))
	for i, t := range targets {
		paths[i] = t.Path
	}
	if !dryRun {
		if err := stager.Stage(ctx, paths...); err != nil {
			return err
		}
		logger.Info("staged reference files", logger.Int("count", len(paths)), logger.String("dir", c.Dir()))
	}
	verb := "Accepted"
	if dryRun {
		verb = "Would accept"
	}
	for _, t := range targets {
		_, _ = fmt.Fprintf(out, "%s %s\n", verb, t.Rel)
	}
	return nil
}
