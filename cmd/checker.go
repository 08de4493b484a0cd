package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/goldencheck/pkg/config"
	"github.com/fulmenhq/goldencheck/pkg/golden"
	"github.com/fulmenhq/goldencheck/pkg/ignore"
	"github.com/fulmenhq/goldencheck/pkg/safeio"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loadConfig resolves the effective configuration: file, environment, then
// the --dir and --backend flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, wdErr
		}
		cfg, err = config.Load(wd)
	}
	if err != nil {
		return nil, err
	}

	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		cfg.Directory = abs
	}
	if backend := flagValue(cmd.Flags(), "backend"); backend != "" {
		cfg.VCS.Backend = backend
	}
	return cfg, cfg.Validate()
}

func openChecker(cmd *cobra.Command) (*golden.Checker, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return golden.NewFromConfig(cfg)
}

type fileState struct {
	Rel    string
	Path   string
	Status vcs.Status
}

// collectStates walks the check directory and queries the status of every
// reference file matching includes, in parallel.
func collectStates(cmd *cobra.Command, c *golden.Checker, includes []string) ([]fileState, error) {
	for _, p := range includes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: invalid --include pattern %q", golden.ErrConfiguration, p)
		}
	}

	dir := c.Dir()
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	m, err := ignore.NewMatcher(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	err = m.Walk(func(rel string) error {
		if matchesAny(includes, rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	sort.Strings(files)

	states := make([]fileState, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())
	for i, rel := range files {
		g.Go(func() error {
			path := filepath.Join(dir, filepath.FromSlash(rel))
			st, err := vcs.StatusOf(ctx, c.Store(), path)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			states[i] = fileState{Rel: rel, Path: path, Status: st}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return states, nil
}

func matchesAny(patterns []string, rel string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func pending(states []fileState) []fileState {
	var out []fileState
	for _, s := range states {
		if s.Status != vcs.Unmodified {
			out = append(out, s)
		}
	}
	return out
}

// resolveArgs maps command arguments to reference files inside dir. Relative
// arguments that exist from the working directory are taken as such,
// otherwise they are relative to dir.
func resolveArgs(dir string, args []string) ([]fileState, error) {
	out := make([]fileState, 0, len(args))
	for _, arg := range args {
		abs := arg
		if !filepath.IsAbs(arg) {
			if _, err := os.Stat(arg); err == nil {
				abs, _ = filepath.Abs(arg)
			} else {
				abs = filepath.Join(dir, arg)
			}
		}
		rel, err := filepath.Rel(dir, abs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", safeio.ErrOutsideBase, arg)
		}
		path, err := safeio.JoinContained(dir, rel)
		if err != nil {
			return nil, err
		}
		out = append(out, fileState{Rel: filepath.ToSlash(rel), Path: path})
	}
	return out, nil
}
