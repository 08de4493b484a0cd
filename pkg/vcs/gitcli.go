package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// GitCLI answers Store queries by spawning the git binary in the store
// directory. Every query is a single timed attempt.
type GitCLI struct {
	dir string
	run runner
}

// NewGitCLI returns a git-binary backed Store for dir.
func NewGitCLI(dir string, opts Options) *GitCLI {
	bin := opts.GitBinary
	if bin == "" {
		bin = "git"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout()
	}
	return &GitCLI{dir: dir, run: runner{bin: bin, dir: dir, timeout: timeout}}
}

// Available probes `git rev-parse --show-toplevel` once per directory.
func (g *GitCLI) Available(context.Context) bool {
	return memoizedProbe(g.dir, BackendGit+":"+g.run.bin, g.run.timeout, func() error {
		_, err := g.run.output(context.Background(), "rev-parse", "--show-toplevel")
		return err
	}) == AvailabilityWorking
}

// AcceptedContent resolves the index entry of path and reads its blob.
func (g *GitCLI) AcceptedContent(ctx context.Context, path string) ([]byte, bool, error) {
	if !g.Available(ctx) {
		return readWorkingTree(g.dir, path)
	}
	rel, err := g.rel(path)
	if err != nil {
		return nil, false, err
	}
	entries, err := g.run.lines(ctx, "ls-files", "-s", "--", rel)
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	// <mode> SP <object> SP <stage> TAB <file>
	fields := strings.Fields(entries[0])
	if len(fields) < 2 || fields[1] == "" {
		return nil, false, nil
	}
	data, err := g.run.output(ctx, "cat-file", "blob", fields[1])
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// IsModified asks `git ls-files --other --modified --deleted`, which echoes
// the path back iff it differs from the index.
func (g *GitCLI) IsModified(ctx context.Context, path string) (bool, error) {
	if !g.Available(ctx) {
		return false, nil
	}
	return g.echoes(ctx, path, "ls-files", "--other", "--modified", "--deleted")
}

// IsUntracked asks `git ls-files --other`.
func (g *GitCLI) IsUntracked(ctx context.Context, path string) (bool, error) {
	if !g.Available(ctx) {
		return false, nil
	}
	return g.echoes(ctx, path, "ls-files", "--other")
}

// Diff returns `git diff` of path against the index as plain text,
// ignoring colour and external diff drivers from the user's config.
func (g *GitCLI) Diff(ctx context.Context, path string) (string, error) {
	if !g.Available(ctx) {
		return "", nil
	}
	rel, err := g.rel(path)
	if err != nil {
		return "", err
	}
	lines, err := g.run.lines(ctx, "diff", "--no-color", "--no-ext-diff", "--", rel)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Stage runs `git add` for paths. Reference files are named explicitly, so
// they are staged even inside gitignored directories.
func (g *GitCLI) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if !g.Available(ctx) {
		return fmt.Errorf("cannot stage %d file(s): %w", len(paths), ErrUnavailable)
	}
	args := []string{"add", "--force", "--"}
	for _, p := range paths {
		rel, err := g.rel(p)
		if err != nil {
			return err
		}
		args = append(args, rel)
	}
	_, err := g.run.output(ctx, args...)
	return err
}

func (g *GitCLI) echoes(ctx context.Context, path string, args ...string) (bool, error) {
	rel, err := g.rel(path)
	if err != nil {
		return false, err
	}
	out, err := g.run.lines(ctx, append(args, "--", rel)...)
	if err != nil {
		return false, err
	}
	return len(out) > 0, nil
}

// rel makes path relative to the store directory, which is also the git
// working directory; this sidesteps symlinked temp directories.
func (g *GitCLI) rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path), nil
	}
	rel, err := filepath.Rel(g.dir, path)
	if err != nil {
		return "", fmt.Errorf("path %q is not inside %q: %w", path, g.dir, err)
	}
	return filepath.ToSlash(rel), nil
}
