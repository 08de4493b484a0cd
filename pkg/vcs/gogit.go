package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/pmezard/go-difflib/difflib"
)

// GoGit answers Store queries in-process with go-git. It exposes the same
// primitives as GitCLI (index entry, blob, status, diff) without spawning
// processes; every query is still bounded by the configured timeout.
type GoGit struct {
	dir     string
	timeout time.Duration

	openOnce sync.Once
	repo     *git.Repository
	wt       *git.Worktree
	root     string
	openErr  error
}

// NewGoGit returns a go-git backed Store for dir.
func NewGoGit(dir string, opts Options) *GoGit {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout()
	}
	return &GoGit{dir: dir, timeout: timeout}
}

func (g *GoGit) open() error {
	g.openOnce.Do(func() {
		repo, err := git.PlainOpenWithOptions(g.dir, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			g.openErr = err
			return
		}
		wt, err := repo.Worktree()
		if err != nil {
			g.openErr = err
			return
		}
		g.repo = repo
		g.wt = wt
		g.root = resolveSymlinks(wt.Filesystem.Root())
	})
	return g.openErr
}

// Available opens the enclosing repository once per directory.
func (g *GoGit) Available(context.Context) bool {
	return memoizedProbe(g.dir, BackendGoGit, g.timeout, func() error {
		_, err := bounded(context.Background(), g.timeout, "open", func() (struct{}, error) {
			return struct{}{}, g.open()
		})
		return err
	}) == AvailabilityWorking && g.open() == nil
}

// AcceptedContent reads the blob referenced by the index entry of path.
func (g *GoGit) AcceptedContent(ctx context.Context, path string) ([]byte, bool, error) {
	if !g.Available(ctx) {
		return readWorkingTree(g.dir, path)
	}
	rel, err := g.rel(path)
	if err != nil {
		return nil, false, err
	}
	type result struct {
		data []byte
		ok   bool
	}
	r, err := bounded(ctx, g.timeout, "cat-file "+rel, func() (result, error) {
		data, ok, err := g.indexBlob(rel)
		return result{data, ok}, err
	})
	return r.data, r.ok, err
}

// IsModified reports worktree changes, untracked and deleted files.
func (g *GoGit) IsModified(ctx context.Context, path string) (bool, error) {
	if !g.Available(ctx) {
		return false, nil
	}
	st, err := g.status(ctx, path)
	if err != nil {
		return false, err
	}
	return st != nil && st.Worktree != git.Unmodified, nil
}

// IsUntracked reports whether path is unknown to the index.
func (g *GoGit) IsUntracked(ctx context.Context, path string) (bool, error) {
	if !g.Available(ctx) {
		return false, nil
	}
	st, err := g.status(ctx, path)
	if err != nil {
		return false, err
	}
	return st != nil && st.Worktree == git.Untracked, nil
}

// Diff renders a unified diff of the index blob against the working file.
func (g *GoGit) Diff(ctx context.Context, path string) (string, error) {
	if !g.Available(ctx) {
		return "", nil
	}
	rel, err := g.rel(path)
	if err != nil {
		return "", err
	}
	return bounded(ctx, g.timeout, "diff "+rel, func() (string, error) {
		accepted, _, err := g.indexBlob(rel)
		if err != nil {
			return "", err
		}
		current, err := util.ReadFile(g.wt.Filesystem, rel)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		return unifiedDiff(rel, string(accepted), string(current))
	})
}

// Stage adds paths to the index.
func (g *GoGit) Stage(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	if !g.Available(ctx) {
		return fmt.Errorf("cannot stage %d file(s): %w", len(paths), ErrUnavailable)
	}
	for _, p := range paths {
		rel, err := g.rel(p)
		if err != nil {
			return err
		}
		if _, err := bounded(ctx, g.timeout, "add "+rel, func() (struct{}, error) {
			_, err := g.wt.Add(rel)
			return struct{}{}, err
		}); err != nil {
			return err
		}
	}
	return nil
}

func (g *GoGit) indexBlob(rel string) ([]byte, bool, error) {
	idx, err := g.repo.Storer.Index()
	if err != nil {
		return nil, false, err
	}
	entry, err := idx.Entry(rel)
	if errors.Is(err, index.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	blob, err := g.repo.BlobObject(entry.Hash)
	if err != nil {
		return nil, false, err
	}
	rd, err := blob.Reader()
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = rd.Close() }()
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (g *GoGit) status(ctx context.Context, path string) (*git.FileStatus, error) {
	rel, err := g.rel(path)
	if err != nil {
		return nil, err
	}
	return bounded(ctx, g.timeout, "status "+rel, func() (*git.FileStatus, error) {
		st, err := g.wt.Status()
		if err != nil {
			return nil, err
		}
		if fst, ok := st[rel]; ok {
			return fst, nil
		}
		return g.indexStatus(rel)
	})
}

// indexStatus compares path with its index entry directly. Worktree.Status
// omits gitignored paths, which git ls-files still reports.
func (g *GoGit) indexStatus(rel string) (*git.FileStatus, error) {
	accepted, tracked, err := g.indexBlob(rel)
	if err != nil {
		return nil, err
	}
	current, err := util.ReadFile(g.wt.Filesystem, rel)
	missing := errors.Is(err, fs.ErrNotExist)
	if err != nil && !missing {
		return nil, err
	}
	switch {
	case !tracked && missing:
		return nil, nil
	case !tracked:
		return &git.FileStatus{Staging: git.Untracked, Worktree: git.Untracked}, nil
	case missing:
		return &git.FileStatus{Staging: git.Unmodified, Worktree: git.Deleted}, nil
	case !bytes.Equal(accepted, current):
		return &git.FileStatus{Staging: git.Unmodified, Worktree: git.Modified}, nil
	default:
		return nil, nil
	}
}

// rel converts an absolute path into the slash-separated, repository
// relative form used by the index.
func (g *GoGit) rel(path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(g.dir, path)
	}
	abs = filepath.Join(resolveSymlinks(filepath.Dir(abs)), filepath.Base(abs))
	rel, err := filepath.Rel(g.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside the repository %q", path, g.root)
	}
	return filepath.ToSlash(rel), nil
}

func resolveSymlinks(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}

// unifiedDiff returns "" when both sides are equal.
func unifiedDiff(rel, accepted, current string) (string, error) {
	if accepted == current {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(accepted),
		B:        difflib.SplitLines(current),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
}

// bounded runs fn and gives up after timeout. go-git calls are not
// cancellable, so a timed out fn keeps running in the background.
func bounded[T any](ctx context.Context, timeout time.Duration, op string, fn func() (T, error)) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn()
		done <- outcome{v, err}
	}()

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}

	var zero T
	select {
	case o := <-done:
		if o.err != nil {
			return o.v, &CommandError{Args: strings.Fields(op), Err: o.err}
		}
		return o.v, nil
	case <-timer:
		return zero, &CommandError{Args: strings.Fields(op), Err: fmt.Errorf("%w after %s", ErrTimeout, timeout)}
	case <-ctx.Done():
		return zero, &CommandError{Args: strings.Fields(op), Err: ctx.Err()}
	}
}
