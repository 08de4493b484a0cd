// Package vcs adapts a version-control system to the reference store used by
// golden checks: the accepted content of a file comes from the git index, and
// working-tree status tells whether a freshly written file still needs to be
// accepted (staged).
//
// Three backends implement Store:
//
//   - GitCLI spawns the git binary for every query, each bounded by a timeout.
//   - GoGit answers the same queries in-process through go-git.
//   - Degraded never uses a VCS; it reads the working tree directly.
//
// GitCLI and GoGit probe the directory lazily on first use and degrade to
// working-tree reads when git is missing or the directory is not inside a
// repository. Probe results are memoized per directory and backend for the
// lifetime of the process.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/safeio"
)

// Store is the reference store consulted by a golden check. Paths are
// absolute paths of files inside the store's directory.
type Store interface {
	// Available reports whether the VCS is usable for the directory.
	Available(ctx context.Context) bool
	// AcceptedContent returns the accepted (index) content of path.
	// ok is false when the path has no accepted version.
	AcceptedContent(ctx context.Context, path string) (data []byte, ok bool, err error)
	// IsModified reports whether path is changed, untracked or deleted
	// relative to the index.
	IsModified(ctx context.Context, path string) (bool, error)
	// IsUntracked reports whether path is untracked.
	IsUntracked(ctx context.Context, path string) (bool, error)
	// Diff returns a textual diff between the working tree and the index.
	Diff(ctx context.Context, path string) (string, error)
}

// Stager is implemented by stores that can accept files by staging them.
type Stager interface {
	Stage(ctx context.Context, paths ...string) error
}

// Status is the working-tree state of a file relative to the index.
type Status int

const (
	Unmodified Status = iota
	Modified
	Untracked
	Deleted
)

func (s Status) String() string {
	switch s {
	case Unmodified:
		return "unmodified"
	case Modified:
		return "modified"
	case Untracked:
		return "untracked"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// StatusOf combines the Store queries into a single Status.
func StatusOf(ctx context.Context, s Store, path string) (Status, error) {
	modified, err := s.IsModified(ctx, path)
	if err != nil || !modified {
		return Unmodified, err
	}
	untracked, err := s.IsUntracked(ctx, path)
	if err != nil {
		return Unmodified, err
	}
	if untracked {
		return Untracked, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Deleted, nil
	}
	return Modified, nil
}

// Availability is the memoized probe result for a directory.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityWorking
	AvailabilityUnavailable
)

func (a Availability) String() string {
	switch a {
	case AvailabilityWorking:
		return "working"
	case AvailabilityUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Backend names accepted by Open.
const (
	BackendGit   = "git"
	BackendGoGit = "gogit"
	BackendNone  = "none"
)

// Options configures Open.
type Options struct {
	// Backend is one of BackendGit (default), BackendGoGit, BackendNone.
	Backend string
	// Timeout bounds every VCS query. Zero selects DefaultTimeout().
	Timeout time.Duration
	// GitBinary is the git executable for BackendGit. Defaults to "git".
	GitBinary string
}

// DefaultTimeout is the per-query bound: 3s, or 15s on Windows where process
// start and filesystem access are much slower.
func DefaultTimeout() time.Duration {
	if runtime.GOOS == "windows" {
		return 15 * time.Second
	}
	return 3 * time.Second
}

// Open returns the Store for dir. dir must be absolute.
func Open(dir string, opts Options) (Store, error) {
	if !filepath.IsAbs(dir) {
		return nil, fmt.Errorf("vcs: directory %q is not absolute", dir)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout()
	}
	switch strings.ToLower(opts.Backend) {
	case "", BackendGit:
		return NewGitCLI(dir, opts), nil
	case BackendGoGit:
		return NewGoGit(dir, opts), nil
	case BackendNone:
		return NewDegraded(dir), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// readWorkingTree reads path directly; a missing file is reported as absent.
// Relative paths are taken relative to dir, and nothing outside dir is read.
func readWorkingTree(dir, path string) ([]byte, bool, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := safeio.ReadFileContained(dir, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
