package vcs

import (
	"errors"
	"os/exec"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/fulmenhq/goldencheck/internal/memo"
	"github.com/fulmenhq/goldencheck/pkg/logger"
)

type probeKey struct {
	dir     string
	backend string
}

// availability caches probe results for the lifetime of the process.
var availability memo.Group[probeKey, Availability]

// memoizedProbe runs probe at most once per (dir, backend). Failures never
// propagate: they are logged once and the directory is marked unavailable.
func memoizedProbe(dir, backend string, timeout time.Duration, probe func() error) Availability {
	return availability.Get(probeKey{dir: dir, backend: backend}, func() Availability {
		err := probe()
		if err == nil {
			logger.Debug("version control available", logger.String("dir", dir), logger.String("backend", backend),
				logger.Duration("timeout", timeout))
			return AvailabilityWorking
		}
		reportProbeFailure(dir, err)
		return AvailabilityUnavailable
	})
}

func reportProbeFailure(dir string, err error) {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		logger.Warn("git command not found. Falling back to simple file-based checking. Make sure that git is installed and in the PATH.",
			logger.String("dir", dir))
	case isNotRepository(err):
		logger.Warn("directory is not in git. Falling back to simple file-based checking.",
			logger.String("dir", dir))
	default:
		logger.Warn("an error occurred while calling git. Falling back to simple file-based checking.",
			logger.String("dir", dir), logger.Err(err))
	}
}

func isNotRepository(err error) bool {
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return true
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return strings.Contains(cmdErr.Stderr, "not a git repository")
	}
	return false
}
