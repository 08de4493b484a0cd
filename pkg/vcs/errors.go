package vcs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable is reported by the probe when git cannot be used for a
// directory. It never escapes a check; the store degrades instead.
var ErrUnavailable = errors.New("version control unavailable")

// ErrCommandFailed matches every *CommandError via errors.Is.
var ErrCommandFailed = errors.New("git command failed")

// ErrTimeout is wrapped by a *CommandError when a query exceeded its deadline.
var ErrTimeout = errors.New("git command timed out")

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown vcs backend")

// CommandError describes a failed or timed out VCS query.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	cmd := "git " + strings.Join(e.Args, " ")
	switch {
	case errors.Is(e.Err, ErrTimeout):
		return fmt.Sprintf("`%s` command timed out", cmd)
	case strings.TrimSpace(e.Stderr) != "":
		return fmt.Sprintf("`%s` command failed: %s", cmd, strings.TrimSpace(e.Stderr))
	case e.Err != nil:
		return fmt.Sprintf("`%s` command failed: %v", cmd, e.Err)
	default:
		return fmt.Sprintf("`%s` command failed", cmd)
	}
}

func (e *CommandError) Unwrap() error { return e.Err }

// Is makes every CommandError match ErrCommandFailed.
func (e *CommandError) Is(target error) bool { return target == ErrCommandFailed }
