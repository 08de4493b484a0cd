package golden

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for an unresolvable check directory or an
	// invalid identity.
	ErrConfiguration = errors.New("golden: configuration error")
	// ErrMismatch matches every *MismatchError.
	ErrMismatch = errors.New("golden: output mismatch")
	// ErrUntracked matches mismatches of kind Untracked.
	ErrUntracked = errors.New("golden: output not accepted")
	// ErrChanged matches mismatches of kind Changed and ChangedNoVCS.
	ErrChanged = errors.New("golden: output changed")
)

// MismatchKind classifies a failed check.
type MismatchKind int

const (
	// Untracked: the reference file was written but never accepted.
	Untracked MismatchKind = iota + 1
	// Changed: the output differs from the accepted reference.
	Changed
	// ChangedNoVCS: the output differs from the file on disk and git is not
	// available to review it.
	ChangedNoVCS
)

func (k MismatchKind) String() string {
	switch k {
	case Untracked:
		return "untracked"
	case Changed:
		return "changed"
	case ChangedNoVCS:
		return "changed-no-vcs"
	default:
		return "unknown"
	}
}

// MismatchError is the failure of a check. The message is meant to be shown
// verbatim in test output.
type MismatchError struct {
	Kind MismatchKind
	// File is the reference file name, Path its absolute location.
	File string
	Path string
	// Diff is the VCS diff for text Changed mismatches.
	Diff string
	// Content is the full produced text for ChangedNoVCS mismatches.
	Content string
	Binary  bool
}

func (e *MismatchError) Error() string {
	switch e.Kind {
	case Untracked:
		return fmt.Sprintf("%s is not explicitly accepted - the file is untracked in git. To let this test pass, view the file and stage it.", e.File)
	case Changed:
		if e.Binary {
			return fmt.Sprintf("%s has changed, the actual output differs from the previous accepted output! Is the change OK? To let the test pass, stage the file in git.", e.File)
		}
		return fmt.Sprintf("%s has changed, the actual output differs from the previous accepted output:\n\n%s\n\nIs this change OK? To let the test pass, stage the file in git.", e.File, e.Diff)
	case ChangedNoVCS:
		if e.Binary {
			return fmt.Sprintf("%s has changed, the previous accepted output differs from the actual output.", e.File)
		}
		return fmt.Sprintf("%s has changed, the previous accepted output differs from the actual output:\n\n%s\n\nNote that goldencheck could not use git here, so changes cannot be reviewed and accepted by staging.", e.File, e.Content)
	default:
		return fmt.Sprintf("%s does not match the accepted output", e.File)
	}
}

// Is makes errors.Is match the sentinel for the mismatch kind.
func (e *MismatchError) Is(target error) bool {
	switch target {
	case ErrMismatch:
		return true
	case ErrUntracked:
		return e.Kind == Untracked
	case ErrChanged:
		return e.Kind == Changed || e.Kind == ChangedNoVCS
	default:
		return false
	}
}
