package vcs

import "context"

// Degraded is a Store without version control. Accepted content is whatever
// the working tree holds, so it cannot tell accepted from merely present.
type Degraded struct {
	dir string
}

// NewDegraded returns a Store that never consults a VCS.
func NewDegraded(dir string) *Degraded {
	return &Degraded{dir: dir}
}

func (d *Degraded) Available(context.Context) bool { return false }

func (d *Degraded) AcceptedContent(_ context.Context, path string) ([]byte, bool, error) {
	return readWorkingTree(d.dir, path)
}

func (d *Degraded) IsModified(context.Context, string) (bool, error) { return false, nil }

func (d *Degraded) IsUntracked(context.Context, string) (bool, error) { return false, nil }

func (d *Degraded) Diff(context.Context, string) (string, error) { return "", nil }
