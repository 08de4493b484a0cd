package cmd

import (
	"fmt"
	"strings"

	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/spf13/pflag"
)

// backendFlag is a pflag.Value restricted to the known VCS backends.
type backendFlag struct {
	value string
}

var _ pflag.Value = (*backendFlag)(nil)

func (b *backendFlag) String() string { return b.value }

func (b *backendFlag) Set(s string) error {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case vcs.BackendGit, vcs.BackendGoGit, vcs.BackendNone:
		b.value = s
		return nil
	default:
		return fmt.Errorf("must be one of %s, %s, %s", vcs.BackendGit, vcs.BackendGoGit, vcs.BackendNone)
	}
}

func (b *backendFlag) Type() string { return "backend" }

// flagValue returns the textual value of a flag of any type, or "".
func flagValue(fs *pflag.FlagSet, name string) string {
	if f := fs.Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}
