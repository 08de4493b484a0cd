package golden

import (
	"fmt"
	"strings"
)

// Identity names one check call site. The reference file for the check is
// {Stem}.{Member}[-{Name}].{Ext} inside the checker directory.
type Identity struct {
	// Stem is the source file name without extension, e.g. "parser_test".
	Stem string
	// Member is the test or function performing the check.
	Member string
	// Name distinguishes several checks made by the same member.
	Name string
	// Ext is the file extension without the dot. Empty selects the default
	// extension of the check kind.
	Ext string
}

// NewIdentity returns the identity for a check made by member in stem.
func NewIdentity(stem, member string) Identity {
	return Identity{Stem: stem, Member: member}
}

// Named returns a copy of id with the check name set.
func (id Identity) Named(name string) Identity {
	id.Name = name
	return id
}

// WithExt returns a copy of id with the file extension set.
func (id Identity) WithExt(ext string) Identity {
	id.Ext = strings.TrimPrefix(ext, ".")
	return id
}

func (id Identity) orExt(ext string) Identity {
	if id.Ext == "" {
		id.Ext = ext
	}
	return id
}

// Filename renders the reference file name.
func (id Identity) Filename() string {
	var b strings.Builder
	b.WriteString(id.Stem)
	b.WriteByte('.')
	b.WriteString(id.Member)
	if id.Name != "" {
		b.WriteByte('-')
		b.WriteString(id.Name)
	}
	b.WriteByte('.')
	b.WriteString(id.Ext)
	return b.String()
}

func (id Identity) String() string { return id.Filename() }

// Validate rejects identities that cannot name a file inside the check
// directory.
func (id Identity) Validate() error {
	parts := []struct{ label, value string }{
		{"stem", id.Stem},
		{"member", id.Member},
		{"extension", id.Ext},
	}
	for _, p := range parts {
		if p.value == "" {
			return fmt.Errorf("%w: identity %s is empty", ErrConfiguration, p.label)
		}
	}
	parts = append(parts, struct{ label, value string }{"name", id.Name})
	for _, p := range parts {
		if strings.ContainsAny(p.value, `/\`) || strings.ContainsRune(p.value, 0) || p.value == ".." {
			return fmt.Errorf("%w: identity %s %q is not a valid file name part", ErrConfiguration, p.label, p.value)
		}
	}
	return nil
}
