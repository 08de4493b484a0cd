// Package goldentest runs golden checks from Go tests. The check identity is
// derived from the calling test file (stem) and tb.Name() (member), and a
// failed check fails the test with tb.Fatal.
//
//	check := goldentest.New(t, "testdata/golden")
//	check.String(t, render(input))
package goldentest

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/fulmenhq/goldencheck/pkg/encode"
	"github.com/fulmenhq/goldencheck/pkg/golden"
)

// Checker wraps golden.Checker for use with testing.TB.
type Checker struct {
	*golden.Checker
}

// Option adjusts the identity of a single check.
type Option func(golden.Identity) golden.Identity

// Name distinguishes several checks made by the same test.
func Name(name string) Option {
	return func(id golden.Identity) golden.Identity { return id.Named(name) }
}

// Ext overrides the file extension of a check.
func Ext(ext string) Option {
	return func(id golden.Identity) golden.Identity { return id.WithExt(ext) }
}

// New returns a Checker for dir. A relative dir resolves against the
// directory of the calling source file.
func New(tb testing.TB, dir string, opts ...golden.Option) *Checker {
	tb.Helper()
	if _, file, _, ok := runtime.Caller(1); ok {
		opts = append([]golden.Option{golden.WithCallerFile(file)}, opts...)
	}
	c, err := golden.New(dir, opts...)
	if err != nil {
		tb.Fatal(err)
		return nil
	}
	return &Checker{Checker: c}
}

// callerDepth skips identity and the exported Checker method.
const callerDepth = 2

func identity(tb testing.TB, opts []Option) golden.Identity {
	stem := "unknown"
	if _, file, _, ok := runtime.Caller(callerDepth); ok {
		stem = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	member := strings.NewReplacer("/", "_", `\`, "_").Replace(tb.Name())
	id := golden.NewIdentity(stem, member)
	for _, opt := range opts {
		id = opt(id)
	}
	return id
}

// Identity returns the identity a check made at the call site would use.
func (c *Checker) Identity(tb testing.TB, opts ...Option) golden.Identity {
	return identity(tb, opts)
}

func fail(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

// String checks text output.
func (c *Checker) String(tb testing.TB, text string, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckString(tb.Context(), identity(tb, opts), text))
}

// Lines checks lines joined by newlines.
func (c *Checker) Lines(tb testing.TB, lines []string, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckLines(tb.Context(), identity(tb, opts), lines))
}

// Binary checks binary output.
func (c *Checker) Binary(tb testing.TB, data []byte, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckBinary(tb.Context(), identity(tb, opts), data))
}

// JSON checks the JSON serialization of v.
func (c *Checker) JSON(tb testing.TB, v any, jopts encode.JSONOptions, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckJSON(tb.Context(), identity(tb, opts), v, jopts))
}

// Table checks rows rendered as a text table.
func (c *Checker) Table(tb testing.TB, rows any, topts encode.TableOptions, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckTable(tb.Context(), identity(tb, opts), rows, topts))
}

// YAML checks the YAML serialization of v.
func (c *Checker) YAML(tb testing.TB, v any, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckYAML(tb.Context(), identity(tb, opts), v))
}

// TOML checks the TOML serialization of v.
func (c *Checker) TOML(tb testing.TB, v any, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckTOML(tb.Context(), identity(tb, opts), v))
}

// XML checks a re-indented XML document.
func (c *Checker) XML(tb testing.TB, doc []byte, opts ...Option) {
	tb.Helper()
	fail(tb, c.CheckXML(tb.Context(), identity(tb, opts), doc))
}
