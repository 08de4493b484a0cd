package goldentest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fulmenhq/goldencheck/pkg/encode"
	"github.com/fulmenhq/goldencheck/pkg/golden"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures Fatal instead of stopping the test.
type recorder struct {
	testing.TB
	name  string
	fatal string
}

func (r *recorder) Helper()                  {}
func (r *recorder) Name() string             { return r.name }
func (r *recorder) Context() context.Context { return context.Background() }
func (r *recorder) Fatal(args ...any)        { r.fatal = fmt.Sprint(args...) }

func TestIdentity(t *testing.T) {
	c := New(t, t.TempDir(), golden.WithBackend(vcs.BackendNone))

	id := c.Identity(t)
	assert.Equal(t, "goldentest_test", id.Stem)
	assert.Equal(t, "TestIdentity", id.Member)

	t.Run("sub/case", func(t *testing.T) {
		id := c.Identity(t, Name("x"), Ext("md"))
		assert.Equal(t, "goldentest_test.TestIdentity_sub_case-x.md", id.Filename())
	})
}

func TestNew_RelativeToCaller(t *testing.T) {
	c := New(t, "testdata/golden", golden.WithBackend(vcs.BackendNone))
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "testdata", "golden"), c.Dir())
}

func TestChecks(t *testing.T) {
	dir := t.TempDir()
	c := New(t, dir, golden.WithBackend(vcs.BackendNone))

	rec := &recorder{name: "TestChecks"}
	c.String(rec, "hello")
	assert.Contains(t, rec.fatal, "goldentest_test.TestChecks.txt has changed")
	assert.Contains(t, rec.fatal, "hello")

	rec.fatal = ""
	c.String(rec, "hello")
	assert.Empty(t, rec.fatal)

	c.Lines(rec, []string{"a", "b"}, Name("lines"))
	assert.Contains(t, rec.fatal, "goldentest_test.TestChecks-lines.txt")

	rec.fatal = ""
	c.JSON(rec, map[string]int{"b": 1, "a": 2}, encode.JSONOptions{})
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks.json"))
	c.Binary(rec, []byte{1}, Name("raw"))
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks-raw.bin"))
	c.Table(rec, []map[string]int{{"n": 1}}, encode.TableOptions{}, Name("table"))
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks-table.txt"))
	c.YAML(rec, map[string]int{"n": 1})
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks.yaml"))
	c.TOML(rec, map[string]int{"n": 1})
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks.toml"))
	c.XML(rec, []byte("<a/>"))
	assert.FileExists(t, filepath.Join(dir, "goldentest_test.TestChecks.xml"))
}

func TestNew_InvalidOptionFails(t *testing.T) {
	rec := &recorder{name: "TestNew_InvalidOptionFails"}
	c := New(rec, t.TempDir(), golden.WithBackend("svn"))
	assert.Nil(t, c)
	assert.Contains(t, rec.fatal, "configuration error")
}
