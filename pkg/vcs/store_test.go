package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/safeio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Backends(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir, Options{})
	require.NoError(t, err)
	assert.IsType(t, &GitCLI{}, s)

	s, err = Open(dir, Options{Backend: "GoGit"})
	require.NoError(t, err)
	assert.IsType(t, &GoGit{}, s)

	s, err = Open(dir, Options{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, &Degraded{}, s)

	_, err = Open(dir, Options{Backend: "svn"})
	assert.ErrorIs(t, err, ErrUnknownBackend)

	_, err = Open("relative/dir", Options{})
	assert.Error(t, err)
}

func TestDefaultTimeout(t *testing.T) {
	assert.GreaterOrEqual(t, DefaultTimeout(), 3*time.Second)
}

func TestDegraded_ReadsWorkingTree(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewDegraded(dir)
	path := filepath.Join(dir, "x.txt")

	assert.False(t, s.Available(ctx))

	_, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok, "missing file is absent, not an error")

	writeFile(t, path, "hello\n")
	data, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello\n", string(data))

	modified, err := s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestDegraded_StaysInsideDirectory(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := filepath.Join(root, "golden")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	writeFile(t, filepath.Join(root, "secret.txt"), "outside\n")
	writeFile(t, filepath.Join(dir, "rel.txt"), "inside\n")
	s := NewDegraded(dir)

	_, _, err := s.AcceptedContent(ctx, filepath.Join(root, "secret.txt"))
	assert.ErrorIs(t, err, safeio.ErrOutsideBase)

	data, ok, err := s.AcceptedContent(ctx, "rel.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "inside\n", string(data))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unmodified", Unmodified.String())
	assert.Equal(t, "modified", Modified.String())
	assert.Equal(t, "untracked", Untracked.String())
	assert.Equal(t, "deleted", Deleted.String())
	assert.Equal(t, "unknown", Status(9).String())
	assert.Equal(t, "working", AvailabilityWorking.String())
	assert.Equal(t, "unavailable", AvailabilityUnavailable.String())
	assert.Equal(t, "unknown", AvailabilityUnknown.String())
}

// storeContract exercises the Store primitives against a real repository.
func storeContract(t *testing.T, open func(dir string) Store) {
	ctx := context.Background()
	root := initRepo(t)
	dir := filepath.Join(root, "testdata")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	s := open(dir)
	path := filepath.Join(dir, "a.txt")

	require.True(t, s.Available(ctx))

	// absent
	_, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	// untracked
	writeFile(t, path, "A\n")
	modified, err := s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.True(t, modified)
	untracked, err := s.IsUntracked(ctx, path)
	require.NoError(t, err)
	assert.True(t, untracked)
	st, err := StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Untracked, st)

	// accepted
	gitCmd(t, root, "add", "testdata/a.txt")
	data, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A\n", string(data))
	modified, err = s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.False(t, modified)

	// modified in tree
	writeFile(t, path, "B\n")
	modified, err = s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.True(t, modified)
	untracked, err = s.IsUntracked(ctx, path)
	require.NoError(t, err)
	assert.False(t, untracked)
	diff, err := s.Diff(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, diff, "-A")
	assert.Contains(t, diff, "+B")
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Modified, st)

	// deleted
	require.NoError(t, os.Remove(path))
	modified, err = s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.True(t, modified)
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Deleted, st)

	// staging through the store
	stager, ok := s.(Stager)
	require.True(t, ok)
	writeFile(t, path, "C\n")
	require.NoError(t, stager.Stage(ctx, path))
	data, ok, err = s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "C\n", string(data))
}

// globNameContract checks that a reference name with glob characters only
// ever resolves to itself.
func globNameContract(t *testing.T, open func(dir string) Store) {
	ctx := context.Background()
	root := initRepo(t)
	dir := filepath.Join(root, "testdata")
	s := open(dir)

	writeFile(t, filepath.Join(dir, "p.Case_0.txt"), "A\n")
	gitCmd(t, root, "add", "--", "testdata/p.Case_0.txt")

	path := filepath.Join(dir, "p.Case_[0].txt")
	_, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok, "must not pick up the index entry of p.Case_0.txt")

	writeFile(t, path, "A\n")
	st, err := StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Untracked, st)

	require.NoError(t, s.(Stager).Stage(ctx, path))
	data, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A\n", string(data))
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Unmodified, st)
}

// ignoredDirContract runs the lifecycle inside a gitignored directory.
func ignoredDirContract(t *testing.T, open func(dir string) Store) {
	ctx := context.Background()
	root := initRepo(t)
	writeFile(t, filepath.Join(root, ".gitignore"), "golden/\n")
	dir := filepath.Join(root, "golden")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	s := open(dir)
	path := filepath.Join(dir, "a.txt")

	writeFile(t, path, "A\n")
	_, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)
	st, err := StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Untracked, st)

	require.NoError(t, s.(Stager).Stage(ctx, path))
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Unmodified, st)

	writeFile(t, path, "B\n")
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Modified, st)
	diff, err := s.Diff(ctx, path)
	require.NoError(t, err)
	assert.Contains(t, diff, "-A")
	assert.Contains(t, diff, "+B")

	require.NoError(t, os.Remove(path))
	st, err = StatusOf(ctx, s, path)
	require.NoError(t, err)
	assert.Equal(t, Deleted, st)
}

func TestGitCLI_Contract(t *testing.T) {
	open := func(dir string) Store { return NewGitCLI(dir, Options{Timeout: 10 * time.Second}) }
	storeContract(t, open)
	t.Run("glob characters", func(t *testing.T) { globNameContract(t, open) })
	t.Run("ignored directory", func(t *testing.T) { ignoredDirContract(t, open) })
}

func TestGoGit_Contract(t *testing.T) {
	open := func(dir string) Store { return NewGoGit(dir, Options{Timeout: 10 * time.Second}) }
	storeContract(t, open)
	t.Run("glob characters", func(t *testing.T) { globNameContract(t, open) })
	t.Run("ignored directory", func(t *testing.T) { ignoredDirContract(t, open) })
}

func TestGitCLI_DiffIsPlainText(t *testing.T) {
	ctx := context.Background()
	root := initRepo(t)
	gitCmd(t, root, "config", "color.ui", "always")
	gitCmd(t, root, "config", "color.diff", "always")
	gitCmd(t, root, "config", "diff.external", "false")
	s := NewGitCLI(root, Options{Timeout: 10 * time.Second})
	path := filepath.Join(root, "a.txt")

	writeFile(t, path, "A\n")
	gitCmd(t, root, "add", "a.txt")
	writeFile(t, path, "B\n")

	diff, err := s.Diff(ctx, path)
	require.NoError(t, err)
	assert.NotContains(t, diff, "\x1b[")
	assert.Contains(t, diff, "-A")
	assert.Contains(t, diff, "+B")
}

func TestGitCLI_NotARepositoryDegrades(t *testing.T) {
	ctx := context.Background()
	dir := resolveSymlinks(t.TempDir())
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	s := NewGitCLI(dir, Options{Timeout: 10 * time.Second})

	assert.False(t, s.Available(ctx))

	path := filepath.Join(dir, "x.txt")
	writeFile(t, path, "on disk\n")
	data, ok, err := s.AcceptedContent(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "on disk\n", string(data))

	modified, err := s.IsModified(ctx, path)
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestGitCLI_MissingBinaryDegrades(t *testing.T) {
	dir := t.TempDir()
	s := NewGitCLI(dir, Options{GitBinary: "no-such-git-binary"})
	assert.False(t, s.Available(context.Background()))
}

func TestGoGit_NotARepositoryDegrades(t *testing.T) {
	dir := resolveSymlinks(t.TempDir())
	s := NewGoGit(dir, Options{})
	// go-git walks up to the filesystem root; temp dirs are not inside a repo
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), ".git")); err == nil {
		t.Skip("temp dir is inside a repository")
	}
	assert.False(t, s.Available(context.Background()))
}

func TestMemoizedProbe_RunsOnce(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	probe := func() error { calls++; return nil }

	assert.Equal(t, AvailabilityWorking, memoizedProbe(dir, "test", time.Second, probe))
	assert.Equal(t, AvailabilityWorking, memoizedProbe(dir, "test", time.Second, probe))
	assert.Equal(t, 1, calls)
}

func TestUnifiedDiff(t *testing.T) {
	d, err := unifiedDiff("x.txt", "A\n", "A\n")
	require.NoError(t, err)
	assert.Empty(t, d)

	d, err = unifiedDiff("x.txt", "A\n", "B\n")
	require.NoError(t, err)
	assert.Contains(t, d, "--- a/x.txt")
	assert.Contains(t, d, "+++ b/x.txt")
	assert.Contains(t, d, "-A")
	assert.Contains(t, d, "+B")
}
