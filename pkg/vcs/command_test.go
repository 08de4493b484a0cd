package vcs

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "a\n", []string{"a"}},
		{"blank lines dropped", "a\n\n\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitLines([]byte(tt.input)))
		})
	}
}

func TestCommandError_Messages(t *testing.T) {
	failed := &CommandError{Args: []string{"ls-files", "-s"}, Stderr: "fatal: bad\n", Err: errors.New("exit status 128")}
	assert.Equal(t, "`git ls-files -s` command failed: fatal: bad", failed.Error())
	assert.ErrorIs(t, failed, ErrCommandFailed)

	timedOut := &CommandError{Args: []string{"diff"}, Err: ErrTimeout}
	assert.Equal(t, "`git diff` command timed out", timedOut.Error())
	assert.ErrorIs(t, timedOut, ErrTimeout)
	assert.ErrorIs(t, timedOut, ErrCommandFailed)
}

func TestRunner_NonZeroExitCarriesStderr(t *testing.T) {
	dir := initRepo(t)
	r := runner{bin: "git", dir: dir, timeout: 10 * time.Second}

	_, err := r.output(context.Background(), "cat-file", "blob", "0000000000000000000000000000000000000000")
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.NotEmpty(t, cmdErr.Stderr)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRunner_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	bin := filepath.Join(t.TempDir(), "slowgit")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755)) // #nosec G306 - executable test fixture

	r := runner{bin: bin, dir: t.TempDir(), timeout: 100 * time.Millisecond}
	start := time.Now()
	_, err := r.output(context.Background(), "status")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 4*time.Second, "timeout must abort the process")
}

func TestRunner_BinaryNotFound(t *testing.T) {
	r := runner{bin: "definitely-not-a-git-binary", dir: t.TempDir(), timeout: time.Second}
	_, err := r.output(context.Background(), "status")
	require.Error(t, err)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}
