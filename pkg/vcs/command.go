package vcs

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/logger"
)

// runner spawns one git process per query, bounded by timeout.
type runner struct {
	bin     string
	dir     string
	timeout time.Duration
}

// output runs the command and returns raw stdout.
func (r *runner) output(ctx context.Context, args ...string) ([]byte, error) {
	tctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger.Trace("running git command", logger.String("args", strings.Join(args, " ")), logger.String("dir", r.dir))

	cmd := exec.CommandContext(tctx, r.bin, args...) // #nosec G204 -- args are fixed git subcommands plus repo-relative paths
	cmd.Dir = r.dir
	// reference names may contain glob characters such as [ ] * ?
	cmd.Env = append(os.Environ(), "GIT_LITERAL_PATHSPECS=1")
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: fmt.Errorf("%w after %s", ErrTimeout, r.timeout)}
	}
	return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: err}
}

// lines runs the command and returns stdout split into non-empty lines.
func (r *runner) lines(ctx context.Context, args ...string) ([]string, error) {
	out, err := r.output(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

// splitLines parses newline-delimited records, discarding blank lines.
func splitLines(data []byte) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
