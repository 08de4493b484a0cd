package golden

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fulmenhq/goldencheck/pkg/logger"
	"github.com/fulmenhq/goldencheck/pkg/safeio"
	"github.com/fulmenhq/goldencheck/pkg/sanitize"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
)

// Engine reconciles produced output with the accepted reference held by
// Store. It writes the reference file in Dir whenever the file on disk does
// not hold the produced output, and fails unless the output is accepted.
type Engine struct {
	Store     vcs.Store
	Sanitizer *sanitize.Sanitizer
	Dir       string
}

// CheckText checks text output. Line endings are normalized and the
// sanitizer applied before comparison.
func (e *Engine) CheckText(ctx context.Context, id Identity, text string) error {
	normalized := NormalizeText(text, e.Sanitizer)
	return e.check(ctx, id, []byte(normalized+"\n"), normalized, false)
}

// CheckBytes checks binary output verbatim.
func (e *Engine) CheckBytes(ctx context.Context, id Identity, data []byte) error {
	return e.check(ctx, id, data, "", true)
}

func (e *Engine) check(ctx context.Context, id Identity, produced []byte, display string, binary bool) error {
	if err := id.Validate(); err != nil {
		return err
	}
	file := id.Filename()
	if err := os.MkdirAll(e.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create check directory %s: %w", e.Dir, err)
	}
	path, err := safeio.JoinContained(e.Dir, file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	accepted, ok, err := e.Store.AcceptedContent(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to read accepted content of %s: %w", file, err)
	}
	if ok && !binary {
		// hand-written references may lack the final newline or carry extras
		accepted = []byte(strings.TrimRight(normalizeLineEndings(string(accepted)), "\n") + "\n")
	}

	if ok && bytes.Equal(accepted, produced) {
		modified, err := e.Store.IsModified(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to query status of %s: %w", file, err)
		}
		if modified {
			logger.Debug("restoring reference file from accepted content", logger.String("file", file))
			return e.write(path, produced)
		}
		return nil
	}

	if err := e.write(path, produced); err != nil {
		return err
	}

	if !e.Store.Available(ctx) {
		return &MismatchError{Kind: ChangedNoVCS, File: file, Path: path, Content: display, Binary: binary}
	}

	modified, err := e.Store.IsModified(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to query status of %s: %w", file, err)
	}
	if !modified {
		// The accepted content disagreed with the output, yet git sees the
		// rewritten file as clean. Treated as success.
		logger.Warn("reference file was rewritten but git reports it unmodified", logger.String("file", file))
		return nil
	}

	untracked, err := e.Store.IsUntracked(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to query status of %s: %w", file, err)
	}
	if untracked {
		return &MismatchError{Kind: Untracked, File: file, Path: path, Binary: binary}
	}

	diff, err := e.Store.Diff(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to diff %s: %w", file, err)
	}
	if strings.TrimSpace(diff) == "" {
		logger.Warn("reference file is modified but git shows an empty diff", logger.String("file", file))
		return nil
	}

	mismatch := &MismatchError{Kind: Changed, File: file, Path: path, Binary: binary}
	if !binary {
		mismatch.Diff = strings.TrimRight(diff, "\n")
	}
	return mismatch
}

func (e *Engine) write(path string, data []byte) error {
	if err := safeio.WriteFilePreservePerms(path, data); err != nil {
		return fmt.Errorf("failed to write reference file: %w", err)
	}
	return nil
}
