// Package safeio holds the filesystem primitives used for reference files:
// containment checks for names derived from check identities, and writes
// that keep the mode of an existing file.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideBase is returned when a path resolves outside its base directory.
var ErrOutsideBase = errors.New("path is outside base directory")

// JoinContained joins name onto baseDir and returns the absolute result.
// It fails with ErrOutsideBase when the result escapes baseDir.
func JoinContained(baseDir, name string) (string, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base directory: %w", err)
	}
	full := filepath.Join(base, name)
	if err := contained(base, full); err != nil {
		return "", err
	}
	return full, nil
}

// ReadFileContained reads filePath only if it lies within baseDir.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}
	full, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file path: %w", err)
	}
	if err := contained(base, full); err != nil {
		return nil, err
	}
	// #nosec G304 -- full has been verified to be contained within base
	return os.ReadFile(full)
}

func contained(base, full string) error {
	rel, err := filepath.Rel(base, full)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideBase, full)
	}
	return nil
}

// WriteFilePreservePerms writes data to path, keeping the permission bits of
// an existing file. New files get 0644.
func WriteFilePreservePerms(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		if perm := st.Mode().Perm(); perm != 0 {
			mode = perm
		}
	}
	return os.WriteFile(path, data, mode)
}
