// Package ignore walks a check directory for reference files, skipping paths
// matched by .gitignore rules or a .goldencheckignore file at its root.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileName is the goldencheck-specific ignore file.
const FileName = ".goldencheckignore"

// Matcher filters paths relative to a root directory.
type Matcher struct {
	root    string
	fs      billy.Filesystem
	matcher gitignore.Matcher
}

// NewMatcher loads ignore rules for root. Missing ignore files are not an
// error.
func NewMatcher(root string) (*Matcher, error) {
	bfs := osfs.New(root)

	patterns := []gitignore.Pattern{
		gitignore.ParsePattern(".git/", nil),
		gitignore.ParsePattern(FileName, nil),
		gitignore.ParsePattern(".gitignore", nil),
	}
	// .gitignore files anywhere below root, plus .git/info/exclude when root
	// is a repository root.
	if gitPatterns, err := gitignore.ReadPatterns(bfs, nil); err == nil {
		patterns = append(patterns, gitPatterns...)
	}
	extra, err := readIgnoreFile(bfs, FileName)
	if err != nil {
		return nil, err
	}
	for _, p := range extra {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}

	return &Matcher{root: root, fs: bfs, matcher: gitignore.NewMatcher(patterns)}, nil
}

// readIgnoreFile returns the non-comment lines of name, or nothing when the
// file does not exist.
func readIgnoreFile(bfs billy.Filesystem, name string) ([]string, error) {
	content, err := util.ReadFile(bfs, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, scanner.Err()
}

// Match reports whether rel (slash or OS separated, relative to the root) is
// ignored.
func (m *Matcher) Match(rel string, isDir bool) bool {
	parts := splitPath(filepath.ToSlash(rel))
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// Walk calls fn with the slash-separated relative path of every regular file
// below the root that is not ignored. Ignored directories are not entered.
func (m *Matcher) Walk(fn func(rel string) error) error {
	return util.Walk(m.fs, ".", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "" || path == "." || path == "/" {
			return nil
		}
		rel := filepath.ToSlash(path)
		if m.Match(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return fn(rel)
	})
}

// splitPath converts a slash-separated path into components for go-git matching
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" || path == "." {
		return nil
	}
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}
