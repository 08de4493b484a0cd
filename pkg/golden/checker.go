package golden

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/config"
	"github.com/fulmenhq/goldencheck/pkg/encode"
	"github.com/fulmenhq/goldencheck/pkg/sanitize"
	"github.com/fulmenhq/goldencheck/pkg/vcs"
)

// Default file extensions per check kind.
const (
	ExtText   = "txt"
	ExtBinary = "bin"
	ExtJSON   = "json"
	ExtYAML   = "yaml"
	ExtTOML   = "toml"
	ExtXML    = "xml"
)

// Checker binds a check directory, a reference store and a sanitizer. It is
// safe for concurrent use as long as concurrent checks use distinct
// identities.
type Checker struct {
	engine          Engine
	maxColumnLength int
}

type options struct {
	baseDir         string
	patterns        []string
	guids           bool
	quotedGUIDs     bool
	vcs             vcs.Options
	store           vcs.Store
	maxColumnLength int
}

// Option configures New.
type Option func(*options) error

// WithCallerFile resolves a relative check directory against the directory
// of the given source file.
func WithCallerFile(file string) Option {
	return func(o *options) error {
		if file == "" {
			return fmt.Errorf("%w: empty caller file", ErrConfiguration)
		}
		o.baseDir = filepath.Dir(file)
		return nil
	}
}

func withBaseDir(dir string) Option {
	return func(o *options) error {
		if dir != "" {
			o.baseDir = dir
		}
		return nil
	}
}

// WithSanitizer adds regular expressions whose matches are replaced by
// sequential placeholders before comparison.
func WithSanitizer(patterns ...string) Option {
	return func(o *options) error {
		o.patterns = append(o.patterns, patterns...)
		return nil
	}
}

// WithSanitizeGUIDs replaces everything that looks like a GUID.
func WithSanitizeGUIDs() Option {
	return func(o *options) error {
		o.guids = true
		return nil
	}
}

// WithSanitizeQuotedGUIDs replaces GUIDs inside double quotes. Ignored when
// WithSanitizeGUIDs is also given.
func WithSanitizeQuotedGUIDs() Option {
	return func(o *options) error {
		o.quotedGUIDs = true
		return nil
	}
}

// WithBackend selects the VCS backend: "git", "gogit" or "none".
func WithBackend(name string) Option {
	return func(o *options) error {
		o.vcs.Backend = name
		return nil
	}
}

// WithTimeout bounds every VCS query.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return fmt.Errorf("%w: negative VCS timeout %s", ErrConfiguration, d)
		}
		o.vcs.Timeout = d
		return nil
	}
}

// WithGitBinary sets the git executable used by the "git" backend.
func WithGitBinary(bin string) Option {
	return func(o *options) error {
		o.vcs.GitBinary = bin
		return nil
	}
}

// WithStore uses s instead of opening a backend.
func WithStore(s vcs.Store) Option {
	return func(o *options) error {
		o.store = s
		return nil
	}
}

// WithMaxColumnLength sets the default MaxColumnLength for CheckTable.
func WithMaxColumnLength(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return fmt.Errorf("%w: negative max column length %d", ErrConfiguration, n)
		}
		o.maxColumnLength = n
		return nil
	}
}

// New returns a Checker writing reference files to dir. A relative dir
// requires WithCallerFile.
func New(dir string, opts ...Option) (*Checker, error) {
	var o options
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	resolved, err := resolveDir(dir, o.baseDir)
	if err != nil {
		return nil, err
	}

	patterns := append([]string(nil), o.patterns...)
	if o.guids {
		patterns = append(patterns, sanitize.GUIDPattern)
	} else if o.quotedGUIDs {
		patterns = append(patterns, sanitize.QuotedGUIDPattern)
	}
	s, err := sanitize.New(patterns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	store := o.store
	if store == nil {
		if store, err = vcs.Open(resolved, o.vcs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}

	return &Checker{
		engine:          Engine{Store: store, Sanitizer: s, Dir: resolved},
		maxColumnLength: o.maxColumnLength,
	}, nil
}

// NewFromConfig returns a Checker configured from cfg. A relative
// cfg.Directory resolves against cfg.BaseDir. opts are applied after the
// configuration and take precedence.
func NewFromConfig(cfg *config.Config, opts ...Option) (*Checker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", ErrConfiguration)
	}
	base := []Option{
		withBaseDir(cfg.BaseDir),
		WithBackend(cfg.VCS.Backend),
		WithTimeout(cfg.VCS.Timeout),
		WithGitBinary(cfg.VCS.GitBinary),
		WithSanitizer(cfg.Sanitize.Patterns...),
		WithMaxColumnLength(cfg.Table.MaxColumnLength),
	}
	if cfg.Sanitize.GUIDs {
		base = append(base, WithSanitizeGUIDs())
	}
	if cfg.Sanitize.QuotedGUIDs {
		base = append(base, WithSanitizeQuotedGUIDs())
	}
	return New(cfg.Directory, append(base, opts...)...)
}

func resolveDir(dir, baseDir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: check directory is empty", ErrConfiguration)
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	if baseDir == "" {
		return "", fmt.Errorf("%w: check directory %q is relative and no caller file was given", ErrConfiguration, dir)
	}
	abs, err := filepath.Abs(filepath.Join(baseDir, dir))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return abs, nil
}

// Dir returns the absolute check directory.
func (c *Checker) Dir() string { return c.engine.Dir }

// Store returns the reference store.
func (c *Checker) Store() vcs.Store { return c.engine.Store }

// Path returns the reference file path for id.
func (c *Checker) Path(id Identity) string {
	return filepath.Join(c.engine.Dir, id.Filename())
}

// CheckString checks text output.
func (c *Checker) CheckString(ctx context.Context, id Identity, text string) error {
	return c.engine.CheckText(ctx, id.orExt(ExtText), text)
}

// CheckLines checks lines joined by newlines.
func (c *Checker) CheckLines(ctx context.Context, id Identity, lines []string) error {
	return c.engine.CheckText(ctx, id.orExt(ExtText), strings.Join(lines, "\n"))
}

// CheckBinary checks binary output byte for byte.
func (c *Checker) CheckBinary(ctx context.Context, id Identity, data []byte) error {
	return c.engine.CheckBytes(ctx, id.orExt(ExtBinary), data)
}

// CheckJSON checks the tab-indented JSON serialization of v.
func (c *Checker) CheckJSON(ctx context.Context, id Identity, v any, opts encode.JSONOptions) error {
	out, err := encode.JSON(v, opts)
	if err != nil {
		return err
	}
	return c.engine.CheckText(ctx, id.orExt(ExtJSON), string(out))
}

// CheckTable checks rows rendered as a text table. Inputs above
// encode.MaxTableRows fail with encode.ErrContentLimit before any file is
// touched.
func (c *Checker) CheckTable(ctx context.Context, id Identity, rows any, opts encode.TableOptions) error {
	if opts.MaxColumnLength == 0 {
		opts.MaxColumnLength = c.maxColumnLength
	}
	out, err := encode.Table(rows, opts)
	if err != nil {
		return err
	}
	return c.engine.CheckText(ctx, id.orExt(ExtText), out)
}

// CheckYAML checks the YAML serialization of v.
func (c *Checker) CheckYAML(ctx context.Context, id Identity, v any) error {
	out, err := encode.YAML(v)
	if err != nil {
		return err
	}
	return c.engine.CheckText(ctx, id.orExt(ExtYAML), string(out))
}

// CheckTOML checks the TOML serialization of v.
func (c *Checker) CheckTOML(ctx context.Context, id Identity, v any) error {
	out, err := encode.TOML(v)
	if err != nil {
		return err
	}
	return c.engine.CheckText(ctx, id.orExt(ExtTOML), string(out))
}

// CheckXML checks an XML document after re-indenting it.
func (c *Checker) CheckXML(ctx context.Context, id Identity, doc []byte) error {
	out, err := encode.XML(doc)
	if err != nil {
		return err
	}
	return c.engine.CheckText(ctx, id.orExt(ExtXML), string(out))
}
