// Package config loads goldencheck settings from defaults, an optional
// .goldencheck.{yaml,yml,json,toml} file and GOLDENCHECK_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/goldencheck/pkg/sanitize"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = ".goldencheck"
	// EnvPrefix prefixes environment overrides, e.g. GOLDENCHECK_VCS_BACKEND.
	EnvPrefix = "GOLDENCHECK"
)

// ErrInvalid is returned for configuration that loads but cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for goldencheck
type Config struct {
	// Directory holds the reference files. Relative paths resolve against
	// BaseDir.
	Directory string         `mapstructure:"directory"`
	VCS       VCSConfig      `mapstructure:"vcs"`
	Sanitize  SanitizeConfig `mapstructure:"sanitize"`
	Table     TableConfig    `mapstructure:"table"`

	// File is the configuration file that was read, empty when none was found.
	File string `mapstructure:"-"`
	// BaseDir is the directory of File, or the directory passed to Load.
	BaseDir string `mapstructure:"-"`
}

// VCSConfig selects and tunes the reference store backend.
type VCSConfig struct {
	Backend   string        `mapstructure:"backend"` // "git", "gogit", "none"
	Timeout   time.Duration `mapstructure:"timeout"` // zero: platform default
	GitBinary string        `mapstructure:"git_binary"`
}

// SanitizeConfig lists non-determinism rules applied to text output.
type SanitizeConfig struct {
	GUIDs       bool     `mapstructure:"guids"`
	QuotedGUIDs bool     `mapstructure:"quoted_guids"`
	Patterns    []string `mapstructure:"patterns"`
}

// TableConfig holds defaults for table checks.
type TableConfig struct {
	MaxColumnLength int `mapstructure:"max_column_length"`
}

var defaultConfig = Config{
	Directory: "testdata/golden",
	VCS: VCSConfig{
		Backend:   "git",
		GitBinary: "git",
	},
	Sanitize: SanitizeConfig{
		Patterns: []string{},
	},
	Table: TableConfig{
		MaxColumnLength: 40,
	},
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	c := defaultConfig
	c.Sanitize.Patterns = []string{}
	return &c
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("directory", defaultConfig.Directory)
	v.SetDefault("vcs.backend", defaultConfig.VCS.Backend)
	v.SetDefault("vcs.timeout", defaultConfig.VCS.Timeout)
	v.SetDefault("vcs.git_binary", defaultConfig.VCS.GitBinary)
	v.SetDefault("sanitize.guids", defaultConfig.Sanitize.GUIDs)
	v.SetDefault("sanitize.quoted_guids", defaultConfig.Sanitize.QuotedGUIDs)
	v.SetDefault("sanitize.patterns", defaultConfig.Sanitize.Patterns)
	v.SetDefault("table.max_column_length", defaultConfig.Table.MaxColumnLength)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration for the project in dir. The file is looked up
// in dir, then in $HOME; a missing file is not an error.
func Load(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	v := newViper()
	v.SetConfigName(ConfigName)
	v.AddConfigPath(abs)
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return finish(v, abs)
}

// LoadFile reads configuration from an explicit file.
func LoadFile(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	v := newViper()
	v.SetConfigFile(abs)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return finish(v, filepath.Dir(abs))
}

func finish(v *viper.Viper, baseDir string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.BaseDir = baseDir
	if cfg.File != "" {
		cfg.BaseDir = filepath.Dir(cfg.File)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that the schema cannot express, and those coming
// from the environment.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Directory) == "" {
		problems = append(problems, "directory must not be empty")
	}
	switch strings.ToLower(c.VCS.Backend) {
	case "git", "gogit", "none":
	default:
		problems = append(problems, fmt.Sprintf("vcs.backend %q is not one of git, gogit, none", c.VCS.Backend))
	}
	if c.VCS.Timeout < 0 {
		problems = append(problems, "vcs.timeout must not be negative")
	}
	if c.Table.MaxColumnLength < 1 {
		problems = append(problems, "table.max_column_length must be at least 1")
	}
	if _, err := sanitize.New(c.Sanitize.Patterns...); err != nil {
		problems = append(problems, fmt.Sprintf("sanitize.patterns: %v", err))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInvalid, strings.Join(problems, "\n"))
	}
	return nil
}

// Dir returns the absolute check directory.
func (c *Config) Dir() string {
	if filepath.IsAbs(c.Directory) || c.BaseDir == "" {
		return c.Directory
	}
	return filepath.Join(c.BaseDir, c.Directory)
}
