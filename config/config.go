// Package config loads hamlint configuration files.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".haml-lint.yml"

//go:embed default.yml
var defaultConfig []byte

// Config is the complete configuration of a run.
type Config struct {
	// SkipFrontmatter strips a leading `---` delimited block before parsing.
	SkipFrontmatter bool `yaml:"skip_frontmatter"`

	// TabWidth is the indentation width of a tab character.
	TabWidth int `yaml:"tab_width"`

	// Exclude lists glob patterns of files that are never linted.
	Exclude []string `yaml:"exclude"`

	// FailLevel is the lowest lint severity that fails a run.
	FailLevel string `yaml:"fail_level"`

	// Linters holds per-linter sections keyed by linter name.
	Linters map[string]LinterConfig `yaml:"linters"`
}

// LinterConfig is the configuration section of a single linter.
type LinterConfig struct {
	// Enabled is nil when the section does not mention it.
	Enabled *bool `yaml:"enabled"`

	// Severity overrides the severity of the linter lints.
	Severity string `yaml:"severity"`

	// Include limits the linter to the files matching these globs.
	Include []string `yaml:"include"`

	// Exclude skips the files matching these globs.
	Exclude []string `yaml:"exclude"`

	// Params holds every other key of the section.
	Params map[string]interface{} `yaml:",inline"`
}

// file mirrors Config with pointer scalars, so an overlay can tell
// an absent key from a zero value.
type file struct {
	SkipFrontmatter *bool                   `yaml:"skip_frontmatter"`
	TabWidth        *int                    `yaml:"tab_width"`
	Exclude         []string                `yaml:"exclude"`
	FailLevel       string                  `yaml:"fail_level"`
	Linters         map[string]LinterConfig `yaml:"linters"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return &cfg
}

// Load reads the file at path and lays it on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML data and lays it on top of the defaults.
func Parse(data []byte) (*Config, error) {
	var overlay file
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg := Default()
	cfg.merge(&overlay)
	if cfg.TabWidth <= 0 {
		return nil, fmt.Errorf("tab_width must be positive, got %d", cfg.TabWidth)
	}
	return cfg, nil
}

func (c *Config) merge(f *file) {
	if f.SkipFrontmatter != nil {
		c.SkipFrontmatter = *f.SkipFrontmatter
	}
	if f.TabWidth != nil {
		c.TabWidth = *f.TabWidth
	}
	if f.Exclude != nil {
		c.Exclude = f.Exclude
	}
	if f.FailLevel != "" {
		c.FailLevel = f.FailLevel
	}
	if c.Linters == nil {
		c.Linters = make(map[string]LinterConfig)
	}
	for name, over := range f.Linters {
		c.Linters[name] = c.Linters[name].merge(over)
	}
}

func (lc LinterConfig) merge(over LinterConfig) LinterConfig {
	if over.Enabled != nil {
		lc.Enabled = over.Enabled
	}
	if over.Severity != "" {
		lc.Severity = over.Severity
	}
	if over.Include != nil {
		lc.Include = over.Include
	}
	if over.Exclude != nil {
		lc.Exclude = over.Exclude
	}
	params := make(map[string]interface{}, len(lc.Params)+len(over.Params))
	for k, v := range lc.Params {
		params[k] = v
	}
	for k, v := range over.Params {
		params[k] = v
	}
	lc.Params = params
	return lc
}

// Linter returns the section of the named linter.
// Linters without a section get an empty one.
func (c *Config) Linter(name string) LinterConfig {
	return c.Linters[name]
}

// ExcludesFile reports whether path matches a global exclude pattern.
func (c *Config) ExcludesFile(path string) bool {
	return matchAny(c.Exclude, path)
}

// IsEnabled reports whether the linter should run.
// A section without an enabled key is enabled.
func (lc LinterConfig) IsEnabled() bool {
	return lc.Enabled == nil || *lc.Enabled
}

// AppliesTo reports whether the linter should run on path.
func (lc LinterConfig) AppliesTo(path string) bool {
	if len(lc.Include) != 0 && !matchAny(lc.Include, path) {
		return false
	}
	return !matchAny(lc.Exclude, path)
}

// matchAny matches path against patterns.
// Patterns without a separator also match the base name.
func matchAny(patterns []string, path string) bool {
	clean := filepath.Clean(path)
	for _, pattern := range patterns {
		if ok, _ := doublestar.PathMatch(filepath.Clean(pattern), clean); ok {
			return true
		}
		if !containsSeparator(pattern) {
			if ok, _ := doublestar.Match(pattern, filepath.Base(clean)); ok {
				return true
			}
		}
	}
	return false
}

func containsSeparator(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '/' || pattern[i] == filepath.Separator {
			return true
		}
	}
	return false
}
