// Package config loads scan settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mj1618/a11y-audit/internal/scan"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = ".a11y-audit.yaml"

// Config mirrors the settable scan options. Pointer fields distinguish
// "not set" from a zero value so the file only overrides what it names.
type Config struct {
	AltMaxLength      *int           `yaml:"alt_max_length,omitempty"      json:"alt_max_length,omitempty"`
	SmallTextPx       *float64       `yaml:"small_text_px,omitempty"       json:"small_text_px,omitempty"`
	SubheadingWords   *int           `yaml:"subheading_words,omitempty"    json:"subheading_words,omitempty"`
	AnimationTimeout  *time.Duration `yaml:"animation_timeout,omitempty"   json:"animation_timeout,omitempty"`
	AnimationFetch    *bool          `yaml:"animation_fetch,omitempty"     json:"animation_fetch,omitempty"`
	MaxAnimationBytes *int           `yaml:"max_animation_bytes,omitempty" json:"max_animation_bytes,omitempty"`
	DisabledRules     []string       `yaml:"disabled_rules,omitempty"      json:"disabled_rules,omitempty"`
	IgnoredIssueIDs   []string       `yaml:"ignored_issue_ids,omitempty"   json:"ignored_issue_ids,omitempty"`
	BaseURL           string         `yaml:"base_url,omitempty"            json:"base_url,omitempty"`
	Workers           *int           `yaml:"workers,omitempty"             json:"workers,omitempty"`
}

// Load reads the config at path. An empty path tries DefaultPath and
// returns an empty Config when it does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

// Validate rejects values no scan could use.
func (c *Config) Validate() error {
	if c.AltMaxLength != nil && *c.AltMaxLength <= 0 {
		return fmt.Errorf("alt_max_length must be positive, got %d", *c.AltMaxLength)
	}
	if c.SmallTextPx != nil && *c.SmallTextPx <= 0 {
		return fmt.Errorf("small_text_px must be positive, got %g", *c.SmallTextPx)
	}
	if c.SubheadingWords != nil && *c.SubheadingWords <= 0 {
		return fmt.Errorf("subheading_words must be positive, got %d", *c.SubheadingWords)
	}
	if c.AnimationTimeout != nil && *c.AnimationTimeout <= 0 {
		return fmt.Errorf("animation_timeout must be positive, got %s", *c.AnimationTimeout)
	}
	if c.MaxAnimationBytes != nil && *c.MaxAnimationBytes < 16 {
		return fmt.Errorf("max_animation_bytes must be at least 16, got %d", *c.MaxAnimationBytes)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	return nil
}

// Apply overlays the file's settings onto opts.
func (c *Config) Apply(opts *scan.Options) {
	if c.AltMaxLength != nil {
		opts.AltMaxLength = *c.AltMaxLength
	}
	if c.SmallTextPx != nil {
		opts.SmallTextPx = *c.SmallTextPx
	}
	if c.SubheadingWords != nil {
		opts.SubheadingWords = *c.SubheadingWords
	}
	if c.AnimationTimeout != nil {
		opts.AnimationTimeout = *c.AnimationTimeout
	}
	if c.AnimationFetch != nil {
		opts.AnimationFetch = *c.AnimationFetch
	}
	if c.MaxAnimationBytes != nil {
		opts.MaxAnimationBytes = *c.MaxAnimationBytes
	}
	if c.Workers != nil {
		opts.Workers = *c.Workers
	}
	opts.DisabledRules = append(opts.DisabledRules, c.DisabledRules...)
	opts.IgnoredIssueIDs = append(opts.IgnoredIssueIDs, c.IgnoredIssueIDs...)
}
