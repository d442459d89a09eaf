// Package config loads the settings shared by the CLI and the language
// server: formatter line length, parser limits and logging.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/bib/bibtex/parser"
	"github.com/dhamidi/bib/format"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = ".bib.yaml"

// SettingsSection is the key clients use for this server's settings in
// workspace/didChangeConfiguration and initializationOptions.
const SettingsSection = "bibtex"

type Config struct {
	Formatting FormattingConfig `yaml:"formatting" json:"formatting"`
	Parser     ParserConfig     `yaml:"parser" json:"parser"`
	Log        LogConfig        `yaml:"log" json:"log"`
}

type FormattingConfig struct {
	// LineLength is nil when unset; an explicit 0 disables wrapping.
	LineLength *int `yaml:"lineLength,omitempty" json:"lineLength,omitempty"`
}

type ParserConfig struct {
	MaxDepth int `yaml:"maxDepth,omitempty" json:"maxDepth,omitempty"`
}

type LogConfig struct {
	Verbosity int    `yaml:"verbosity" json:"verbosity"`
	File      string `yaml:"file,omitempty" json:"file,omitempty"`
}

func Default() Config {
	return Config{
		Parser: ParserConfig{MaxDepth: parser.DefaultMaxDepth},
	}
}

// Load reads the YAML file at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromSettings decodes settings sent by an LSP client on top of the
// defaults. Settings may be wrapped in a "bibtex" section.
func FromSettings(settings any) (Config, error) {
	return Default().Merge(settings)
}

// Merge overlays client settings onto c. Fields missing from settings keep
// their current value.
func (c Config) Merge(settings any) (Config, error) {
	if settings == nil {
		return c, nil
	}
	if m, ok := settings.(map[string]any); ok {
		if section, ok := m[SettingsSection]; ok {
			settings = section
		}
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return c, fmt.Errorf("failed to encode settings: %w", err)
	}
	merged := c
	if c.Formatting.LineLength != nil {
		width := *c.Formatting.LineLength
		merged.Formatting.LineLength = &width
	}
	if err := json.Unmarshal(data, &merged); err != nil {
		return c, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := merged.Validate(); err != nil {
		return c, err
	}
	return merged, nil
}

func (c Config) Validate() error {
	if c.Formatting.LineLength != nil && *c.Formatting.LineLength < 0 {
		return fmt.Errorf("formatting.lineLength must not be negative, got %d", *c.Formatting.LineLength)
	}
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("parser.maxDepth must not be negative, got %d", c.Parser.MaxDepth)
	}
	return nil
}

// FormatOptions returns the formatter options for this configuration with
// the default indentation. Editors override TabSize and InsertSpaces.
func (c Config) FormatOptions() format.Options {
	opts := format.DefaultOptions()
	if c.Formatting.LineLength != nil {
		opts.LineLength = *c.Formatting.LineLength
	}
	return opts
}

func (c Config) ParserOptions() []parser.Option {
	if c.Parser.MaxDepth > 0 {
		return []parser.Option{parser.WithMaxDepth(c.Parser.MaxDepth)}
	}
	return nil
}
