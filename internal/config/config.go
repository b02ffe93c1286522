// Package config provides configuration management for styleimport.
// Settings come from defaults, an optional YAML or TOML file in the working
// directory, and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Defaults for the project layout.
const (
	DefaultStylesDir  = "styles"
	DefaultMasterFile = "style-pack.json"
	DefaultIndent     = 4
	maxIndent         = 16
)

// FileNames are the config files looked up in the working directory, in order.
var FileNames = []string{".styleimport.yaml", ".styleimport.yml", ".styleimport.toml"}

// Config represents the complete styleimport configuration.
type Config struct {
	// StylesDir holds one CSS file per master style
	StylesDir string `yaml:"styles_dir" toml:"styles_dir"`
	// MasterFile is the JSON style pack consumed by the styling application
	MasterFile string `yaml:"master_file" toml:"master_file"`
	// EnabledStyles are the style names left enabled after normalization
	EnabledStyles []string `yaml:"enabled_styles" toml:"enabled_styles"`
	// Indent is the number of spaces used when writing the master file
	Indent int `yaml:"indent" toml:"indent"`

	Cleanup CleanupConfig `yaml:"cleanup" toml:"cleanup"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
}

// CleanupConfig controls stale CSS removal.
type CleanupConfig struct {
	// Keep lists glob patterns for files in StylesDir that are never removed
	Keep []string `yaml:"keep,omitempty" toml:"keep"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Color controls color output (auto, always, never)
	Color string `yaml:"color" toml:"color"`
	// ShowDiff prints a CSS diff before each change prompt
	ShowDiff bool `yaml:"show_diff" toml:"show_diff"`
	// Progress shows a progress bar while writing CSS files
	Progress bool `yaml:"progress" toml:"progress"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		StylesDir:     DefaultStylesDir,
		MasterFile:    DefaultMasterFile,
		EnabledStyles: []string{"Global Theme", "Dark Stylus"},
		Indent:        DefaultIndent,
		Output: OutputConfig{
			Color:    "auto",
			ShowDiff: true,
			Progress: true,
		},
	}
}

// Find returns the first config file present in dir, or "" when none exists.
func Find(dir string) string {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads the config file discovered in dir, if any, over the defaults
// and applies environment overrides. It returns the file used ("" for none).
func Load(dir string) (*Config, string, error) {
	path := Find(dir)
	if path == "" {
		cfg := Default()
		if err := cfg.applyEnvironment(); err != nil {
			return nil, "", err
		}
		return cfg, "", cfg.Validate()
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads configuration from a specific YAML or TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// YAML renders the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.StylesDir == "" {
		return fmt.Errorf("%w: styles_dir must not be empty", ErrInvalid)
	}
	if c.MasterFile == "" {
		return fmt.Errorf("%w: master_file must not be empty", ErrInvalid)
	}
	if c.Indent < 0 || c.Indent > maxIndent {
		return fmt.Errorf("%w: indent %d out of range 0-%d", ErrInvalid, c.Indent, maxIndent)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color %q (want auto, always or never)", ErrInvalid, c.Output.Color)
	}
	for _, pattern := range c.Cleanup.Keep {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: cleanup.keep pattern %q", ErrInvalid, pattern)
		}
	}
	return nil
}

// IsEnabledStyle reports whether name stays enabled in the master list.
func (c *Config) IsEnabledStyle(name string) bool {
	for _, n := range c.EnabledStyles {
		if n == name {
			return true
		}
	}
	return false
}

// applyEnvironment applies STYLEIMPORT_* overrides.
func (c *Config) applyEnvironment() error {
	if v := os.Getenv("STYLEIMPORT_STYLES_DIR"); v != "" {
		c.StylesDir = v
	}
	if v := os.Getenv("STYLEIMPORT_MASTER_FILE"); v != "" {
		c.MasterFile = v
	}
	if v := os.Getenv("STYLEIMPORT_ENABLED_STYLES"); v != "" {
		c.EnabledStyles = splitList(v)
	}
	if v := os.Getenv("STYLEIMPORT_INDENT"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: STYLEIMPORT_INDENT %q is not a number", ErrInvalid, v)
		}
		c.Indent = n
	}
	if v := os.Getenv("STYLEIMPORT_OUTPUT_COLOR"); v != "" {
		c.Output.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("STYLEIMPORT_SHOW_DIFF"); v != "" {
		c.Output.ShowDiff = parseBool(v)
	}
	return nil
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
