package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatHeader = "header"
)

// Report key styles
const (
	KeyStyleSnake = "snake"
	KeyStyleCamel = "camel"
	KeyStyleKebab = "kebab"
)

// Config represents the complete configuration for castscan
type Config struct {
	Output    OutputConfig    `yaml:"output"`
	Sentinels SentinelsConfig `yaml:"sentinels"`
	Filter    FilterConfig    `yaml:"filter"`
	Dev       DevConfig       `yaml:"dev"`
}

// OutputConfig controls how the report is rendered
type OutputConfig struct {
	Format   string `yaml:"format"`
	KeyStyle string `yaml:"key_style"`
	// HeaderGuard names the include guard of the header format. Empty
	// means derive it from the input file name.
	HeaderGuard string `yaml:"header_guard"`
}

// SentinelsConfig holds the placeholder text shown for absent values.
type SentinelsConfig struct {
	NoName        string `yaml:"no_name"`
	UnknownReturn string `yaml:"unknown_return"`
	UnknownParam  string `yaml:"unknown_param"`
	Void          string `yaml:"void"`
}

// FilterConfig selects which functions are reported
type FilterConfig struct {
	NamePattern     string `yaml:"name_pattern"`
	MinConditionals int    `yaml:"min_conditionals"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:   FormatText,
			KeyStyle: KeyStyleSnake,
		},
		Sentinels: DefaultSentinels(),
	}
}

// DefaultSentinels returns the placeholders used when nothing is configured.
func DefaultSentinels() SentinelsConfig {
	return SentinelsConfig{
		NoName:        "(noname)",
		UnknownReturn: "(unknown)",
		UnknownParam:  "unknown",
		Void:          "void",
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".castscan.yml", ".castscan.yaml", "castscan.yml", "castscan.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks enumerated values, fills empty sentinels and compiles the
// name filter.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML, FormatHeader:
	default:
		return fmt.Errorf("unknown output format '%s'", c.Output.Format)
	}

	switch c.Output.KeyStyle {
	case KeyStyleSnake, KeyStyleCamel, KeyStyleKebab:
	default:
		return fmt.Errorf("unknown key style '%s'", c.Output.KeyStyle)
	}

	if c.Filter.MinConditionals < 0 {
		return fmt.Errorf("min_conditionals must not be negative, got %d", c.Filter.MinConditionals)
	}

	defaults := DefaultSentinels()
	if c.Sentinels.NoName == "" {
		c.Sentinels.NoName = defaults.NoName
	}
	if c.Sentinels.UnknownReturn == "" {
		c.Sentinels.UnknownReturn = defaults.UnknownReturn
	}
	if c.Sentinels.UnknownParam == "" {
		c.Sentinels.UnknownParam = defaults.UnknownParam
	}
	if c.Sentinels.Void == "" {
		c.Sentinels.Void = defaults.Void
	}

	c.Filter.regex = nil
	if c.Filter.NamePattern != "" {
		regex, err := regexp.Compile(c.Filter.NamePattern)
		if err != nil {
			return fmt.Errorf("invalid name pattern '%s': %w", c.Filter.NamePattern, err)
		}
		c.Filter.regex = regex
	}

	return nil
}

// MatchesName reports whether a function name passes the name filter.
// Unnamed functions only pass when no pattern is set.
func (f *FilterConfig) MatchesName(name string) bool {
	if f.NamePattern == "" {
		return true
	}
	if f.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(f.NamePattern)
		if err != nil {
			return false
		}
		f.regex = regex
	}
	return name != "" && f.regex.MatchString(name)
}

// Active reports whether any filter is configured.
func (f *FilterConfig) Active() bool {
	return f.NamePattern != "" || f.MinConditionals > 0
}

// ReportKey returns the json/yaml report key for a field name, applying the
// configured key style.
func (c *Config) ReportKey(name string) string {
	switch c.Output.KeyStyle {
	case KeyStyleCamel:
		return strcase.ToLowerCamel(name)
	case KeyStyleKebab:
		return strcase.ToKebab(name)
	default:
		return strcase.ToSnake(name)
	}
}

// CLIOverrides carries flag values; zero values leave the file config alone.
type CLIOverrides struct {
	Format          string
	KeyStyle        string
	NamePattern     string
	MinConditionals int
	HeaderGuard     string
	Debug           bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Format != "" {
		cfg.Output.Format = cli.Format
	}
	if cli.KeyStyle != "" {
		cfg.Output.KeyStyle = cli.KeyStyle
	}
	if cli.NamePattern != "" {
		cfg.Filter.NamePattern = cli.NamePattern
	}
	if cli.HeaderGuard != "" {
		cfg.Output.HeaderGuard = cli.HeaderGuard
	}
	if cli.MinConditionals > 0 {
		cfg.Filter.MinConditionals = cli.MinConditionals
	}
	// A debug flag can only switch debugging on.
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
