package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override name.
const EnvPrefix = "JSONEDIT"

// Config represents the complete configuration for jsonedit
type Config struct {
	Tree   TreeConfig   `yaml:"tree"`
	Search SearchConfig `yaml:"search"`
	Export ExportConfig `yaml:"export"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// TreeConfig bounds the display tree
type TreeConfig struct {
	MaxDepth        int `yaml:"max_depth"`
	MaxArrayItems   int `yaml:"max_array_items"`
	TitlePreviewLen int `yaml:"title_preview_len"` // 0 disables truncation
}

// SearchConfig controls the preview text search
type SearchConfig struct {
	MaxMatches       int `yaml:"max_matches"`
	PatternCacheSize int `yaml:"pattern_cache_size"`
}

// ExportConfig controls how the document is written out
type ExportConfig struct {
	FileName string `yaml:"file_name"`
	Indent   int    `yaml:"indent"`
}

// OutputConfig controls terminal output
type OutputConfig struct {
	Color bool `yaml:"color"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Tree: TreeConfig{
			MaxDepth:        50,
			MaxArrayItems:   1000,
			TitlePreviewLen: 60,
		},
		Search: SearchConfig{
			MaxMatches:       1000,
			PatternCacheSize: 64,
		},
		Export: ExportConfig{
			FileName: "cfg.json",
			Indent:   2,
		},
		Output: OutputConfig{
			Color: true,
		},
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
	configNames := []string{".jsonedit.yml", ".jsonedit.yaml", "jsonedit.yml", "jsonedit.yaml"}

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

// Validate checks that every limit is usable
func (c *Config) Validate() error {
	if c.Tree.MaxDepth <= 0 {
		return fmt.Errorf("tree.max_depth must be positive, got %d", c.Tree.MaxDepth)
	}
	if c.Tree.MaxArrayItems <= 0 {
		return fmt.Errorf("tree.max_array_items must be positive, got %d", c.Tree.MaxArrayItems)
	}
	if c.Tree.TitlePreviewLen < 0 {
		return fmt.Errorf("tree.title_preview_len must not be negative, got %d", c.Tree.TitlePreviewLen)
	}
	if c.Search.MaxMatches <= 0 {
		return fmt.Errorf("search.max_matches must be positive, got %d", c.Search.MaxMatches)
	}
	if c.Search.PatternCacheSize <= 0 {
		return fmt.Errorf("search.pattern_cache_size must be positive, got %d", c.Search.PatternCacheSize)
	}
	if strings.TrimSpace(c.Export.FileName) == "" {
		return fmt.Errorf("export.file_name must not be empty")
	}
	if c.Export.Indent < 0 {
		return fmt.Errorf("export.indent must not be negative, got %d", c.Export.Indent)
	}
	return nil
}

// EnvName returns the environment variable that overrides a yaml key path,
// e.g. "tree.max_depth" -> "JSONEDIT_TREE_MAX_DEPTH".
func EnvName(keyPath string) string {
	return EnvPrefix + "_" + strcase.ToScreamingSnake(strings.ReplaceAll(keyPath, ".", "_"))
}

// ApplyEnv overrides values from environment variables found through lookup.
// Pass os.LookupEnv in production.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	ints := map[string]*int{
		"tree.max_depth":            &c.Tree.MaxDepth,
		"tree.max_array_items":      &c.Tree.MaxArrayItems,
		"tree.title_preview_len":    &c.Tree.TitlePreviewLen,
		"search.max_matches":        &c.Search.MaxMatches,
		"search.pattern_cache_size": &c.Search.PatternCacheSize,
		"export.indent":             &c.Export.Indent,
	}
	for key, dst := range ints {
		raw, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", EnvName(key), err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"output.color": &c.Output.Color,
		"dev.debug":    &c.Dev.Debug,
	}
	for key, dst := range bools {
		raw, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", EnvName(key), err)
		}
		*dst = b
	}

	if raw, ok := lookup(EnvName("export.file_name")); ok {
		c.Export.FileName = raw
	}

	return c.Validate()
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI flags > environment > config file > defaults.
func LoadConfigWithCLI(configPath string, cliDebug, cliNoColor bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	// Boolean flags can only switch behaviour on, so false leaves the file value alone
	if cliDebug {
		cfg.Dev.Debug = true
	}
	if cliNoColor {
		cfg.Output.Color = false
	}

	return cfg, nil
}
