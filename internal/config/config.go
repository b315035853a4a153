// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/mindtype/internal/types"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds service settings. Values come from a JSON or YAML file and from the
// environment; environment values win.
type Config struct {
	// Server
	Port string `json:"port,omitempty" yaml:"port,omitempty"`

	// Catalog
	CatalogSource string `json:"catalog_source,omitempty" yaml:"catalog_source,omitempty"` // "file" or "postgres"
	CatalogPath   string `json:"catalog_path,omitempty" yaml:"catalog_path,omitempty"`     // Seed file for the file source
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"`     // PostgreSQL connection URL

	// Logging
	LogMode  string `json:"log_mode,omitempty" yaml:"log_mode,omitempty"`   // "dev" or "prod"
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty"` // zap level name

	// Behavior
	ResultCacheSize int    `json:"result_cache_size,omitempty" yaml:"result_cache_size,omitempty"` // 0 disables the cache
	PersistResults  bool   `json:"persist_results,omitempty" yaml:"persist_results,omitempty"`     // Store results in classification_results
	DemoSelections  string `json:"demo_selections,omitempty" yaml:"demo_selections,omitempty"`     // JSON selections for the demo endpoint

	// cacheSizeSet records an explicit result_cache_size, so 0 survives merging.
	cacheSizeSet bool
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            "8080",
		CatalogSource:   SourceFile,
		CatalogPath:     "configs/catalog.example.json",
		LogMode:         "dev",
		LogLevel:        "info",
		ResultCacheSize: 1024,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	var presence struct {
		ResultCacheSize *int `json:"result_cache_size" yaml:"result_cache_size"`
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		_ = yaml.Unmarshal(data, &presence)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
		_ = json.Unmarshal(data, &presence)
	}
	cfg.cacheSizeSet = presence.ResultCacheSize != nil

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset variables leave fields empty.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		CatalogSource:  os.Getenv("CATALOG_SOURCE"),
		CatalogPath:    os.Getenv("CATALOG_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogMode:        os.Getenv("LOG_MODE"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		DemoSelections: os.Getenv("DEMO_SELECTIONS"),
	}

	if v := os.Getenv("RESULT_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RESULT_CACHE_SIZE: %v", err)
		}
		cfg.ResultCacheSize = n
		cfg.cacheSizeSet = true
	}

	if v := os.Getenv("PERSIST_RESULTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PERSIST_RESULTS: %v", err)
		}
		cfg.PersistResults = b
	}

	return cfg, nil
}

// Load builds the effective configuration: environment over the optional file over Defaults.
// The result is validated.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	file := &Config{}
	if path != "" {
		if file, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	merged := env.MergeWithDefaults(*file)
	merged = merged.MergeWithDefaults(Defaults())

	// Bools cannot be merged; an explicit env value wins, otherwise the file decides.
	if _, ok := os.LookupEnv("PERSIST_RESULTS"); !ok {
		merged.PersistResults = file.PersistResults
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port != "" {
		port, err := strconv.Atoi(c.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("config error: 'port' must be a number between 1 and 65535, got %q", c.Port)
		}
	}

	switch c.CatalogSource {
	case SourceFile:
		if c.CatalogPath == "" {
			return fmt.Errorf("config error: 'catalog_path' is required when catalog_source is %q", SourceFile)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required when catalog_source is %q", SourcePostgres)
		}
	default:
		return fmt.Errorf("config error: 'catalog_source' must be %q or %q, got %q", SourceFile, SourcePostgres, c.CatalogSource)
	}

	if c.PersistResults && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'persist_results' requires 'database_url'")
	}

	if c.ResultCacheSize < 0 {
		return fmt.Errorf("config error: 'result_cache_size' must be non-negative")
	}

	if c.DemoSelections != "" {
		if _, err := c.DemoSelectionInput(); err != nil {
			return err
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == "" {
		result.Port = defaults.Port
	}
	if result.CatalogSource == "" {
		result.CatalogSource = defaults.CatalogSource
	}
	if result.CatalogPath == "" {
		result.CatalogPath = defaults.CatalogPath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.DemoSelections == "" {
		result.DemoSelections = defaults.DemoSelections
	}
	if result.ResultCacheSize == 0 && !result.cacheSizeSet {
		result.ResultCacheSize = defaults.ResultCacheSize
		result.cacheSizeSet = defaults.cacheSizeSet
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// DemoSelectionInput parses DemoSelections ({"1":[101],"2":[201],"3":[301]}).
// Returns nil when no demo selections are configured.
func (c *Config) DemoSelectionInput() (types.SelectionInput, error) {
	if c.DemoSelections == "" {
		return nil, nil
	}
	var input types.SelectionInput
	if err := json.Unmarshal([]byte(c.DemoSelections), &input); err != nil {
		return nil, fmt.Errorf("config error: invalid 'demo_selections': %w", err)
	}
	return input, nil
}
