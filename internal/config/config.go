// Package config provides configuration loading and management for ofaperiod.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/openbook/libperiod/period"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendMemory = "memory"
	BackendXML    = "xml"
)

// Output formats of the enumerate command
const (
	FormatText  = "text"
	FormatICS   = "ics"
	FormatRRule = "rrule"
)

// Config represents the complete ofaperiod configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Engine  EngineConfig  `yaml:"engine"`
	Storage StorageConfig `yaml:"storage"`
	Output  OutputConfig  `yaml:"output"`
}

// LogConfig configures the logger
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: warn)
	Level string `yaml:"level"`
	// Format is text or json (default: text)
	Format string `yaml:"format"`
}

// EngineConfig selects and tunes the recurrence engine
type EngineConfig struct {
	// Preset names a period engine preset: default, high-performance,
	// low-memory or no-cache
	Preset string `yaml:"preset"`
	// MaxWindow overrides the preset's window clamp when non-zero
	MaxWindow time.Duration `yaml:"max_window"`
	// MaxOccurrences overrides the preset's result cap when non-zero
	MaxOccurrences int `yaml:"max_occurrences"`
}

// StorageConfig configures where rules are kept
type StorageConfig struct {
	// Backend is memory or xml
	Backend string `yaml:"backend"`
	// Path is the XML document used by the xml backend
	Path string `yaml:"path"`
}

// OutputConfig configures command output
type OutputConfig struct {
	// Format is the default enumerate format: text, ics or rrule
	Format string `yaml:"format"`
	// Summary is the event summary used in ICS output
	Summary string `yaml:"summary"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Engine: EngineConfig{
			Preset: "default",
		},
		Storage: StorageConfig{
			Backend: BackendXML,
			Path:    defaultStoragePath(),
		},
		Output: OutputConfig{
			Format:  FormatText,
			Summary: "Occurrence",
		},
	}
}

func defaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "periods.xml"
	}
	return filepath.Join(home, UserConfigDir, "periods.xml")
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if _, err := period.ConfigByName(c.Engine.Preset); err != nil {
		return fmt.Errorf("engine.preset: %w", err)
	}
	if c.Engine.MaxWindow < 0 {
		return fmt.Errorf("engine.max_window must not be negative")
	}
	if c.Engine.MaxOccurrences < 0 {
		return fmt.Errorf("engine.max_occurrences must not be negative")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendXML:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the xml backend")
		}
	default:
		return fmt.Errorf("storage.backend must be %s or %s, got %q", BackendMemory, BackendXML, c.Storage.Backend)
	}

	switch c.Output.Format {
	case FormatText, FormatICS, FormatRRule:
	default:
		return fmt.Errorf("output.format must be text, ics or rrule, got %q", c.Output.Format)
	}
	return nil
}

// PeriodEngineConfig resolves the preset and applies the overrides
func (c *Config) PeriodEngineConfig() (period.EngineConfig, error) {
	ec, err := period.ConfigByName(c.Engine.Preset)
	if err != nil {
		return period.EngineConfig{}, err
	}
	if c.Engine.MaxWindow > 0 {
		ec.MaxWindow = c.Engine.MaxWindow
	}
	if c.Engine.MaxOccurrences > 0 {
		ec.MaxOccurrences = c.Engine.MaxOccurrences
	}
	return ec, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}

	// Engine
	if other.Engine.Preset != "" {
		c.Engine.Preset = other.Engine.Preset
	}
	if other.Engine.MaxWindow != 0 {
		c.Engine.MaxWindow = other.Engine.MaxWindow
	}
	if other.Engine.MaxOccurrences != 0 {
		c.Engine.MaxOccurrences = other.Engine.MaxOccurrences
	}

	// Storage
	if other.Storage.Backend != "" {
		c.Storage.Backend = other.Storage.Backend
	}
	if other.Storage.Path != "" {
		c.Storage.Path = other.Storage.Path
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Summary != "" {
		c.Output.Summary = other.Output.Summary
	}
}
