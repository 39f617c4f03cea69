// Package config loads CLI configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/fileutil"
	"github.com/alnah/go-web2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidField    = errors.New("invalid config field")
)

// Config holds all configuration for PDF rendering.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Page   PageConfig   `yaml:"page"`
	Render RenderConfig `yaml:"render"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current dir)
}

// PageConfig defines page layout options.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "legal", "tabloid", "a3", "a4", "a5"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // points, applied to all sides
}

// RenderConfig defines load and export behavior.
type RenderConfig struct {
	Timeout     string `yaml:"timeout"`     // Go duration, e.g. "30s"
	Strategy    string `yaml:"strategy"`    // "polling", "signal"
	ReadySignal string `yaml:"readySignal"` // binding name for the signal strategy
	BaseRoot    string `yaml:"baseRoot"`    // base access root for local-file loads
	Background  *bool  `yaml:"background"`  // print background graphics (default true)
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{
			Size:        "letter",
			Orientation: "portrait",
			Margin:      36,
		},
		Render: RenderConfig{
			Timeout:  "30s",
			Strategy: "polling",
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfigPath searches standard locations for a named config:
// ./<name>.yaml, then $XDG_CONFIG_HOME/web2pdf/<name>.yaml.
func resolveConfigPath(name string) (string, error) {
	candidates := []string{name + ".yaml", name + ".yml"}

	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates,
			filepath.Join(configDir, "web2pdf", name+".yaml"),
			filepath.Join(configDir, "web2pdf", name+".yml"),
		)
	}

	for _, c := range candidates {
		if fileutil.FileExists(c) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}

// Validate checks that field values parse and reference known variants.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Page.Size) {
	case "", "letter", "legal", "tabloid", "a3", "a4", "a5":
	default:
		return fmt.Errorf("%w: page.size %q", ErrInvalidField, c.Page.Size)
	}

	switch strings.ToLower(c.Page.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation %q", ErrInvalidField, c.Page.Orientation)
	}

	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin %.2f (must be non-negative)", ErrInvalidField, c.Page.Margin)
	}

	if c.Render.Timeout != "" {
		if _, err := time.ParseDuration(c.Render.Timeout); err != nil {
			return fmt.Errorf("%w: render.timeout %q: %v", ErrInvalidField, c.Render.Timeout, err)
		}
	}

	switch strings.ToLower(c.Render.Strategy) {
	case "", "polling", "signal":
	default:
		return fmt.Errorf("%w: render.strategy %q", ErrInvalidField, c.Render.Strategy)
	}

	return nil
}

// Timeout returns the parsed render timeout, or fallback when unset.
func (c *Config) Timeout(fallback time.Duration) time.Duration {
	if c.Render.Timeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return fallback
	}
	return d
}
