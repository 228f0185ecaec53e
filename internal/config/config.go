// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for termute.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.termute/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/morganforge/termute/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete termute configuration.
type Config struct {
	// Version is the config schema version.
	Version string `toml:"version"`

	// Gemini configuration
	Gemini GeminiConfig `toml:"gemini"`

	// Archive configuration
	Archive ArchiveConfig `toml:"archive"`

	// Log configuration
	Log LogConfig `toml:"log"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// GeminiConfig contains Gemini API configuration.
type GeminiConfig struct {
	// Model is the model name used for all requests
	Model string `toml:"model"`
	// BaseURL is the API base URL (override for proxies and tests)
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout for non-streaming calls
	TimeoutSecs int `toml:"timeout_secs"`
}

// ArchiveConfig contains conversation archive configuration.
type ArchiveConfig struct {
	// Enabled controls whether cleared conversations are appended to the
	// archive file
	Enabled bool `toml:"enabled"`
	// FileName is the archive file name, created in the working directory
	FileName string `toml:"file_name"`
}

// LogConfig contains diagnostic log configuration.
type LogConfig struct {
	// Debug enables debug-level logging
	Debug bool `toml:"debug"`
	// Path is the diagnostic log file (empty = no diagnostic log)
	Path string `toml:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// RuleWidth is the column width of transcript divider rules
	RuleWidth int `toml:"rule_width"`
	// SyntaxTheme is the markdown rendering style for one-shot output
	SyntaxTheme string `toml:"syntax_theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			TimeoutSecs: 60,
		},
		Archive: ArchiveConfig{
			Enabled:  true,
			FileName: ".termute.log",
		},
		Log: LogConfig{
			Debug: false,
			Path:  "",
		},
		UI: UIConfig{
			RuleWidth:   75,
			SyntaxTheme: "dark",
		},
	}
}

// =============================================================================
// PATH FUNCTIONS
// =============================================================================

// ConfigDir returns the termute configuration directory (~/.termute).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".termute"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults
// when no file exists. Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML config file.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors aggregates all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gemini.Model == "" {
		errs = append(errs, ValidationError{"gemini.model", "must not be empty"})
	}
	if c.Gemini.BaseURL != "" {
		if u, err := url.Parse(c.Gemini.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{"gemini.base_url", "must be an absolute URL"})
		}
	}
	if c.Gemini.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{"gemini.timeout_secs", "must not be negative"})
	}
	if c.Archive.Enabled && c.Archive.FileName == "" {
		errs = append(errs, ValidationError{"archive.file_name", "must not be empty when archiving is enabled"})
	}
	if c.UI.RuleWidth < 20 {
		errs = append(errs, ValidationError{"ui.rule_width", "must be at least 20"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields with default values.
func (c *Config) SetDefaults() {
	def := Default()

	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = def.Gemini.Model
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = def.Gemini.BaseURL
	}
	if c.Gemini.TimeoutSecs == 0 {
		c.Gemini.TimeoutSecs = def.Gemini.TimeoutSecs
	}
	if c.Archive.FileName == "" {
		c.Archive.FileName = def.Archive.FileName
	}
	if c.UI.RuleWidth == 0 {
		c.UI.RuleWidth = def.UI.RuleWidth
	}
	if c.UI.SyntaxTheme == "" {
		c.UI.SyntaxTheme = def.UI.SyntaxTheme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
// The GEMINI_API_KEY credential is read by the client at request time and
// never stored in the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TERMUTE_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("TERMUTE_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	if v := os.Getenv("TERMUTE_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Log.Debug = true
	}
	if v := os.Getenv("TERMUTE_LOG_FILE"); v != "" {
		c.Log.Path = v
	}
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Global returns the global configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global configuration.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = nil
}
