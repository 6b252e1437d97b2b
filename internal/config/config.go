// Package config handles user settings loading, validation, and change
// watching for softboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Version is the current configuration schema version.
const Version = 1

// Tone input schemes supported by the engine.
const (
	ToneSchemeLongPress = "longpress"
	ToneSchemeVXQ       = "vxq"
)

// Config holds the complete softboard configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version"`

	// Keyboard configures the on-screen key layout.
	Keyboard KeyboardConfig `toml:"keyboard"`

	// Engine configures the input-method engine.
	Engine EngineConfig `toml:"engine"`

	// Logging configures structured logging.
	Logging LoggingConfig `toml:"logging"`
}

// KeyboardConfig holds layout settings.
type KeyboardConfig struct {
	// Idiom forces a form factor: "phone" or "tablet".
	Idiom string `toml:"idiom"`

	// Definition names the built-in keyboard definition to load.
	Definition string `toml:"definition"`

	// ButtonGap overrides the inter-key gap in pixels. Zero keeps the
	// idiom default.
	ButtonGap float64 `toml:"button_gap"`

	// KeyHeight overrides the key frame height in pixels. Zero keeps
	// the idiom default.
	KeyHeight float64 `toml:"key_height"`

	// HasInputModeSwitch reports whether the host environment offers a
	// real input-mode switch. When false, globe keys render as emoji
	// keys instead.
	HasInputModeSwitch bool `toml:"has_input_mode_switch"`
}

// EngineConfig holds input-method engine settings.
type EngineConfig struct {
	// DataDir is the read-only directory holding the engine's schema
	// and dictionary files.
	DataDir string `toml:"data_dir"`

	// UserDataDir is the writable directory for config patches and the
	// user dictionary.
	UserDataDir string `toml:"user_data_dir"`

	// ToneScheme selects how tones are typed: "longpress" or "vxq".
	ToneScheme string `toml:"tone_scheme"`

	// EnableCorrector turns on the fuzzy-input corrector.
	EnableCorrector bool `toml:"enable_corrector"`

	// CandidateLimit caps the number of candidates per lookup.
	CandidateLimit int `toml:"candidate_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `toml:"level"`

	// Format is "text" or "json".
	Format string `toml:"format"`

	// Output is "stdout", "stderr", "file", or "both".
	Output string `toml:"output"`

	// FilePath is the log file path when Output includes "file".
	FilePath string `toml:"file_path"`
}

// Load reads and parses the configuration file at path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate performs validation of the configuration.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	switch c.Keyboard.Idiom {
	case "phone", "tablet":
	default:
		errs = append(errs, ValidationError{
			Field:   "keyboard.idiom",
			Message: fmt.Sprintf("must be phone or tablet, got %q", c.Keyboard.Idiom),
		})
	}

	if c.Keyboard.Definition == "" {
		errs = append(errs, ValidationError{
			Field:   "keyboard.definition",
			Message: "must name a keyboard definition",
		})
	}

	if c.Keyboard.ButtonGap < 0 {
		errs = append(errs, ValidationError{
			Field:   "keyboard.button_gap",
			Message: "must not be negative",
		})
	}
	if c.Keyboard.KeyHeight < 0 {
		errs = append(errs, ValidationError{
			Field:   "keyboard.key_height",
			Message: "must not be negative",
		})
	}

	switch c.Engine.ToneScheme {
	case ToneSchemeLongPress, ToneSchemeVXQ:
	default:
		errs = append(errs, ValidationError{
			Field:   "engine.tone_scheme",
			Message: fmt.Sprintf("must be %s or %s, got %q", ToneSchemeLongPress, ToneSchemeVXQ, c.Engine.ToneScheme),
		})
	}

	if c.Engine.CandidateLimit < 1 {
		errs = append(errs, ValidationError{
			Field:   "engine.candidate_limit",
			Message: "must be at least 1",
		})
	}

	switch c.Logging.Output {
	case "", "stdout", "stderr", "file", "both":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("unknown output %q", c.Logging.Output),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
