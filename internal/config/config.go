// Package config handles loading and validation of buildtail configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tuanbt/buildtail/internal/action"
)

// Render modes.
const (
	ModeAuto  = "auto"
	ModeTTY   = "tty"
	ModePlain = "plain"
)

// Config represents the reporter configuration.
type Config struct {
	// Mode selects the renderer: auto, tty or plain.
	Mode string `json:"mode" yaml:"mode"`

	// DefaultWidth is the column width used when the terminal size is unknown.
	DefaultWidth int `json:"default_width" yaml:"default_width"`

	// MaxWidgets caps the number of live indicators. Zero means unlimited.
	MaxWidgets int `json:"max_widgets" yaml:"max_widgets"`

	// LogLines is the number of build log lines shown under each build.
	LogLines int `json:"log_lines" yaml:"log_lines"`

	// SpinnerIntervalMS is the animation cadence of build spinners.
	SpinnerIntervalMS int `json:"spinner_interval_ms" yaml:"spinner_interval_ms"`

	// HiddenKinds lists step kinds that never get an indicator.
	HiddenKinds []string `json:"hidden_kinds" yaml:"hidden_kinds"`

	// MessageLevel is the least severe message verbosity that gets printed.
	MessageLevel string `json:"message_level" yaml:"message_level"`

	// NoColor disables colors.
	NoColor bool `json:"no_color" yaml:"no_color"`

	// LogDirectory is the directory for log files.
	LogDirectory string `json:"log_directory" yaml:"log_directory"`

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Mode:              ModeAuto,
		DefaultWidth:      80,
		MaxWidgets:        64,
		LogLines:          5,
		SpinnerIntervalMS: 100,
		HiddenKinds:       []string{"query-path-info", "realise", "build-waiting"},
		MessageLevel:      "info",
		LogDirectory:      filepath.Join(os.TempDir(), "buildtail"),
		LogLevel:          "info",
	}
}

// Load reads configuration from a JSON or YAML file, chosen by extension.
// If the file doesn't exist, it returns DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// applyDefaults fills in default values for any fields that are zero/empty.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Mode == "" {
		c.Mode = defaults.Mode
	}
	if c.DefaultWidth <= 0 {
		c.DefaultWidth = defaults.DefaultWidth
	}
	if c.LogLines <= 0 {
		c.LogLines = defaults.LogLines
	}
	if c.SpinnerIntervalMS <= 0 {
		c.SpinnerIntervalMS = defaults.SpinnerIntervalMS
	}
	if c.MessageLevel == "" {
		c.MessageLevel = defaults.MessageLevel
	}
	if c.LogDirectory == "" {
		c.LogDirectory = defaults.LogDirectory
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeAuto, ModeTTY, ModePlain:
	default:
		return fmt.Errorf("invalid mode: %s (must be auto, tty, or plain)", c.Mode)
	}
	if c.DefaultWidth < 20 {
		return fmt.Errorf("default_width must be at least 20, got %d", c.DefaultWidth)
	}
	if c.MaxWidgets < 0 {
		return fmt.Errorf("max_widgets cannot be negative, got %d", c.MaxWidgets)
	}
	if c.LogLines < 1 || c.LogLines > 50 {
		return fmt.Errorf("log_lines must be between 1 and 50, got %d", c.LogLines)
	}
	if c.SpinnerIntervalMS < 10 {
		return fmt.Errorf("spinner_interval_ms must be at least 10, got %d", c.SpinnerIntervalMS)
	}
	if _, err := action.ParseVerbosity(c.MessageLevel); err != nil {
		return fmt.Errorf("invalid message_level: %w", err)
	}
	for _, name := range c.HiddenKinds {
		if action.ParseStepKind(name) == action.KindUnknown && name != "unknown" {
			return fmt.Errorf("invalid hidden_kinds entry: %s", name)
		}
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return fmt.Errorf("invalid log_level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Hidden returns the parsed hidden step kinds.
func (c *Config) Hidden() []action.StepKind {
	kinds := make([]action.StepKind, 0, len(c.HiddenKinds))
	for _, name := range c.HiddenKinds {
		kinds = append(kinds, action.ParseStepKind(name))
	}
	return kinds
}

// Verbosity returns the parsed message level, defaulting to info.
func (c *Config) Verbosity() action.Verbosity {
	v, err := action.ParseVerbosity(c.MessageLevel)
	if err != nil {
		return action.LevelInfo
	}
	return v
}

// Save writes the configuration to a JSON or YAML file, chosen by extension.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
