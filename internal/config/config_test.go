package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tuanbt/buildtail/internal/action"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeAuto {
		t.Errorf("expected Mode=auto, got %s", cfg.Mode)
	}
	if cfg.DefaultWidth != 80 {
		t.Errorf("expected DefaultWidth=80, got %d", cfg.DefaultWidth)
	}
	if cfg.LogLines != 5 {
		t.Errorf("expected LogLines=5, got %d", cfg.LogLines)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	configJSON := `{
		"mode": "plain",
		"log_lines": 10,
		"hidden_kinds": ["substitute"],
		"log_level": "debug"
	}`

	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mode != ModePlain {
		t.Errorf("expected Mode=plain, got %s", cfg.Mode)
	}
	if cfg.LogLines != 10 {
		t.Errorf("expected LogLines=10, got %d", cfg.LogLines)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}
	if hidden := cfg.Hidden(); len(hidden) != 1 || hidden[0] != action.KindSubstitute {
		t.Errorf("expected hidden [substitute], got %v", hidden)
	}

	// Check defaults applied for unspecified fields
	if cfg.SpinnerIntervalMS != 100 {
		t.Errorf("expected default SpinnerIntervalMS=100, got %d", cfg.SpinnerIntervalMS)
	}
}

func TestLoadConfigYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "buildtail.yaml")

	configYAML := `mode: tty
default_width: 120
message_level: warn
no_color: true
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Mode != ModeTTY || cfg.DefaultWidth != 120 || !cfg.NoColor {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Verbosity() != action.LevelWarn {
		t.Errorf("expected warn verbosity, got %v", cfg.Verbosity())
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	// Should return defaults
	if cfg.DefaultWidth != 80 {
		t.Errorf("expected default DefaultWidth=80, got %d", cfg.DefaultWidth)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.json")

	if err := os.WriteFile(configPath, []byte("{invalid json}"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("expected error for invalid JSON, got nil")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Mode = "fancy" },
			wantErr: true,
		},
		{
			name:    "narrow width",
			modify:  func(c *Config) { c.DefaultWidth = 10 },
			wantErr: true,
		},
		{
			name:    "negative max widgets",
			modify:  func(c *Config) { c.MaxWidgets = -1 },
			wantErr: true,
		},
		{
			name:    "too many log lines",
			modify:  func(c *Config) { c.LogLines = 100 },
			wantErr: true,
		},
		{
			name:    "invalid message level",
			modify:  func(c *Config) { c.MessageLevel = "loud" },
			wantErr: true,
		},
		{
			name:    "invalid hidden kind",
			modify:  func(c *Config) { c.HiddenKinds = []string{"teleport"} },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "unlimited widgets",
			modify:  func(c *Config) { c.MaxWidgets = 0 },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), name)

			cfg := DefaultConfig()
			cfg.LogLines = 7
			cfg.LogLevel = "debug"

			if err := cfg.Save(configPath); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			// Load it back
			loaded, err := Load(configPath)
			if err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}

			if loaded.LogLines != 7 {
				t.Errorf("expected LogLines=7, got %d", loaded.LogLines)
			}
			if loaded.LogLevel != "debug" {
				t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
			}
		})
	}
}
