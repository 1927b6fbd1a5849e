package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rule != "@typescript-eslint/no-explicit-any" {
		t.Errorf("default rule = %q", cfg.Rule)
	}
	if cfg.Campaign.Profile != "balanced" {
		t.Errorf("default profile = %q", cfg.Campaign.Profile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfigMissingReturnsDefaults(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Lint.Command != "npx" {
		t.Errorf("expected default lint command, got %q", cfg.Lint.Command)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Campaign.Profile = "aggressive"
	cfg.Campaign.MaxFiles = 25
	cfg.Lint.TimeoutMs = 1234

	if err := cfg.Save(tmpDir); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, WorkspaceDir, "config.json")); err != nil {
		t.Fatalf("config.json not written: %v", err)
	}

	loaded, err := LoadConfig(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Campaign.Profile != "aggressive" {
		t.Errorf("profile = %q, want aggressive", loaded.Campaign.Profile)
	}
	if loaded.Campaign.MaxFiles != 25 {
		t.Errorf("maxFiles = %d, want 25", loaded.Campaign.MaxFiles)
	}
	if loaded.Lint.TimeoutMs != 1234 {
		t.Errorf("lint timeout = %d, want 1234", loaded.Lint.TimeoutMs)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 9 }, true},
		{"empty rule", func(c *Config) { c.Rule = "" }, true},
		{"empty lint command", func(c *Config) { c.Lint.Command = "" }, true},
		{"empty typecheck command", func(c *Config) { c.Typecheck.Command = "" }, true},
		{"bad profile", func(c *Config) { c.Campaign.Profile = "yolo" }, true},
		{"reduction above 1", func(c *Config) { c.Campaign.TargetReduction = 1.5 }, true},
		{"negative poll", func(c *Config) { c.Campaign.PollEveryFiles = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
