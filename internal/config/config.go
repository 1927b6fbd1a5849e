// Package config loads and persists the anyfix workspace configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// WorkspaceDir is the per-project directory holding config, backups, reports and metrics.
const WorkspaceDir = ".anyfix"

// Config represents the complete anyfix configuration
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	RepoRoot string `json:"repoRoot" mapstructure:"repoRoot"`

	// Rule is the lint rule whose occurrences are targeted
	Rule string `json:"rule" mapstructure:"rule"`

	Lint      LintConfig      `json:"lint" mapstructure:"lint"`
	Typecheck TypecheckConfig `json:"typecheck" mapstructure:"typecheck"`
	Campaign  CampaignConfig  `json:"campaign" mapstructure:"campaign"`
	Files     FilesConfig     `json:"files" mapstructure:"files"`
	Backup    BackupConfig    `json:"backup" mapstructure:"backup"`
	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
}

// LintConfig describes how to invoke the external linter
type LintConfig struct {
	Command   string   `json:"command" mapstructure:"command"`
	Args      []string `json:"args" mapstructure:"args"`
	Format    string   `json:"format" mapstructure:"format"` // "json" or "compact"
	TimeoutMs int      `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// TypecheckConfig describes how to invoke the external type checker
type TypecheckConfig struct {
	Command   string   `json:"command" mapstructure:"command"`
	Args      []string `json:"args" mapstructure:"args"`
	TimeoutMs int      `json:"timeoutMs" mapstructure:"timeoutMs"`
}

// CampaignConfig contains orchestrator settings
type CampaignConfig struct {
	// Profile selects the classifier safety profile: conservative, balanced, aggressive
	Profile string `json:"profile" mapstructure:"profile"`

	// PollEveryFiles is how often the live warning count is re-polled
	PollEveryFiles int `json:"pollEveryFiles" mapstructure:"pollEveryFiles"`

	// TargetReduction stops the campaign early once this fraction of the
	// baseline warning count has been eliminated (0 disables early stop)
	TargetReduction float64 `json:"targetReduction" mapstructure:"targetReduction"`

	// MaxFiles caps how many files one run may touch (0 = unlimited)
	MaxFiles int `json:"maxFiles" mapstructure:"maxFiles"`
}

// FilesConfig controls which files are considered
type FilesConfig struct {
	Extensions []string `json:"extensions" mapstructure:"extensions"`
	Ignore     []string `json:"ignore" mapstructure:"ignore"`
}

// BackupConfig contains backup store settings
type BackupConfig struct {
	RetentionDays int `json:"retentionDays" mapstructure:"retentionDays"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		RepoRoot: ".",
		Rule:     "@typescript-eslint/no-explicit-any",
		Lint: LintConfig{
			Command:   "npx",
			Args:      []string{"eslint", ".", "--format", "json"},
			Format:    "json",
			TimeoutMs: 180000,
		},
		Typecheck: TypecheckConfig{
			Command:   "npx",
			Args:      []string{"tsc", "--noEmit"},
			TimeoutMs: 300000,
		},
		Campaign: CampaignConfig{
			Profile:         "balanced",
			PollEveryFiles:  5,
			TargetReduction: 0,
			MaxFiles:        0,
		},
		Files: FilesConfig{
			Extensions: []string{".ts", ".tsx"},
			Ignore:     []string{"node_modules", "dist", "build", ".next", "coverage"},
		},
		Backup: BackupConfig{
			RetentionDays: 30,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .anyfix/config.json
func LoadConfig(repoRoot string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("repoRoot", ".")

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(repoRoot, WorkspaceDir))

	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .anyfix/config.json
func (c *Config) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, WorkspaceDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Rule == "" {
		return &ConfigError{Field: "rule", Message: "rule must not be empty"}
	}
	if c.Lint.Command == "" {
		return &ConfigError{Field: "lint.command", Message: "linter command must not be empty"}
	}
	if c.Typecheck.Command == "" {
		return &ConfigError{Field: "typecheck.command", Message: "type checker command must not be empty"}
	}
	switch c.Campaign.Profile {
	case "conservative", "balanced", "aggressive":
	default:
		return &ConfigError{Field: "campaign.profile", Message: "profile must be conservative, balanced or aggressive"}
	}
	if c.Campaign.TargetReduction < 0 || c.Campaign.TargetReduction > 1 {
		return &ConfigError{Field: "campaign.targetReduction", Message: "targetReduction must be in [0,1]"}
	}
	if c.Campaign.PollEveryFiles < 0 {
		return &ConfigError{Field: "campaign.pollEveryFiles", Message: "pollEveryFiles must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
