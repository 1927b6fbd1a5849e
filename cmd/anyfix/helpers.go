package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"anyfix/internal/backup"
	"anyfix/internal/campaign"
	"anyfix/internal/classify"
	"anyfix/internal/config"
	anyfixerrors "anyfix/internal/errors"
	"anyfix/internal/lint"
	"anyfix/internal/logging"
	"anyfix/internal/patterns"
	"anyfix/internal/rewrite"
	"anyfix/internal/scan"
	"anyfix/internal/storage"
	"anyfix/internal/typecheck"
)

// getRepoRoot returns the target repository root.
func getRepoRoot() (string, error) {
	if repoFlag != "" {
		return filepath.Abs(repoFlag)
	}
	return os.Getwd()
}

// mustGetRepoRoot returns the repository root or exits on error.
func mustGetRepoRoot() string {
	repoRoot, err := getRepoRoot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return repoRoot
}

// mustLoadConfig loads and validates the workspace configuration or exits.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}

// newLogger creates a logger honoring the output format flag and the
// configured level.
func newLogger(format string, cfg *config.Config) *logging.Logger {
	logFormat := logging.HumanFormat
	if format == "json" || cfg.Logging.Format == "json" {
		logFormat = logging.JSONFormat
	}
	level := logging.InfoLevel
	if cfg.Logging.Level != "" {
		level = logging.LogLevel(cfg.Logging.Level)
	}
	return logging.NewLogger(logging.Config{
		Format: logFormat,
		Level:  level,
	})
}

// workspacePath returns a path inside the .anyfix directory.
func workspacePath(repoRoot string, parts ...string) string {
	return filepath.Join(append([]string{repoRoot, config.WorkspaceDir}, parts...)...)
}

// mustBuildScanner constructs the scanner with the project's pattern overlay
// applied, or exits if the overlay is malformed.
func mustBuildScanner(repoRoot string, logger *logging.Logger) *scan.Scanner {
	overlay, err := patterns.LoadOverlay(workspacePath(repoRoot))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	rules, err := patterns.ApplyOverlay(patterns.BuiltinRules(), overlay)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return scan.NewScanner(rules, logger)
}

// mustBuildClassifier constructs the classifier for a profile with the
// project's risk-domain declarations, or exits on invalid input.
func mustBuildClassifier(repoRoot, profileName string, logger *logging.Logger) *classify.Classifier {
	profile, err := patterns.ProfileByName(profileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	domains, err := classify.LoadDomains(workspacePath(repoRoot))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return classify.New(profile, domains)
}

// mustOpenStorage opens the metrics database or exits.
func mustOpenStorage(repoRoot string, logger *logging.Logger) *storage.DB {
	db, err := storage.Open(repoRoot, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening metrics database: %v\n", err)
		os.Exit(1)
	}
	return db
}

// mustBuildOrchestrator wires up a full campaign orchestrator.
func mustBuildOrchestrator(repoRoot, profileName string, cfg *config.Config, db *storage.DB, logger *logging.Logger) *campaign.Orchestrator {
	checker := typecheck.NewChecker(repoRoot, cfg.Typecheck, logger)
	backupRoot := workspacePath(repoRoot, "backups")

	return campaign.New(repoRoot, cfg, campaign.Deps{
		Linter:     lint.NewRunner(repoRoot, cfg.Lint, cfg.Rule, logger),
		Scanner:    mustBuildScanner(repoRoot, logger),
		Classifier: mustBuildClassifier(repoRoot, profileName, logger),
		NewRewriter: func(runID string) (campaign.Rewriter, error) {
			store, err := newBackupStore(backupRoot, runID, logger)
			if err != nil {
				return nil, err
			}
			return rewrite.NewEngine(store, checker, cfg.Rule, logger), nil
		},
		Store:  db,
		Logger: logger,
	})
}

// newBackupStore creates a run-scoped backup store, tagging failures with the
// stable error code so suggested fixes surface.
func newBackupStore(backupRoot, runID string, logger *logging.Logger) (*backup.Store, error) {
	store, err := backup.NewStore(backupRoot, runID, logger)
	if err != nil {
		return nil, anyfixerrors.New(anyfixerrors.BackupUnwritable, "cannot create backup directory", err)
	}
	return store, nil
}
