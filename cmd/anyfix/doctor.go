package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"anyfix/internal/config"
	anyfixerrors "anyfix/internal/errors"
	"anyfix/internal/storage"
	"anyfix/internal/tsparse"
)

var (
	doctorFormat string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose anyfix configuration and environment issues",
	Run:   runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorFormat, "format", "human", "Output format (json, human)")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorResponseCLI contains diagnostic results for CLI output
type DoctorResponseCLI struct {
	Healthy bool             `json:"healthy"`
	Checks  []DoctorCheckCLI `json:"checks"`
}

// DoctorCheckCLI represents a single diagnostic check
type DoctorCheckCLI struct {
	Name           string                  `json:"name"`
	Status         string                  `json:"status"` // "pass", "warn", "fail"
	Message        string                  `json:"message"`
	SuggestedFixes []anyfixerrors.FixAction `json:"suggestedFixes,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()

	resp := &DoctorResponseCLI{Healthy: true}
	add := func(c DoctorCheckCLI) {
		if c.Status == "fail" {
			resp.Healthy = false
		}
		resp.Checks = append(resp.Checks, c)
	}

	cfg, err := config.LoadConfig(repoRoot)
	if err != nil {
		add(DoctorCheckCLI{
			Name:           "config",
			Status:         "fail",
			Message:        fmt.Sprintf("config unreadable: %v", err),
			SuggestedFixes: anyfixerrors.GetSuggestedFixes(anyfixerrors.ConfigInvalid),
		})
		cfg = config.DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		add(DoctorCheckCLI{
			Name:           "config",
			Status:         "fail",
			Message:        err.Error(),
			SuggestedFixes: anyfixerrors.GetSuggestedFixes(anyfixerrors.ConfigInvalid),
		})
	} else {
		add(DoctorCheckCLI{Name: "config", Status: "pass", Message: "configuration valid"})
	}

	add(commandCheck("linter", cfg.Lint.Command, anyfixerrors.LintUnavailable))
	add(commandCheck("typecheck", cfg.Typecheck.Command, anyfixerrors.TypecheckUnavailable))

	if tsparse.Available() {
		add(DoctorCheckCLI{Name: "parser", Status: "pass", Message: "tree-sitter literal filtering active"})
	} else {
		add(DoctorCheckCLI{
			Name:    "parser",
			Status:  "warn",
			Message: "built without cgo; matches inside strings and comments cannot be filtered",
		})
	}

	add(workspaceCheck(repoRoot))

	logger := newLogger(doctorFormat, cfg)
	if db, err := storage.Open(repoRoot, logger); err != nil {
		add(DoctorCheckCLI{
			Name:    "storage",
			Status:  "fail",
			Message: fmt.Sprintf("metrics database unusable: %v", err),
		})
	} else {
		db.Close()
		add(DoctorCheckCLI{Name: "storage", Status: "pass", Message: "metrics database ok"})
	}

	output, err := FormatResponse(resp, OutputFormat(doctorFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if !resp.Healthy {
		os.Exit(1)
	}
}

// commandCheck verifies an external command is on PATH.
func commandCheck(name, command string, code anyfixerrors.ErrorCode) DoctorCheckCLI {
	if _, err := exec.LookPath(command); err != nil {
		return DoctorCheckCLI{
			Name:           name,
			Status:         "fail",
			Message:        fmt.Sprintf("%q not found on PATH", command),
			SuggestedFixes: anyfixerrors.GetSuggestedFixes(code),
		}
	}
	return DoctorCheckCLI{
		Name:    name,
		Status:  "pass",
		Message: fmt.Sprintf("%q available", command),
	}
}

// workspaceCheck verifies the .anyfix directory exists and is writable.
func workspaceCheck(repoRoot string) DoctorCheckCLI {
	dir := workspacePath(repoRoot)
	info, err := os.Stat(dir)
	if err != nil {
		return DoctorCheckCLI{
			Name:           "workspace",
			Status:         "warn",
			Message:        fmt.Sprintf("%s missing; run 'anyfix init'", dir),
			SuggestedFixes: anyfixerrors.GetSuggestedFixes(anyfixerrors.BackupUnwritable),
		}
	}
	if !info.IsDir() {
		return DoctorCheckCLI{
			Name:    "workspace",
			Status:  "fail",
			Message: fmt.Sprintf("%s exists but is not a directory", dir),
		}
	}

	probe, err := os.CreateTemp(dir, ".doctor-probe-*")
	if err != nil {
		return DoctorCheckCLI{
			Name:           "workspace",
			Status:         "fail",
			Message:        fmt.Sprintf("%s not writable: %v", dir, err),
			SuggestedFixes: anyfixerrors.GetSuggestedFixes(anyfixerrors.BackupUnwritable),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return DoctorCheckCLI{Name: "workspace", Status: "pass", Message: "workspace directory writable"}
}
