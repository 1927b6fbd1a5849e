package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"anyfix/internal/campaign"
	"anyfix/internal/report"
)

var (
	runFormat   string
	runProfile  string
	runDryRun   bool
	runMaxFiles int
	runNoReport bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a remediation campaign",
	Long: `Execute a full remediation campaign: poll the linter, rewrite each affected
file under backup, validate the whole project after every file, and roll back
any file whose edit breaks the type check.

With --dry-run the campaign classifies everything but writes nothing.`,
	Run: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFormat, "format", "human", "Output format (json, human)")
	runCmd.Flags().StringVar(&runProfile, "profile", "", "Safety profile (conservative, balanced, aggressive)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Classify only, write nothing")
	runCmd.Flags().IntVar(&runMaxFiles, "max-files", 0, "Cap how many files this run may touch (0 = config value)")
	runCmd.Flags().BoolVar(&runNoReport, "no-report", false, "Skip writing the report files")
	rootCmd.AddCommand(runCmd)
}

// RunResponseCLI contains campaign results for CLI output
type RunResponseCLI struct {
	RunID          string  `json:"runId"`
	Profile        string  `json:"profile"`
	DryRun         bool    `json:"dryRun"`
	Duration       string  `json:"duration"`
	FilesProcessed int     `json:"filesProcessed"`
	Replacements   int     `json:"replacements"`
	Documented     int     `json:"documented"`
	Preserved      int     `json:"preserved"`
	Rollbacks      int     `json:"rollbacks"`
	Failures       int     `json:"failures"`
	WarningsBefore int     `json:"warningsBefore"`
	WarningsAfter  int     `json:"warningsAfter"`
	ReductionPct   float64 `json:"reductionPct"`
	ReportPath     string  `json:"reportPath,omitempty"`
}

func runRun(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(runFormat, cfg)
	ctx := newContext()

	profileName := runProfile
	if profileName == "" {
		profileName = cfg.Campaign.Profile
	}

	db := mustOpenStorage(repoRoot, logger)
	defer db.Close()

	orch := mustBuildOrchestrator(repoRoot, profileName, cfg, db, logger)

	summary, err := orch.Run(ctx, campaign.Options{
		Profile:  profileName,
		DryRun:   runDryRun,
		MaxFiles: runMaxFiles,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rep := &report.Report{Summary: summary}
	resp := &RunResponseCLI{
		RunID:          summary.RunID,
		Profile:        summary.Profile,
		DryRun:         summary.DryRun,
		Duration:       summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String(),
		FilesProcessed: summary.FilesProcessed,
		Replacements:   summary.Replacements,
		Documented:     summary.Documented,
		Preserved:      summary.Preserved,
		Rollbacks:      summary.Rollbacks,
		Failures:       summary.Failures,
		WarningsBefore: summary.WarningsBefore,
		WarningsAfter:  summary.WarningsAfter,
		ReductionPct:   rep.Reduction() * 100,
	}

	if !runNoReport {
		if history, err := db.WarningHistory(cfg.Rule, 20); err == nil {
			rep.History = history
		}
		path, err := rep.Write(repoRoot)
		if err != nil {
			logger.Warn("failed to write report", map[string]interface{}{"error": err.Error()})
		} else {
			resp.ReportPath = path
		}
	}

	output, err := FormatResponse(resp, OutputFormat(runFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)

	if summary.Failures > 0 {
		os.Exit(1)
	}
}
