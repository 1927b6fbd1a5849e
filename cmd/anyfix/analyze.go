package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"anyfix/internal/classify"
	"anyfix/internal/lint"
)

var (
	analyzeFormat  string
	analyzeProfile string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Scan and classify explicit-any occurrences without changing anything",
	Long: `Run the linter, scan every affected file and classify each occurrence under
the selected safety profile. Nothing is written; this is the read-only preview
of what 'anyfix run' would do.`,
	Run: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "human", "Output format (json, human)")
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "Safety profile (conservative, balanced, aggressive)")
	rootCmd.AddCommand(analyzeCmd)
}

// AnalyzeResponseCLI contains classification totals for CLI output
type AnalyzeResponseCLI struct {
	Rule      string            `json:"rule"`
	Profile   string            `json:"profile"`
	Warnings  int               `json:"warnings"`
	Files     int               `json:"files"`
	Replace   int               `json:"replace"`
	Document  int               `json:"document"`
	Preserve  int               `json:"preserve"`
	ByPattern []PatternCountCLI `json:"byPattern"`
}

// PatternCountCLI is one pattern label with its occurrence count
type PatternCountCLI struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func runAnalyze(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(analyzeFormat, cfg)
	ctx := newContext()

	profileName := analyzeProfile
	if profileName == "" {
		profileName = cfg.Campaign.Profile
	}

	runner := lint.NewRunner(repoRoot, cfg.Lint, cfg.Rule, logger)
	scanner := mustBuildScanner(repoRoot, logger)
	classifier := mustBuildClassifier(repoRoot, profileName, logger)

	warnings := runner.Warnings(ctx)
	files := lint.DedupFiles(warnings)

	resp := &AnalyzeResponseCLI{
		Rule:     cfg.Rule,
		Profile:  profileName,
		Warnings: len(warnings),
		Files:    len(files),
	}

	byPattern := make(map[string]int)
	for _, file := range files {
		path := file
		if !filepath.IsAbs(path) {
			path = filepath.Join(repoRoot, file)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read file, skipping", map[string]interface{}{
				"file":  file,
				"error": err.Error(),
			})
			continue
		}
		for _, occ := range scanner.ScanContent(ctx, path, content) {
			byPattern[occ.PatternLabel]++
			switch classifier.Classify(occ, path, content).Action {
			case classify.ActionReplace:
				resp.Replace++
			case classify.ActionDocument:
				resp.Document++
			case classify.ActionPreserve:
				resp.Preserve++
			}
		}
	}

	labels := make([]string, 0, len(byPattern))
	for label := range byPattern {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		resp.ByPattern = append(resp.ByPattern, PatternCountCLI{Label: label, Count: byPattern[label]})
	}

	output, err := FormatResponse(resp, OutputFormat(analyzeFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
