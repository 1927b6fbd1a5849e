package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"anyfix/internal/storage"
)

var (
	historyFormat string
	historyLimit  int
	historyCounts bool
	historyPrune  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded campaign runs and warning counts",
	Run:   runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "human", "Output format (json, human)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historyCounts, "counts", false, "Include the recorded warning counts")
	historyCmd.Flags().BoolVar(&historyPrune, "prune", false, "Remove history older than the configured retention")
	rootCmd.AddCommand(historyCmd)
}

// HistoryResponseCLI contains run history for CLI output
type HistoryResponseCLI struct {
	Runs   []storage.RunRecord    `json:"runs"`
	Counts []storage.WarningCount `json:"counts,omitempty"`
}

func runHistory(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger(historyFormat, cfg)

	db := mustOpenStorage(repoRoot, logger)
	defer db.Close()

	if historyPrune {
		retention := time.Duration(cfg.Backup.RetentionDays) * 24 * time.Hour
		removed, err := db.CleanupOldHistory(retention)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error pruning history: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Pruned %d history entries\n", removed)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	resp := &HistoryResponseCLI{Runs: runs}
	if historyCounts {
		counts, err := db.WarningHistory(cfg.Rule, historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		resp.Counts = counts
	}

	output, err := FormatResponse(resp, OutputFormat(historyFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// lookupRun resolves a run ID, or the most recent run when runID is empty.
func lookupRun(db *storage.DB, runID string) (storage.RunRecord, bool, error) {
	if runID == "" {
		return db.LatestRun()
	}
	return db.GetRun(runID)
}
