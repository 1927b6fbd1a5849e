package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anyfix/internal/campaign"
	anyfixerrors "anyfix/internal/errors"
	"anyfix/internal/report"
)

var (
	reportRunID string
	reportJSON  bool
	reportWrite bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the report for a recorded campaign run",
	Long: `Render the markdown report for a recorded run (the most recent one by
default). Per-file details are only available in reports written at run time;
regenerated reports carry the persisted totals and the warning history.`,
	Run: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRunID, "run", "", "Run ID (default: most recent run)")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Emit the JSON metrics instead of markdown")
	reportCmd.Flags().BoolVar(&reportWrite, "write", false, "Also write the report files under .anyfix/reports")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger("human", cfg)

	db := mustOpenStorage(repoRoot, logger)
	defer db.Close()

	record, found, err := lookupRun(db, reportRunID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !found {
		fixErr := anyfixerrors.New(anyfixerrors.RunNotFound, "no matching campaign run recorded", nil)
		fmt.Fprintf(os.Stderr, "Error: %v\n", fixErr)
		os.Exit(1)
	}

	rep := &report.Report{Summary: campaign.SummaryFromRecord(record)}
	if history, err := db.WarningHistory(cfg.Rule, 20); err == nil {
		rep.History = history
	}

	if reportWrite {
		path, err := rep.Write(repoRoot)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}

	if reportJSON {
		output, err := FormatResponse(rep, FormatJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(output)
		return
	}
	fmt.Print(rep.Markdown())
}
