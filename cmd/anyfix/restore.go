package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anyfix/internal/backup"
	anyfixerrors "anyfix/internal/errors"
)

var (
	restoreFile string
	restoreList bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [run-id]",
	Short: "Restore files from a run's backups",
	Long: `Restore files from the backups taken during a campaign run. With no run ID
the most recent recorded run is used. Every restore is verified against the
content hash recorded at backup time.

Use --list to see what a run backed up, --file to restore a single file.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRestore,
}

func init() {
	restoreCmd.Flags().StringVar(&restoreFile, "file", "", "Restore only this file")
	restoreCmd.Flags().BoolVar(&restoreList, "list", false, "List backed-up files without restoring")
	rootCmd.AddCommand(restoreCmd)
}

func runRestore(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()
	cfg := mustLoadConfig(repoRoot)
	logger := newLogger("human", cfg)

	runID := ""
	if len(args) > 0 {
		runID = args[0]
	}
	if runID == "" {
		db := mustOpenStorage(repoRoot, logger)
		record, found, err := db.LatestRun()
		db.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !found {
			fixErr := anyfixerrors.New(anyfixerrors.RunNotFound, "no campaign runs recorded", nil)
			fmt.Fprintf(os.Stderr, "Error: %v\n", fixErr)
			os.Exit(1)
		}
		runID = record.RunID
	}

	store, err := backup.OpenStore(workspacePath(repoRoot, "backups"), runID, logger)
	if err != nil {
		fixErr := anyfixerrors.New(anyfixerrors.RunNotFound,
			fmt.Sprintf("no backups found for run %s", runID), err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", fixErr)
		os.Exit(1)
	}

	files := store.Files()
	if restoreList {
		fmt.Printf("Run %s backed up %d file(s):\n", runID, len(files))
		for _, f := range files {
			fmt.Printf("  %s\n", f)
		}
		return
	}

	if restoreFile != "" {
		files = []string{restoreFile}
	}

	restored := 0
	for _, f := range files {
		if err := store.Restore(f); err != nil {
			fixErr := anyfixerrors.New(anyfixerrors.RestoreFailed,
				fmt.Sprintf("could not restore %s", f), err)
			fmt.Fprintf(os.Stderr, "Error: %v\n", fixErr)
			os.Exit(1)
		}
		restored++
	}
	fmt.Printf("Restored %d file(s) from run %s\n", restored, runID)
}
