package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"anyfix/internal/config"
)

var (
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the anyfix workspace",
	Long: `Initialize the .anyfix workspace in the target repository: the config file,
the backup and report directories, and the metrics database.

An existing config is left untouched unless --force is given.`,
	Run: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config with defaults")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	repoRoot := mustGetRepoRoot()

	configPath := workspacePath(repoRoot, "config.json")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Workspace already initialized at %s (use --force to rewrite the config)\n",
			workspacePath(repoRoot))
	} else {
		cfg := config.DefaultConfig()
		cfg.RepoRoot = repoRoot
		if err := cfg.Save(repoRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", configPath)
	}

	for _, sub := range []string{"backups", "reports"} {
		if err := os.MkdirAll(workspacePath(repoRoot, sub), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %s directory: %v\n", sub, err)
			os.Exit(1)
		}
	}

	cfg := mustLoadConfig(repoRoot)
	logger := newLogger("human", cfg)
	db := mustOpenStorage(repoRoot, logger)
	db.Close()

	fmt.Printf("Workspace ready at %s\n", workspacePath(repoRoot))
}
