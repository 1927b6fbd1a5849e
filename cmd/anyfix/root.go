package main

import (
	"anyfix/internal/version"

	"github.com/spf13/cobra"
)

var (
	// repoFlag is the CLI --repo flag value
	repoFlag string
)

var rootCmd = &cobra.Command{
	Use:   "anyfix",
	Short: "anyfix - explicit-any remediation campaigns for TypeScript projects",
	Long: `anyfix drives incremental remediation of @typescript-eslint/no-explicit-any
warnings. It scans the linter's findings, classifies each occurrence as safely
replaceable, intentionally flexible, or uncertain, rewrites files under a
backup-validate-rollback discipline, and tracks progress across runs.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("anyfix version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&repoFlag, "repo", "",
		"Target repository root (default: current directory)")
}
