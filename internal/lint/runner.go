package lint

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"anyfix/internal/config"
	"anyfix/internal/logging"
)

// Runner invokes the configured linter and extracts warnings for one rule.
type Runner struct {
	repoRoot string
	cfg      config.LintConfig
	rule     string
	logger   *logging.Logger
}

// NewRunner creates a lint runner for the given repository root.
func NewRunner(repoRoot string, cfg config.LintConfig, rule string, logger *logging.Logger) *Runner {
	return &Runner{
		repoRoot: repoRoot,
		cfg:      cfg,
		rule:     rule,
		logger:   logger.With(map[string]interface{}{"component": "lint"}),
	}
}

// Warnings runs the linter and returns all occurrences of the target rule.
// A linter that exits non-zero but produces parsable output is a valid
// "has warnings" signal. Invocation or parse failures are logged and yield
// an empty result so the campaign can continue.
func (r *Runner) Warnings(ctx context.Context) []Warning {
	output, err := r.invoke(ctx)
	if err != nil {
		r.logger.Error("linter invocation failed", map[string]interface{}{
			"command": r.cfg.Command,
			"error":   err.Error(),
		})
		return nil
	}

	if r.cfg.Format == "compact" {
		return ParseCompact(output, r.rule)
	}

	warnings, err := ParseJSON(output, r.rule)
	if err != nil {
		// Format drift: fall back to the compact parser before giving up.
		r.logger.Warn("linter JSON unparsable, trying compact format", map[string]interface{}{
			"error": err.Error(),
		})
		if compact := ParseCompact(output, r.rule); len(compact) > 0 {
			return compact
		}
		r.logger.Error("linter output malformed, treating as zero warnings", map[string]interface{}{
			"bytes": len(output),
		})
		return nil
	}
	return warnings
}

// Count re-polls the linter and returns the live occurrence count of the rule.
func (r *Runner) Count(ctx context.Context) int {
	return len(r.Warnings(ctx))
}

// invoke runs the linter with the configured timeout and captures stdout.
// An exec.ExitError is not a failure here: linters exit non-zero whenever
// diagnostics exist.
func (r *Runner) invoke(ctx context.Context) ([]byte, error) {
	timeout := time.Duration(r.cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, r.cfg.Command, r.cfg.Args...)
	cmd.Dir = r.repoRoot

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); !isExit {
			return nil, err
		}
	}

	r.logger.Debug("linter finished", map[string]interface{}{
		"durationMs": time.Since(start).Milliseconds(),
		"bytes":      stdout.Len(),
	})
	return stdout.Bytes(), nil
}
