// Package typecheck gates rewrites behind the external type checker.
// Validation is always project-wide: checking a single file in isolation
// cannot detect breakage in downstream callers of a changed signature.
package typecheck

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"anyfix/internal/config"
	"anyfix/internal/logging"
)

// Result is the outcome of one type checker invocation.
type Result struct {
	Passed     bool   `json:"passed"`
	ErrorCount int    `json:"errorCount"`
	DurationMs int64  `json:"durationMs"`
	Output     string `json:"output,omitempty"` // trailing lines, for logging
}

// Checker invokes the configured type checker with no-emit semantics.
type Checker struct {
	repoRoot string
	cfg      config.TypecheckConfig
	logger   *logging.Logger
}

// NewChecker creates a project-wide type check gate.
func NewChecker(repoRoot string, cfg config.TypecheckConfig, logger *logging.Logger) *Checker {
	return &Checker{
		repoRoot: repoRoot,
		cfg:      cfg,
		logger:   logger.With(map[string]interface{}{"component": "typecheck"}),
	}
}

// tscError matches one tsc diagnostic line, e.g. "src/a.ts(3,5): error TS2322: ..."
var tscError = regexp.MustCompile(`error TS\d+`)

// Check runs the type checker against the whole project. A non-zero exit is a
// failed check, not an invocation error. Invocation errors (command missing,
// deadline exceeded) are returned to the caller, which must treat the
// validation as failed.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	timeout := time.Duration(c.cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, c.cfg.Command, c.cfg.Args...)
	cmd.Dir = c.repoRoot

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	elapsed := time.Since(start)

	result := &Result{
		Passed:     err == nil,
		ErrorCount: len(tscError.FindAll(output.Bytes(), -1)),
		DurationMs: elapsed.Milliseconds(),
		Output:     tail(output.String(), 10),
	}

	if err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			c.logger.Error("type checker timed out", map[string]interface{}{
				"timeoutMs": c.cfg.TimeoutMs,
			})
			return result, ctxErr
		}
		if _, isExit := err.(*exec.ExitError); !isExit {
			return result, err
		}
		// Exit error: the project has type errors. That is a valid answer.
	}

	c.logger.Debug("type check finished", map[string]interface{}{
		"passed":     result.Passed,
		"errors":     result.ErrorCount,
		"durationMs": result.DurationMs,
	})
	return result, nil
}

// tail returns the last n non-empty lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, l)
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
