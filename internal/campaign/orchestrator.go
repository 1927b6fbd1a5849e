// Package campaign orchestrates a remediation run end to end: poll the linter,
// walk the affected files, classify and rewrite each one, and persist the
// results. Files are processed strictly one at a time so every rewrite is
// validated against an otherwise-unchanged project.
package campaign

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"anyfix/internal/classify"
	"anyfix/internal/config"
	"anyfix/internal/lint"
	"anyfix/internal/logging"
	"anyfix/internal/rewrite"
	"anyfix/internal/scan"
	"anyfix/internal/storage"
)

// Linter supplies warnings and live counts. The production implementation is
// lint.Runner.
type Linter interface {
	Warnings(ctx context.Context) []lint.Warning
	Count(ctx context.Context) int
}

// Rewriter applies classified edits to one file.
type Rewriter interface {
	Apply(ctx context.Context, path string, items []classify.Classified) (*rewrite.Outcome, error)
}

// HistoryStore persists warning counts and finished runs.
type HistoryStore interface {
	RecordWarningCount(rule string, count int, source string) error
	RecordRun(r storage.RunRecord) error
}

// Summary is the result of one campaign run.
type Summary struct {
	RunID          string             `json:"runId"`
	StartedAt      time.Time          `json:"startedAt"`
	FinishedAt     time.Time          `json:"finishedAt"`
	Profile        string             `json:"profile"`
	DryRun         bool               `json:"dryRun"`
	FilesProcessed int                `json:"filesProcessed"`
	Replacements   int                `json:"replacements"`
	Documented     int                `json:"documented"`
	Preserved      int                `json:"preserved"`
	Rollbacks      int                `json:"rollbacks"`
	Failures       int                `json:"failures"`
	WarningsBefore int                `json:"warningsBefore"`
	WarningsAfter  int                `json:"warningsAfter"`
	StoppedEarly   bool               `json:"stoppedEarly"`
	Outcomes       []*rewrite.Outcome `json:"outcomes"`
}

// Record converts the summary into its persisted form.
func (s *Summary) Record() storage.RunRecord {
	return storage.RunRecord{
		RunID:          s.RunID,
		StartedAt:      s.StartedAt,
		FinishedAt:     s.FinishedAt,
		Profile:        s.Profile,
		DryRun:         s.DryRun,
		FilesProcessed: s.FilesProcessed,
		Replacements:   s.Replacements,
		Documented:     s.Documented,
		Preserved:      s.Preserved,
		Rollbacks:      s.Rollbacks,
		Failures:       s.Failures,
		WarningsBefore: s.WarningsBefore,
		WarningsAfter:  s.WarningsAfter,
	}
}

// SummaryFromRecord rebuilds a summary from its persisted form. Per-file
// outcomes are not persisted, so the rebuilt summary carries totals only.
func SummaryFromRecord(r storage.RunRecord) *Summary {
	return &Summary{
		RunID:          r.RunID,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Profile:        r.Profile,
		DryRun:         r.DryRun,
		FilesProcessed: r.FilesProcessed,
		Replacements:   r.Replacements,
		Documented:     r.Documented,
		Preserved:      r.Preserved,
		Rollbacks:      r.Rollbacks,
		Failures:       r.Failures,
		WarningsBefore: r.WarningsBefore,
		WarningsAfter:  r.WarningsAfter,
	}
}

// Options tune one run without editing the stored config.
type Options struct {
	Profile string
	DryRun  bool

	// MaxFiles caps how many files this run may touch (0 = config value).
	MaxFiles int
}

// Deps are the collaborators an orchestrator needs. NewRewriter is a factory
// because the backup store underneath the engine is scoped to one run ID.
type Deps struct {
	Linter      Linter
	Scanner     *scan.Scanner
	Classifier  *classify.Classifier
	NewRewriter func(runID string) (Rewriter, error)
	Store       HistoryStore
	Logger      *logging.Logger
}

// Orchestrator drives remediation campaigns for one repository.
type Orchestrator struct {
	repoRoot string
	cfg      *config.Config
	deps     Deps
	logger   *logging.Logger
}

// New creates an orchestrator.
func New(repoRoot string, cfg *config.Config, deps Deps) *Orchestrator {
	return &Orchestrator{
		repoRoot: repoRoot,
		cfg:      cfg,
		deps:     deps,
		logger:   deps.Logger.With(map[string]interface{}{"component": "campaign"}),
	}
}

// Run executes one campaign. It never aborts on a single-file failure: the
// file is counted under Failures and the run moves on.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Profile:   opts.Profile,
		DryRun:    opts.DryRun,
	}
	if summary.Profile == "" {
		summary.Profile = o.cfg.Campaign.Profile
	}

	warnings := o.deps.Linter.Warnings(ctx)
	summary.WarningsBefore = len(warnings)
	summary.WarningsAfter = len(warnings)
	if !opts.DryRun && o.deps.Store != nil {
		if err := o.deps.Store.RecordWarningCount(o.cfg.Rule, summary.WarningsBefore, "campaign-start"); err != nil {
			o.logger.Warn("failed to record baseline", map[string]interface{}{"error": err.Error()})
		}
	}

	files := o.eligibleFiles(lint.DedupFiles(warnings))
	maxFiles := opts.MaxFiles
	if maxFiles <= 0 {
		maxFiles = o.cfg.Campaign.MaxFiles
	}
	if maxFiles > 0 && len(files) > maxFiles {
		files = files[:maxFiles]
	}

	o.logger.Info("campaign started", map[string]interface{}{
		"runId":    summary.RunID,
		"profile":  summary.Profile,
		"dryRun":   opts.DryRun,
		"warnings": summary.WarningsBefore,
		"files":    len(files),
	})

	var rewriter Rewriter
	if !opts.DryRun {
		var err error
		rewriter, err = o.deps.NewRewriter(summary.RunID)
		if err != nil {
			return summary, err
		}
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			o.logger.Warn("campaign interrupted", map[string]interface{}{"file": file})
			break
		}

		if err := o.processFile(ctx, file, rewriter, summary); err != nil {
			summary.Failures++
			o.logger.Error("file failed, continuing", map[string]interface{}{
				"file":  file,
				"error": err.Error(),
			})
		}
		summary.FilesProcessed++

		if o.shouldPoll(i, len(files)) {
			live := o.deps.Linter.Count(ctx)
			summary.WarningsAfter = live
			o.logger.Info("progress", map[string]interface{}{
				"processed": summary.FilesProcessed,
				"remaining": live,
			})
			if o.targetReached(summary.WarningsBefore, live) {
				summary.StoppedEarly = true
				o.logger.Info("target reduction reached, stopping early", map[string]interface{}{
					"before": summary.WarningsBefore,
					"after":  live,
				})
				break
			}
		}
	}

	if !opts.DryRun {
		summary.WarningsAfter = o.deps.Linter.Count(ctx)
	}
	summary.FinishedAt = time.Now()

	if o.deps.Store != nil {
		if !opts.DryRun {
			if err := o.deps.Store.RecordWarningCount(o.cfg.Rule, summary.WarningsAfter, "campaign-end"); err != nil {
				o.logger.Warn("failed to record final count", map[string]interface{}{"error": err.Error()})
			}
		}
		if err := o.deps.Store.RecordRun(summary.Record()); err != nil {
			o.logger.Warn("failed to record run", map[string]interface{}{"error": err.Error()})
		}
	}

	o.logger.Info("campaign finished", map[string]interface{}{
		"runId":      summary.RunID,
		"replaced":   summary.Replacements,
		"documented": summary.Documented,
		"rollbacks":  summary.Rollbacks,
		"before":     summary.WarningsBefore,
		"after":      summary.WarningsAfter,
	})
	return summary, nil
}

// processFile scans, classifies and (unless dry-run) rewrites one file.
func (o *Orchestrator) processFile(ctx context.Context, file string, rewriter Rewriter, summary *Summary) error {
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(o.repoRoot, file)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	occurrences := o.deps.Scanner.ScanContent(ctx, path, content)
	items := make([]classify.Classified, 0, len(occurrences))
	for _, occ := range occurrences {
		items = append(items, classify.Classified{
			Occurrence:     occ,
			Classification: o.deps.Classifier.Classify(occ, path, content),
		})
	}

	if summary.DryRun {
		outcome := &rewrite.Outcome{File: path}
		for _, item := range items {
			switch item.Classification.Action {
			case classify.ActionReplace:
				outcome.Replaced++
			case classify.ActionDocument:
				outcome.Documented++
			case classify.ActionPreserve:
				outcome.Preserved++
			}
		}
		o.accumulate(summary, outcome)
		return nil
	}

	outcome, err := rewriter.Apply(ctx, path, items)
	if err != nil {
		return err
	}
	o.accumulate(summary, outcome)
	return nil
}

func (o *Orchestrator) accumulate(summary *Summary, outcome *rewrite.Outcome) {
	summary.Outcomes = append(summary.Outcomes, outcome)
	if outcome.RolledBack {
		summary.Rollbacks++
		summary.Preserved += outcome.Preserved
		return
	}
	summary.Replacements += outcome.Replaced
	summary.Documented += outcome.Documented
	summary.Preserved += outcome.Preserved
}

// eligibleFiles drops paths outside the configured extensions or inside
// ignored directories.
func (o *Orchestrator) eligibleFiles(files []string) []string {
	var eligible []string
	for _, file := range files {
		if !o.hasTargetExtension(file) {
			continue
		}
		if o.ignored(file) {
			continue
		}
		eligible = append(eligible, file)
	}
	return eligible
}

func (o *Orchestrator) hasTargetExtension(file string) bool {
	ext := filepath.Ext(file)
	for _, allowed := range o.cfg.Files.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (o *Orchestrator) ignored(file string) bool {
	parts := strings.Split(filepath.ToSlash(file), "/")
	for _, part := range parts {
		for _, ignore := range o.cfg.Files.Ignore {
			if part == ignore {
				return true
			}
		}
	}
	return false
}

// shouldPoll limits live-count polling to every N processed files; the last
// file never polls because the final count is taken after the loop.
func (o *Orchestrator) shouldPoll(index, total int) bool {
	every := o.cfg.Campaign.PollEveryFiles
	if every <= 0 || index == total-1 {
		return false
	}
	return (index+1)%every == 0
}

func (o *Orchestrator) targetReached(before, live int) bool {
	target := o.cfg.Campaign.TargetReduction
	if target <= 0 || before == 0 {
		return false
	}
	return float64(before-live)/float64(before) >= target
}
