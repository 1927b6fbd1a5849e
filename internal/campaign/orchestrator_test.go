package campaign

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anyfix/internal/classify"
	"anyfix/internal/config"
	"anyfix/internal/lint"
	"anyfix/internal/logging"
	"anyfix/internal/patterns"
	"anyfix/internal/rewrite"
	"anyfix/internal/scan"
	"anyfix/internal/storage"
)

// fakeLinter returns scripted warnings, then scripted live counts per poll.
type fakeLinter struct {
	warnings []lint.Warning
	counts   []int
	polls    int
}

func (f *fakeLinter) Warnings(ctx context.Context) []lint.Warning {
	return f.warnings
}

func (f *fakeLinter) Count(ctx context.Context) int {
	if f.polls < len(f.counts) {
		c := f.counts[f.polls]
		f.polls++
		return c
	}
	if len(f.counts) > 0 {
		return f.counts[len(f.counts)-1]
	}
	return 0
}

// fakeRewriter records which files were applied without touching disk.
type fakeRewriter struct {
	applied []string
	outcome rewrite.Outcome
}

func (f *fakeRewriter) Apply(ctx context.Context, path string, items []classify.Classified) (*rewrite.Outcome, error) {
	f.applied = append(f.applied, path)
	out := f.outcome
	out.File = path
	return &out, nil
}

// memStore collects records in memory.
type memStore struct {
	counts []int
	runs   []storage.RunRecord
}

func (m *memStore) RecordWarningCount(rule string, count int, source string) error {
	m.counts = append(m.counts, count)
	return nil
}

func (m *memStore) RecordRun(r storage.RunRecord) error {
	m.runs = append(m.runs, r)
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newOrchestrator(t *testing.T, repoRoot string, cfg *config.Config, linter Linter, rw Rewriter, store HistoryStore) *Orchestrator {
	t.Helper()
	profile, _ := patterns.ProfileByName("balanced")
	return New(repoRoot, cfg, Deps{
		Linter:      linter,
		Scanner:     scan.NewScanner(patterns.BuiltinRules(), testLogger()),
		Classifier:  classify.New(profile, classify.DefaultDomains()),
		NewRewriter: func(runID string) (Rewriter, error) { return rw, nil },
		Store:       store,
		Logger:      testLogger(),
	})
}

func TestRunProcessesEachFileOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "const xs: any[] = [];\n")
	writeFile(t, dir, "b.ts", "const ys: any[] = [];\n")

	linter := &fakeLinter{warnings: []lint.Warning{
		{FilePath: "a.ts", Line: 1, Column: 11},
		{FilePath: "a.ts", Line: 1, Column: 20},
		{FilePath: "b.ts", Line: 1, Column: 11},
	}}
	rw := &fakeRewriter{outcome: rewrite.Outcome{Replaced: 1, Changed: true}}
	store := &memStore{}

	orch := newOrchestrator(t, dir, config.DefaultConfig(), linter, rw, store)
	summary, err := orch.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", summary.FilesProcessed)
	}
	if len(rw.applied) != 2 {
		t.Errorf("rewriter applied to %v", rw.applied)
	}
	if summary.Replacements != 2 {
		t.Errorf("Replacements = %d, want 2", summary.Replacements)
	}
	if summary.WarningsBefore != 3 {
		t.Errorf("WarningsBefore = %d, want 3", summary.WarningsBefore)
	}
	if summary.RunID == "" {
		t.Error("missing run ID")
	}
	if len(store.runs) != 1 {
		t.Fatalf("recorded %d runs, want 1", len(store.runs))
	}
	if store.runs[0].RunID != summary.RunID {
		t.Errorf("recorded run ID %q != %q", store.runs[0].RunID, summary.RunID)
	}
	// campaign-start and campaign-end counts.
	if len(store.counts) != 2 {
		t.Errorf("recorded %d warning counts, want 2", len(store.counts))
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	content := "const xs: any[] = [];\n"
	path := writeFile(t, dir, "a.ts", content)

	linter := &fakeLinter{warnings: []lint.Warning{{FilePath: "a.ts", Line: 1, Column: 11}}}
	store := &memStore{}

	orch := newOrchestrator(t, dir, config.DefaultConfig(), linter, nil, store)
	summary, err := orch.Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !summary.DryRun {
		t.Error("summary not marked dry-run")
	}
	if summary.Replacements != 1 {
		t.Errorf("Replacements = %d, want 1 planned", summary.Replacements)
	}
	got, _ := os.ReadFile(path)
	if string(got) != content {
		t.Errorf("dry run modified the file: %q", got)
	}
	if len(store.counts) != 0 {
		t.Errorf("dry run recorded %d warning counts", len(store.counts))
	}
	if len(store.runs) != 1 {
		t.Errorf("dry run must still record the run, got %d", len(store.runs))
	}
}

func TestRunRespectsMaxFiles(t *testing.T) {
	dir := t.TempDir()
	var warnings []lint.Warning
	for _, name := range []string{"a.ts", "b.ts", "c.ts"} {
		writeFile(t, dir, name, "const xs: any[] = [];\n")
		warnings = append(warnings, lint.Warning{FilePath: name, Line: 1, Column: 11})
	}

	rw := &fakeRewriter{}
	orch := newOrchestrator(t, dir, config.DefaultConfig(), &fakeLinter{warnings: warnings}, rw, nil)
	summary, err := orch.Run(context.Background(), Options{MaxFiles: 2})
	if err != nil {
		t.Fatal(err)
	}
	if summary.FilesProcessed != 2 || len(rw.applied) != 2 {
		t.Errorf("processed %d files (%v), want 2", summary.FilesProcessed, rw.applied)
	}
}

func TestRunStopsAtTargetReduction(t *testing.T) {
	dir := t.TempDir()
	var warnings []lint.Warning
	for i := 0; i < 4; i++ {
		name := string(rune('a'+i)) + ".ts"
		writeFile(t, dir, name, "const xs: any[] = [];\n")
		warnings = append(warnings, lint.Warning{FilePath: name, Line: 1, Column: 11})
	}

	cfg := config.DefaultConfig()
	cfg.Campaign.PollEveryFiles = 2
	cfg.Campaign.TargetReduction = 0.5

	// First poll reports half the warnings gone.
	linter := &fakeLinter{warnings: warnings, counts: []int{2}}
	rw := &fakeRewriter{}

	orch := newOrchestrator(t, dir, cfg, linter, rw, nil)
	summary, err := orch.Run(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !summary.StoppedEarly {
		t.Error("campaign did not stop early")
	}
	if summary.FilesProcessed != 2 {
		t.Errorf("FilesProcessed = %d, want 2", summary.FilesProcessed)
	}
}

func TestRunSkipsIneligibleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "const xs: any[] = [];\n")
	writeFile(t, dir, filepath.Join("node_modules", "dep.ts"), "const xs: any[] = [];\n")
	writeFile(t, dir, "styles.css", "a { color: red }\n")

	linter := &fakeLinter{warnings: []lint.Warning{
		{FilePath: "a.ts", Line: 1, Column: 11},
		{FilePath: "node_modules/dep.ts", Line: 1, Column: 11},
		{FilePath: "styles.css", Line: 1, Column: 1},
	}}
	rw := &fakeRewriter{}

	orch := newOrchestrator(t, dir, config.DefaultConfig(), linter, rw, nil)
	summary, err := orch.Run(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.FilesProcessed != 1 {
		t.Errorf("FilesProcessed = %d, want 1", summary.FilesProcessed)
	}
	if len(rw.applied) != 1 || !strings.HasSuffix(rw.applied[0], "a.ts") {
		t.Errorf("applied = %v", rw.applied)
	}
}

func TestRunCountsMissingFileAsFailure(t *testing.T) {
	dir := t.TempDir()
	linter := &fakeLinter{warnings: []lint.Warning{{FilePath: "gone.ts", Line: 1, Column: 1}}}

	orch := newOrchestrator(t, dir, config.DefaultConfig(), linter, &fakeRewriter{}, nil)
	summary, err := orch.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("single-file failure must not abort the run: %v", err)
	}
	if summary.Failures != 1 {
		t.Errorf("Failures = %d, want 1", summary.Failures)
	}
}

func TestRunAccumulatesRollbacks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "const xs: any[] = [];\n")

	linter := &fakeLinter{warnings: []lint.Warning{{FilePath: "a.ts", Line: 1, Column: 11}}}
	rw := &fakeRewriter{outcome: rewrite.Outcome{Replaced: 1, RolledBack: true}}

	orch := newOrchestrator(t, dir, config.DefaultConfig(), linter, rw, nil)
	summary, err := orch.Run(context.Background(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if summary.Rollbacks != 1 {
		t.Errorf("Rollbacks = %d, want 1", summary.Rollbacks)
	}
	if summary.Replacements != 0 {
		t.Errorf("rolled-back edits counted as replacements: %d", summary.Replacements)
	}
}
