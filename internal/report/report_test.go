package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"anyfix/internal/campaign"
	"anyfix/internal/rewrite"
)

func sampleSummary() *campaign.Summary {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return &campaign.Summary{
		RunID:          "run-123",
		StartedAt:      start,
		FinishedAt:     start.Add(90 * time.Second),
		Profile:        "balanced",
		FilesProcessed: 10,
		Replacements:   40,
		Documented:     12,
		Preserved:      3,
		Rollbacks:      1,
		WarningsBefore: 100,
		WarningsAfter:  45,
		Outcomes: []*rewrite.Outcome{
			{File: "src/a.ts", Replaced: 5, Documented: 1, Changed: true},
			{File: "src/b.ts", RolledBack: true},
			{File: "src/clean.ts"},
		},
	}
}

func TestReduction(t *testing.T) {
	r := &Report{Summary: sampleSummary()}
	if got := r.Reduction(); got != 0.55 {
		t.Errorf("Reduction = %v, want 0.55", got)
	}

	empty := &Report{Summary: &campaign.Summary{}}
	if got := empty.Reduction(); got != 0 {
		t.Errorf("Reduction on zero baseline = %v", got)
	}
}

func TestMarkdownSections(t *testing.T) {
	r := &Report{Summary: sampleSummary()}
	md := r.Markdown()

	for _, want := range []string{
		"# Remediation Campaign Report",
		"`run-123`",
		"| 100 | 45 | 55.0% |",
		"## Changed files",
		"src/a.ts — 5 replaced, 1 documented",
		"src/b.ts — rolled back",
		"## Recommendations",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	// Untouched files stay out of the changed list.
	if strings.Contains(md, "src/clean.ts") {
		t.Error("unchanged file listed in report")
	}
}

func TestMarkdownDryRunTitle(t *testing.T) {
	s := sampleSummary()
	s.DryRun = true
	md := (&Report{Summary: s}).Markdown()
	if !strings.Contains(md, "(dry run)") {
		t.Error("dry-run report not labeled")
	}
}

func TestRecommendations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*campaign.Summary)
		keyword string
	}{
		{
			name:    "heavy rollbacks suggest conservative profile",
			mutate:  func(s *campaign.Summary) { s.Rollbacks = 4 },
			keyword: "conservative profile",
		},
		{
			name:    "failures point at the log",
			mutate:  func(s *campaign.Summary) { s.Failures = 2 },
			keyword: "could not be processed",
		},
		{
			name: "near-complete reduction suggests promoting the rule",
			mutate: func(s *campaign.Summary) {
				s.WarningsAfter = 5
				s.Rollbacks = 0
			},
			keyword: "as an error",
		},
		{
			name: "document-heavy run asks for review",
			mutate: func(s *campaign.Summary) {
				s.Documented = 50
				s.Replacements = 10
			},
			keyword: "suppression reasons",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSummary()
			tt.mutate(s)
			recs := (&Report{Summary: s}).Recommendations()
			found := false
			for _, rec := range recs {
				if strings.Contains(rec, tt.keyword) {
					found = true
				}
			}
			if !found {
				t.Errorf("no recommendation containing %q in %v", tt.keyword, recs)
			}
		})
	}
}

func TestWriteCreatesBothArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := &Report{Summary: sampleSummary()}

	mdPath, err := r.Write(dir)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(mdPath) != "run-123.md" {
		t.Errorf("markdown path = %s", mdPath)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".anyfix", "reports", "run-123.json"))
	if err != nil {
		t.Fatalf("JSON metrics missing: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("metrics not valid JSON: %v", err)
	}
	if decoded.Summary.WarningsBefore != 100 {
		t.Errorf("metrics summary = %+v", decoded.Summary)
	}
}
