// Package report renders campaign results as markdown for humans and JSON for
// tooling, and writes both under the workspace reports directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"anyfix/internal/campaign"
	"anyfix/internal/config"
	"anyfix/internal/storage"
)

// Report pairs a run summary with the history context it is rendered against.
type Report struct {
	Summary *campaign.Summary      `json:"summary"`
	History []storage.WarningCount `json:"history,omitempty"`
}

// Reduction returns the fraction of baseline warnings eliminated, in [0,1].
func (r *Report) Reduction() float64 {
	before := r.Summary.WarningsBefore
	if before == 0 {
		return 0
	}
	return float64(before-r.Summary.WarningsAfter) / float64(before)
}

// Markdown renders the full human-readable report.
func (r *Report) Markdown() string {
	s := r.Summary
	var b strings.Builder

	title := "Remediation Campaign Report"
	if s.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Run: `%s`\n", s.RunID)
	fmt.Fprintf(&b, "- Profile: %s\n", s.Profile)
	fmt.Fprintf(&b, "- Started: %s\n", s.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Second))

	fmt.Fprintf(&b, "## Warnings\n\n")
	fmt.Fprintf(&b, "| Before | After | Reduction |\n")
	fmt.Fprintf(&b, "|-------:|------:|----------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %.1f%% |\n\n", s.WarningsBefore, s.WarningsAfter, r.Reduction()*100)

	fmt.Fprintf(&b, "## Actions\n\n")
	fmt.Fprintf(&b, "| Files | Replaced | Documented | Preserved | Rollbacks | Failures |\n")
	fmt.Fprintf(&b, "|------:|---------:|-----------:|----------:|----------:|---------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		s.FilesProcessed, s.Replacements, s.Documented, s.Preserved, s.Rollbacks, s.Failures)

	if changed := r.changedFiles(); len(changed) > 0 {
		fmt.Fprintf(&b, "## Changed files\n\n")
		for _, line := range changed {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}

	if recs := r.Recommendations(); len(recs) > 0 {
		fmt.Fprintf(&b, "## Recommendations\n\n")
		for _, rec := range recs {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}

	if len(r.History) > 0 {
		fmt.Fprintf(&b, "## History\n\n")
		fmt.Fprintf(&b, "| Recorded | Count | Source |\n")
		fmt.Fprintf(&b, "|----------|------:|--------|\n")
		for _, h := range r.History {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", h.RecordedAt.Format(time.RFC3339), h.Count, h.Source)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// changedFiles lists per-file outcomes for files that were actually touched or
// rolled back, sorted by path.
func (r *Report) changedFiles() []string {
	var lines []string
	for _, o := range r.Summary.Outcomes {
		if !o.Changed && !o.RolledBack {
			continue
		}
		status := fmt.Sprintf("%s — %d replaced, %d documented", o.File, o.Replaced, o.Documented)
		if o.RolledBack {
			status = o.File + " — rolled back"
		}
		lines = append(lines, status)
	}
	sort.Strings(lines)
	return lines
}

// Recommendations derives follow-up advice from the run's numbers.
func (r *Report) Recommendations() []string {
	s := r.Summary
	var recs []string

	if s.Rollbacks > 0 && s.FilesProcessed > 0 {
		rate := float64(s.Rollbacks) / float64(s.FilesProcessed)
		if rate >= 0.2 {
			recs = append(recs, fmt.Sprintf(
				"%d of %d files rolled back; switch to the conservative profile or fix pre-existing type errors first",
				s.Rollbacks, s.FilesProcessed))
		} else {
			recs = append(recs, fmt.Sprintf("%d file(s) rolled back; inspect them manually before re-running", s.Rollbacks))
		}
	}

	if s.Failures > 0 {
		recs = append(recs, fmt.Sprintf("%d file(s) could not be processed; check the log for details", s.Failures))
	}

	if !s.DryRun && s.Replacements == 0 && s.Documented == 0 && s.WarningsBefore > 0 {
		recs = append(recs, "nothing was changed; the remaining occurrences need manual migration")
	}

	if reduction := r.Reduction(); !s.DryRun && s.WarningsBefore > 0 {
		switch {
		case reduction >= 0.9:
			recs = append(recs, "over 90% of warnings eliminated; consider enabling the rule as an error")
		case reduction < 0.1 && s.FilesProcessed > 0:
			recs = append(recs, "less than 10% reduction; the aggressive profile may be appropriate after reviewing documented occurrences")
		}
	}

	if s.Documented > s.Replacements && s.Documented > 0 {
		recs = append(recs, "most occurrences were documented rather than replaced; review the inserted suppression reasons")
	}

	return recs
}

// Write persists the markdown report and a JSON metrics file under
// .anyfix/reports/, named by run ID. It returns the markdown path.
func (r *Report) Write(repoRoot string) (string, error) {
	dir := filepath.Join(repoRoot, config.WorkspaceDir, "reports")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	mdPath := filepath.Join(dir, r.Summary.RunID+".md")
	if err := os.WriteFile(mdPath, []byte(r.Markdown()), 0644); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	jsonPath := filepath.Join(dir, r.Summary.RunID+".json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", err
	}
	return mdPath, nil
}
