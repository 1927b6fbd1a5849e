// Package rewrite applies classified edits to a file under a backup, validate,
// commit-or-rollback discipline. The project's type-checked state after
// processing any file is never worse than before it.
package rewrite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"anyfix/internal/backup"
	"anyfix/internal/classify"
	"anyfix/internal/logging"
	"anyfix/internal/typecheck"
)

// Validator gates a rewrite. The production validator is the project-wide
// type checker; tests substitute their own.
type Validator interface {
	Check(ctx context.Context) (*typecheck.Result, error)
}

// Outcome summarizes what happened to one file.
type Outcome struct {
	File       string `json:"file"`
	Replaced   int    `json:"replaced"`
	Documented int    `json:"documented"`
	Preserved  int    `json:"preserved"`
	Changed    bool   `json:"changed"`
	RolledBack bool   `json:"rolledBack"`
}

// Engine rewrites one file at a time.
type Engine struct {
	backups   *backup.Store
	validator Validator
	rule      string
	logger    *logging.Logger
}

// NewEngine creates a rewrite engine. rule is the lint rule named in inserted
// suppression comments.
func NewEngine(backups *backup.Store, validator Validator, rule string, logger *logging.Logger) *Engine {
	return &Engine{
		backups:   backups,
		validator: validator,
		rule:      rule,
		logger:    logger.With(map[string]interface{}{"component": "rewrite"}),
	}
}

// Apply executes the classified edits for one file:
//
//  1. back up the original bytes,
//  2. apply replace edits (span substitutions, descending order so earlier
//     edits never shift the offsets of edits not yet applied),
//  3. insert suppression comments above documented lines, descending, skipping
//     lines already annotated (idempotence),
//  4. write atomically (temp file + rename),
//  5. validate the whole project; on failure restore the backup byte-for-byte.
//
// A rollback is an expected outcome, not an error.
func (e *Engine) Apply(ctx context.Context, path string, items []classify.Classified) (*Outcome, error) {
	outcome := &Outcome{File: path}

	original, err := os.ReadFile(path)
	if err != nil {
		return outcome, fmt.Errorf("failed to read %s: %w", path, err)
	}

	replacesByLine := make(map[int][]classify.Classified)
	documentByLine := make(map[int]string)
	for _, item := range items {
		switch item.Classification.Action {
		case classify.ActionReplace:
			line := item.Occurrence.Line
			replacesByLine[line] = append(replacesByLine[line], item)
		case classify.ActionDocument:
			line := item.Occurrence.Line
			if _, seen := documentByLine[line]; !seen {
				documentByLine[line] = item.Classification.Reason
			}
		case classify.ActionPreserve:
			outcome.Preserved++
		}
	}

	if len(replacesByLine) == 0 && len(documentByLine) == 0 {
		return outcome, nil
	}

	if err := e.backups.Put(path, original); err != nil {
		return outcome, err
	}

	lines := strings.Split(string(original), "\n")

	// Replace edits never change line numbering, so they go first.
	for lineNo, edits := range replacesByLine {
		idx := lineNo - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		lines[idx] = applySpans(lines[idx], edits)
		outcome.Replaced += len(edits)
	}

	// Suppression insertions shift everything below them, so they run in
	// descending line order against the already-replaced line slice.
	docLines := make([]int, 0, len(documentByLine))
	for lineNo := range documentByLine {
		docLines = append(docLines, lineNo)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(docLines)))

	for _, lineNo := range docLines {
		idx := lineNo - 1
		if idx < 0 || idx >= len(lines) {
			continue
		}
		if idx > 0 && strings.Contains(lines[idx-1], "eslint-disable-next-line") {
			continue
		}
		comment := indentOf(lines[idx]) + "// eslint-disable-next-line " + e.rule + " -- " + documentByLine[lineNo]
		lines = append(lines[:idx], append([]string{comment}, lines[idx:]...)...)
		outcome.Documented++
	}

	updated := strings.Join(lines, "\n")
	if updated == string(original) {
		// Already converted: second run over a clean file is a no-op.
		return outcome, nil
	}

	if err := writeAtomic(path, []byte(updated)); err != nil {
		return outcome, fmt.Errorf("failed to write %s: %w", path, err)
	}
	outcome.Changed = true

	result, checkErr := e.validator.Check(ctx)
	if checkErr != nil || !result.Passed {
		// Validation failed or could not run: either way the edit is unsafe
		// to keep.
		if restoreErr := e.backups.Restore(path); restoreErr != nil {
			return outcome, fmt.Errorf("rollback of %s failed: %w", path, restoreErr)
		}
		outcome.RolledBack = true
		outcome.Changed = false

		fields := map[string]interface{}{"file": path}
		if checkErr != nil {
			fields["error"] = checkErr.Error()
		} else {
			fields["typeErrors"] = result.ErrorCount
		}
		e.logger.Warn("validation failed, rolled back", fields)
		return outcome, nil
	}

	e.logger.Info("file rewritten", map[string]interface{}{
		"file":       path,
		"replaced":   outcome.Replaced,
		"documented": outcome.Documented,
	})
	return outcome, nil
}

// applySpans substitutes all replace spans on one line, right to left.
func applySpans(line string, edits []classify.Classified) string {
	sort.Slice(edits, func(i, j int) bool {
		return edits[i].Occurrence.Start > edits[j].Occurrence.Start
	})

	for _, edit := range edits {
		occ := edit.Occurrence
		if occ.Start < 0 || occ.End > len(line) || occ.Start >= occ.End {
			continue
		}
		if line[occ.Start:occ.End] != occ.MatchedText {
			// Line drifted since scanning; skip rather than corrupt.
			continue
		}
		line = line[:occ.Start] + occ.Replacement + line[occ.End:]
	}
	return line
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// writeAtomic writes content to a temp file in the target's directory and
// renames it into place, so a crash mid-run leaves either the old or the new
// content, never a torn file.
func writeAtomic(path string, content []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".anyfix-write-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
