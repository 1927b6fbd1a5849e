// Package scan derives explicit-any occurrences from file content by running
// the pattern table over each line and discarding matches that tree-sitter
// places inside string literals or comments.
package scan

import (
	"context"
	"strings"
	"sync"

	"anyfix/internal/logging"
	"anyfix/internal/patterns"
	"anyfix/internal/tsparse"
)

// Occurrence is one matched explicit-any span in a file.
type Occurrence struct {
	Line           int     `json:"line"`   // 1-based
	Column         int     `json:"column"` // 1-based
	MatchedText    string  `json:"matchedText"`
	PatternLabel   string  `json:"patternLabel"`
	Confidence     float64 `json:"confidence"`
	SourceLineText string  `json:"sourceLineText"`

	// Start and End are byte offsets of the span within the line.
	Start int `json:"-"`
	End   int `json:"-"`

	// Replacement is the span substitution the pattern suggests, empty when
	// the rule has no safe literal rewrite.
	Replacement string `json:"-"`
}

// Scanner scans file content against a fixed rule table.
type Scanner struct {
	rules  []patterns.Rule
	logger *logging.Logger

	warnOnce sync.Once
}

// NewScanner creates a scanner over the given rule table.
func NewScanner(rules []patterns.Rule, logger *logging.Logger) *Scanner {
	return &Scanner{
		rules:  rules,
		logger: logger.With(map[string]interface{}{"component": "scan"}),
	}
}

// ScanContent returns all occurrences in the given content. A file with zero
// matches yields an empty list and must cause no write downstream.
func (s *Scanner) ScanContent(ctx context.Context, path string, content []byte) []Occurrence {
	exclusions := s.exclusions(ctx, path, content)

	var occurrences []Occurrence
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lineNo := i + 1
		for _, m := range patterns.MatchLine(line, s.rules) {
			if exclusions.Contains(lineNo, m.Start, m.End) {
				continue
			}
			occurrences = append(occurrences, Occurrence{
				Line:           lineNo,
				Column:         m.Start + 1,
				MatchedText:    m.Text,
				PatternLabel:   m.Rule.Label,
				Confidence:     m.Rule.BaseConfidence,
				SourceLineText: line,
				Start:          m.Start,
				End:            m.End,
				Replacement:    m.Replacement,
			})
		}
	}
	return occurrences
}

// exclusions computes literal/comment spans via tree-sitter. Without cgo, or
// when parsing fails, scanning degrades to unfiltered line-regex matching.
func (s *Scanner) exclusions(ctx context.Context, path string, content []byte) tsparse.Exclusions {
	if !tsparse.Available() {
		s.warnOnce.Do(func() {
			s.logger.Warn("tree-sitter unavailable, matches inside strings and comments cannot be filtered", nil)
		})
		return nil
	}

	exclusions, err := tsparse.Exclude(ctx, path, content)
	if err != nil {
		s.logger.Warn("source parse failed, scanning without literal filtering", map[string]interface{}{
			"file":  path,
			"error": err.Error(),
		})
		return nil
	}
	return exclusions
}
