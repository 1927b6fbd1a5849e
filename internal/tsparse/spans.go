// Package tsparse provides tree-sitter backed source analysis for TypeScript
// and TSX. Its job is to keep the line-regex scanner honest: matches that fall
// inside string literals or comments are discarded instead of rewritten.
package tsparse

// Span is a half-open byte-column range [Start, End) within one line.
type Span struct {
	Start int
	End   int
}

// Exclusions maps 1-based line numbers to the spans on that line that belong
// to string literals, template strings or comments.
type Exclusions map[int][]Span

// Contains reports whether any part of [start, end) on the given line falls
// inside an excluded span.
func (e Exclusions) Contains(line, start, end int) bool {
	for _, s := range e[line] {
		if start < s.End && end > s.Start {
			return true
		}
	}
	return false
}

// fullLine marks an entire line as excluded (interior lines of multi-line
// strings and block comments).
var fullLine = Span{Start: 0, End: 1 << 30}
