//go:build !cgo

package tsparse

import "context"

// Available reports whether tree-sitter parsing is compiled in.
func Available() bool {
	return false
}

// Exclude returns no exclusions when tree-sitter is unavailable. The scanner
// then degrades to pure line-regex matching, which is the historical behavior
// of the campaign scripts this tool replaces.
func Exclude(ctx context.Context, path string, source []byte) (Exclusions, error) {
	return nil, nil
}
