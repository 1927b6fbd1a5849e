//go:build cgo

package tsparse

import (
	"context"
	"strings"
	"testing"
)

func TestExcludeStringsAndComments(t *testing.T) {
	source := `const label = "items: any[] inside a string";
// const commented: any[] = [];
const real: any[] = [];
const tpl = ` + "`template with any[] text`" + `;
`
	excl, err := Exclude(context.Background(), "sample.ts", []byte(source))
	if err != nil {
		t.Fatalf("Exclude: %v", err)
	}

	lines := strings.Split(source, "\n")

	// Line 1: the any[] inside the string literal is excluded.
	col := strings.Index(lines[0], "any[]")
	if !excl.Contains(1, col, col+5) {
		t.Error("string literal content not excluded on line 1")
	}

	// Line 2: the whole comment is excluded.
	col = strings.Index(lines[1], "any[]")
	if !excl.Contains(2, col, col+5) {
		t.Error("comment content not excluded on line 2")
	}

	// Line 3: real code must not be excluded.
	col = strings.Index(lines[2], "any[]")
	if excl.Contains(3, col, col+5) {
		t.Error("real code wrongly excluded on line 3")
	}

	// Line 4: template string content is excluded.
	col = strings.Index(lines[3], "any[]")
	if !excl.Contains(4, col, col+5) {
		t.Error("template string content not excluded on line 4")
	}
}

func TestExcludeMultilineComment(t *testing.T) {
	source := `/*
 * big header comment mentioning any[] types
 */
const x: any[] = [];
`
	excl, err := Exclude(context.Background(), "sample.ts", []byte(source))
	if err != nil {
		t.Fatalf("Exclude: %v", err)
	}

	if !excl.Contains(2, 0, 50) {
		t.Error("interior comment line not excluded")
	}
	if excl.Contains(4, 9, 14) {
		t.Error("code after comment wrongly excluded")
	}
}

func TestExcludeTSX(t *testing.T) {
	source := `export const Badge = (props: { value: any }) => {
  return <span title="any goes here">{props.value}</span>;
};
`
	excl, err := Exclude(context.Background(), "badge.tsx", []byte(source))
	if err != nil {
		t.Fatalf("Exclude tsx: %v", err)
	}

	lines := strings.Split(source, "\n")
	col := strings.Index(lines[1], "any goes here")
	if !excl.Contains(2, col, col+3) {
		t.Error("JSX attribute string not excluded")
	}
}
