package patterns

import (
	"testing"
)

func TestMatchLineShapes(t *testing.T) {
	rules := BuiltinRules()

	tests := []struct {
		name        string
		line        string
		wantLabel   string
		wantReplace string
	}{
		{"array", "const items: any[] = [];", "array", "unknown[]"},
		{"array generic", "let xs: Array<any> = [];", "array_generic", "Array<unknown>"},
		{"record", "const cache: Record<string, any> = {};", "record", "Record<string, unknown>"},
		{"map", "const m: Map<string, any> = new Map();", "map", "Map<string, unknown>"},
		{"set", "const s: Set<any> = new Set();", "set", "Set<unknown>"},
		{"promise", "function load(): Promise<any> {", "promise", "Promise<unknown>"},
		{"catch", "} catch (e: any) {", "catch_parameter", "catch (e: unknown)"},
		{"variable", "let value: any;", "variable_annotation", "let value: unknown"},
		{"assertion", "const n = input as any;", "type_assertion", "as unknown"},
		{"constraint", "function f<T extends any>(x: T) {", "generic_constraint", "extends unknown"},
		{"parameter", "function handle(payload: any) {", "function_parameter", "(payload: unknown"},
		{"property", "  metadata: any;", "property_annotation", "  metadata: unknown;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := MatchLine(tt.line, rules)
			if len(matches) == 0 {
				t.Fatalf("no match for %q", tt.line)
			}
			m := matches[0]
			if m.Rule.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", m.Rule.Label, tt.wantLabel)
			}
			if m.Replacement != tt.wantReplace {
				t.Errorf("replacement = %q, want %q", m.Replacement, tt.wantReplace)
			}
		})
	}
}

func TestMatchLineNoOverlap(t *testing.T) {
	rules := BuiltinRules()

	// "const items: any[]" is claimed by the array rule; the broader
	// variable_annotation rule must not re-claim the same span.
	matches := MatchLine("const items: any[] = [];", rules)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %+v", len(matches), matches)
	}
	if matches[0].Rule.Label != "array" {
		t.Errorf("label = %q, want array", matches[0].Rule.Label)
	}

	for i := range matches {
		for j := i + 1; j < len(matches); j++ {
			a, b := matches[i], matches[j]
			if a.Start < b.End && b.Start < a.End {
				t.Errorf("overlapping spans: %+v and %+v", a, b)
			}
		}
	}
}

func TestMatchLineMultipleSpans(t *testing.T) {
	rules := BuiltinRules()

	matches := MatchLine("function f(a: any, b: any): any {", rules)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %+v", len(matches), matches)
	}

	labels := map[string]int{}
	for _, m := range matches {
		labels[m.Rule.Label]++
	}
	if labels["function_parameter"] != 2 {
		t.Errorf("function_parameter matches = %d, want 2", labels["function_parameter"])
	}
	if labels["return_type"] != 1 {
		t.Errorf("return_type matches = %d, want 1", labels["return_type"])
	}
}

func TestMatchLineNoMatch(t *testing.T) {
	rules := BuiltinRules()

	for _, line := range []string{
		"const items: unknown[] = [];",
		"// anything goes here",
		"const company = 'anywhere';",
	} {
		if matches := MatchLine(line, rules); len(matches) != 0 {
			t.Errorf("unexpected matches for %q: %+v", line, matches)
		}
	}
}

func TestConfidenceMonotonicWithSafety(t *testing.T) {
	rules := BuiltinRules()
	byLabel := map[string]float64{}
	for _, r := range rules {
		byLabel[r.Label] = r.BaseConfidence
	}

	// Collection shapes must outrank parameter/generic/assertion shapes.
	for collection := range CollectionLabels {
		for _, risky := range []string{"function_parameter", "generic_constraint", "type_assertion"} {
			if byLabel[collection] <= byLabel[risky] {
				t.Errorf("%s (%.2f) should be more confident than %s (%.2f)",
					collection, byLabel[collection], risky, byLabel[risky])
			}
		}
	}
}
