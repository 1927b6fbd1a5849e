// Package patterns holds the canonical table of explicit-any matching rules.
// One table serves every campaign; safety profiles shift the action threshold
// instead of forking the rule set.
package patterns

import "regexp"

// Rule is one text-matching rule over a source line.
type Rule struct {
	// Label is the semantic name of the matched shape (e.g. "array", "record").
	Label string

	// Pattern matches the textual span to act on. The first rule to claim a
	// span wins; later rules never re-claim overlapping spans.
	Pattern *regexp.Regexp

	// BaseConfidence is an informal prior in [0,1] biasing the classifier's
	// default action. Monotonic with safety: collection shapes are high,
	// parameter/generic/assertion shapes are low because they can silently
	// break callers.
	BaseConfidence float64

	// Replacement is the expansion template for the matched span, empty when
	// no literal substitution is safe.
	Replacement string
}

// CollectionLabels are the shapes considered safe to replace even in risky
// contexts: swapping the element type of a collection for the top type cannot
// widen an API contract the way a parameter change can.
var CollectionLabels = map[string]bool{
	"array":         true,
	"array_generic": true,
	"set":           true,
	"promise":       true,
}

// BuiltinRules returns the ordered canonical rule table. Order is most
// specific first so that broader rules never claim a span that a narrower
// shape describes better.
func BuiltinRules() []Rule {
	return []Rule{
		{
			Label:          "array",
			Pattern:        regexp.MustCompile(`\bany\[\]`),
			BaseConfidence: 0.95,
			Replacement:    "unknown[]",
		},
		{
			Label:          "array_generic",
			Pattern:        regexp.MustCompile(`\bArray<any>`),
			BaseConfidence: 0.95,
			Replacement:    "Array<unknown>",
		},
		{
			Label:          "record",
			Pattern:        regexp.MustCompile(`\bRecord<([^,<>]+),\s*any>`),
			BaseConfidence: 0.9,
			Replacement:    "Record<$1, unknown>",
		},
		{
			Label:          "map",
			Pattern:        regexp.MustCompile(`\bMap<([^,<>]+),\s*any>`),
			BaseConfidence: 0.9,
			Replacement:    "Map<$1, unknown>",
		},
		{
			Label:          "set",
			Pattern:        regexp.MustCompile(`\bSet<any>`),
			BaseConfidence: 0.9,
			Replacement:    "Set<unknown>",
		},
		{
			Label:          "promise",
			Pattern:        regexp.MustCompile(`\bPromise<any>`),
			BaseConfidence: 0.85,
			Replacement:    "Promise<unknown>",
		},
		{
			Label:          "catch_parameter",
			Pattern:        regexp.MustCompile(`catch\s*\(\s*(\w+)\s*:\s*any\s*\)`),
			BaseConfidence: 0.8,
			Replacement:    "catch ($1: unknown)",
		},
		{
			Label:          "variable_annotation",
			Pattern:        regexp.MustCompile(`\b(const|let|var)\s+(\w+)\s*:\s*any\b`),
			BaseConfidence: 0.75,
			Replacement:    "$1 $2: unknown",
		},
		{
			Label:          "return_type",
			Pattern:        regexp.MustCompile(`\)\s*:\s*any\b`),
			BaseConfidence: 0.55,
			Replacement:    "): unknown",
		},
		{
			Label:          "generic_constraint",
			Pattern:        regexp.MustCompile(`\bextends\s+any\b`),
			BaseConfidence: 0.5,
			Replacement:    "extends unknown",
		},
		{
			Label:          "type_assertion",
			Pattern:        regexp.MustCompile(`\bas\s+any\b`),
			BaseConfidence: 0.5,
			Replacement:    "as unknown",
		},
		{
			Label:          "function_parameter",
			Pattern:        regexp.MustCompile(`([(,]\s*)(\w+)\s*:\s*any\b`),
			BaseConfidence: 0.45,
			Replacement:    "$1$2: unknown",
		},
		{
			Label:          "property_annotation",
			Pattern:        regexp.MustCompile(`^(\s*)(\w+)(\??)\s*:\s*any\s*([;,]?)\s*$`),
			BaseConfidence: 0.6,
			Replacement:    "$1$2$3: unknown$4",
		},
	}
}
