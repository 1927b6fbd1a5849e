// Package classify decides, per occurrence, whether an explicit any is
// replaced, documented with a suppression, or preserved. Classification is a
// pure function of the occurrence, its file path and content; all mutation
// happens in the rewrite engine.
package classify

import "anyfix/internal/scan"

// Action is the decision for one occurrence.
type Action string

const (
	// ActionReplace substitutes the matched span with a broader type.
	ActionReplace Action = "replace"
	// ActionDocument inserts a suppressing annotation with a justification.
	ActionDocument Action = "document"
	// ActionPreserve leaves the occurrence untouched.
	ActionPreserve Action = "preserve"
)

// Classification is the classifier's verdict for one occurrence.
type Classification struct {
	IsIntentional   bool    `json:"isIntentional"`
	Confidence      float64 `json:"confidence"`
	Reason          string  `json:"reason"`
	Action          Action  `json:"action"`
	ReplacementText string  `json:"replacementText,omitempty"` // full rewritten line
}

// Classified pairs an occurrence with its verdict for the rewrite engine.
type Classified struct {
	Occurrence     scan.Occurrence `json:"occurrence"`
	Classification Classification  `json:"classification"`
}
