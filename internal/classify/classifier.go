package classify

import (
	"strings"

	"anyfix/internal/patterns"
	"anyfix/internal/scan"
)

// Reasons attached to classifications. These strings end up verbatim in
// inserted suppression comments and reports, so they are fixed per branch.
const (
	ReasonExistingSuppression = "existing suppression or TODO honored"
	ReasonErrorContext        = "Error handling context requires flexibility"
	ReasonAPIContext          = "External API response shape is not locally verifiable"
	ReasonCollectionSafe      = "collection element type widens safely to unknown"
	ReasonTestOverride        = "test context tolerates stricter catch typing"
	ReasonBelowThreshold      = "confidence below profile threshold"
	ReasonUncertain           = "uncertain — preserved for safety"
)

// suppressionMarkers on the occurrence line (or a disable comment on the
// preceding line) mean the any is already accounted for.
var suppressionMarkers = []string{
	"eslint-disable",
	"@ts-ignore",
	"@ts-expect-error",
	"TODO",
	"FIXME",
}

// errorKeywords signal error-handling context on the source line.
var errorKeywords = []string{"catch", "error", "err)", "exception"}

// apiKeywords signal external API/response context on the source line.
var apiKeywords = []string{"api", "response", "fetch", "axios", "request"}

// Classifier applies the decision cascade under one safety profile.
type Classifier struct {
	profile patterns.Profile
	domains *Domains
}

// New creates a classifier for the given profile and risk domains.
func New(profile patterns.Profile, domains *Domains) *Classifier {
	if domains == nil {
		domains = DefaultDomains()
	}
	return &Classifier{profile: profile, domains: domains}
}

// Classify evaluates the cascade top to bottom; the first matching rule wins.
// It is deterministic: the same (occurrence, path, content) always yields the
// same Classification.
func (c *Classifier) Classify(occ scan.Occurrence, filePath string, fileContent []byte) Classification {
	line := occ.SourceLineText

	// 1. Existing suppression or TODO/FIXME on or above the line.
	if carriesSuppression(line) || previousLineDisables(fileContent, occ.Line) {
		return Classification{
			IsIntentional: true,
			Confidence:    0.95,
			Reason:        ReasonExistingSuppression,
			Action:        ActionPreserve,
		}
	}

	// 2. Execution-sensitive context.
	isTest := isTestPath(filePath)
	collection := patterns.CollectionLabels[occ.PatternLabel]

	if inErrorContext(line) || occ.PatternLabel == "catch_parameter" {
		switch {
		case isTest && occ.Replacement != "":
			// Test-context override: a stricter catch parameter cannot break
			// production callers.
			return c.replace(occ, occ.Confidence, ReasonTestOverride)
		case collection && occ.Replacement != "":
			return c.replace(occ, occ.Confidence, ReasonCollectionSafe)
		default:
			return Classification{
				IsIntentional: true,
				Confidence:    occ.Confidence,
				Reason:        ReasonErrorContext,
				Action:        ActionDocument,
			}
		}
	}

	if !isTest {
		if inAPIContext(line) {
			if collection && occ.Replacement != "" {
				return c.replace(occ, occ.Confidence, ReasonCollectionSafe)
			}
			return Classification{
				IsIntentional: true,
				Confidence:    occ.Confidence,
				Reason:        ReasonAPIContext,
				Action:        ActionDocument,
			}
		}
		if domain := c.domains.HighRiskDomain(filePath); domain != "" {
			if collection && occ.Replacement != "" {
				return c.replace(occ, occ.Confidence, ReasonCollectionSafe)
			}
			return Classification{
				IsIntentional: true,
				Confidence:    occ.Confidence,
				Reason:        "High-risk domain '" + domain + "' requires manual review",
				Action:        ActionDocument,
			}
		}
	}

	// 3. Per-label default under the profile threshold.
	if occ.Replacement != "" && occ.Confidence >= c.profile.MinReplaceConfidence {
		return c.replace(occ, occ.Confidence, "pattern '"+occ.PatternLabel+"' widens safely to unknown")
	}
	if occ.Replacement != "" {
		return Classification{
			IsIntentional: false,
			Confidence:    occ.Confidence,
			Reason:        ReasonBelowThreshold,
			Action:        ActionDocument,
		}
	}

	// 4. Default fallback.
	return Classification{
		IsIntentional: false,
		Confidence:    occ.Confidence,
		Reason:        ReasonUncertain,
		Action:        ActionDocument,
	}
}

// replace builds a replace classification with the full rewritten line.
func (c *Classifier) replace(occ scan.Occurrence, confidence float64, reason string) Classification {
	line := occ.SourceLineText
	return Classification{
		IsIntentional:   false,
		Confidence:      confidence,
		Reason:          reason,
		Action:          ActionReplace,
		ReplacementText: line[:occ.Start] + occ.Replacement + line[occ.End:],
	}
}

func carriesSuppression(line string) bool {
	for _, marker := range suppressionMarkers {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// previousLineDisables reports whether the line above the occurrence already
// carries a disable-next-line comment.
func previousLineDisables(content []byte, line int) bool {
	if line < 2 {
		return false
	}
	lines := strings.Split(string(content), "\n")
	if line-2 >= len(lines) {
		return false
	}
	return strings.Contains(lines[line-2], "eslint-disable-next-line")
}

func isTestPath(filePath string) bool {
	p := strings.ToLower(filePath)
	return strings.Contains(p, "__tests__") ||
		strings.Contains(p, "__mocks__") ||
		strings.Contains(p, ".test.") ||
		strings.Contains(p, ".spec.")
}

func inErrorContext(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range errorKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func inAPIContext(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range apiKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
