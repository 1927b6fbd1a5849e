package patterns

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// OverlayFile is the optional per-project pattern overlay.
const OverlayFile = "patterns.yaml"

// Overlay is a user-supplied adjustment to the builtin rule table, loaded
// from .anyfix/patterns.yaml.
type Overlay struct {
	// Disable lists builtin labels to drop from the table.
	Disable []string `yaml:"disable"`

	// Rules are extra rules appended after the builtin table.
	Rules []OverlayRule `yaml:"rules"`
}

// OverlayRule is one user-declared rule.
type OverlayRule struct {
	Label       string  `yaml:"label"`
	Pattern     string  `yaml:"pattern"`
	Confidence  float64 `yaml:"confidence"`
	Replacement string  `yaml:"replacement"`
}

// LoadOverlay reads the overlay from workspaceDir (the .anyfix directory).
// A missing file returns a nil overlay, which is valid.
func LoadOverlay(workspaceDir string) (*Overlay, error) {
	data, err := os.ReadFile(filepath.Join(workspaceDir, OverlayFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", OverlayFile, err)
	}
	return &o, nil
}

// ApplyOverlay returns the effective rule table: builtins minus disabled
// labels, plus compiled user rules.
func ApplyOverlay(base []Rule, o *Overlay) ([]Rule, error) {
	if o == nil {
		return base, nil
	}

	disabled := make(map[string]bool, len(o.Disable))
	for _, label := range o.Disable {
		disabled[label] = true
	}

	var rules []Rule
	for _, r := range base {
		if !disabled[r.Label] {
			rules = append(rules, r)
		}
	}

	for _, or := range o.Rules {
		if or.Label == "" {
			return nil, fmt.Errorf("overlay rule missing label")
		}
		if or.Confidence < 0 || or.Confidence > 1 {
			return nil, fmt.Errorf("overlay rule %q: confidence must be in [0,1]", or.Label)
		}
		re, err := regexp.Compile(or.Pattern)
		if err != nil {
			return nil, fmt.Errorf("overlay rule %q: %w", or.Label, err)
		}
		rules = append(rules, Rule{
			Label:          or.Label,
			Pattern:        re,
			BaseConfidence: or.Confidence,
			Replacement:    or.Replacement,
		})
	}

	return rules, nil
}
