package patterns

import "fmt"

// Profile is a classifier safety profile. It shifts the confidence threshold
// at which a matched shape is auto-replaced; below the threshold the
// occurrence is documented instead.
type Profile struct {
	Name string

	// MinReplaceConfidence is the lowest BaseConfidence still auto-replaced.
	MinReplaceConfidence float64
}

var profiles = map[string]Profile{
	"conservative": {Name: "conservative", MinReplaceConfidence: 0.85},
	"balanced":     {Name: "balanced", MinReplaceConfidence: 0.7},
	"aggressive":   {Name: "aggressive", MinReplaceConfidence: 0.5},
}

// ProfileByName resolves a safety profile by name.
func ProfileByName(name string) (Profile, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("unknown safety profile: %q", name)
}
