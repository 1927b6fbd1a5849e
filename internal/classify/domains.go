package classify

import (
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DomainsFile is the optional per-project risk-domain declaration file.
const DomainsFile = "domains.toml"

// Domains declares which path segments mark a file as execution-sensitive.
// A file under a high-risk domain defaults to document instead of replace
// unless the matched shape is on the collection allowlist.
type Domains struct {
	// HighRisk path keywords, matched against path segments.
	HighRisk []string `toml:"high_risk"`

	// LowRisk path keywords that exempt a file from domain-based caution.
	LowRisk []string `toml:"low_risk"`
}

// DefaultDomains returns the built-in risk-domain keywords.
func DefaultDomains() *Domains {
	return &Domains{
		HighRisk: []string{
			"services", "api", "auth", "payments", "billing",
			"network", "database", "middleware", "migrations",
		},
	}
}

// LoadDomains merges declarations from workspaceDir (the .anyfix directory)
// over the defaults. A missing file returns the defaults.
func LoadDomains(workspaceDir string) (*Domains, error) {
	domains := DefaultDomains()

	data, err := os.ReadFile(filepath.Join(workspaceDir, DomainsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return domains, nil
		}
		return nil, err
	}

	var declared Domains
	if err := toml.Unmarshal(data, &declared); err != nil {
		return nil, err
	}

	domains.HighRisk = append(domains.HighRisk, declared.HighRisk...)
	domains.LowRisk = append(domains.LowRisk, declared.LowRisk...)
	return domains, nil
}

// HighRiskDomain returns the first high-risk keyword found among the path's
// segments, or "" when none applies. Low-risk declarations win over high-risk.
func (d *Domains) HighRiskDomain(filePath string) string {
	segments := splitPath(filePath)

	for _, low := range d.LowRisk {
		for _, seg := range segments {
			if strings.EqualFold(seg, low) {
				return ""
			}
		}
	}

	for _, high := range d.HighRisk {
		for _, seg := range segments {
			if strings.EqualFold(seg, high) {
				return high
			}
		}
	}
	return ""
}

func splitPath(p string) []string {
	return strings.FieldsFunc(filepath.ToSlash(p), func(r rune) bool {
		return r == '/'
	})
}
