// Package lint invokes the external linter and parses its output into warnings.
package lint

// Warning is a single occurrence of the target rule as reported by the linter.
type Warning struct {
	FilePath    string `json:"filePath"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	RuleMessage string `json:"ruleMessage"`
}

// DedupFiles returns the distinct file paths in first-seen order.
func DedupFiles(warnings []Warning) []string {
	seen := make(map[string]bool, len(warnings))
	var files []string
	for _, w := range warnings {
		if !seen[w.FilePath] {
			seen[w.FilePath] = true
			files = append(files, w.FilePath)
		}
	}
	return files
}
