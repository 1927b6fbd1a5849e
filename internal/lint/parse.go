package lint

import (
	"bufio"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// eslintMessage is one diagnostic in ESLint's JSON output
type eslintMessage struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// eslintFile is one file entry in ESLint's JSON output
type eslintFile struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

// ParseJSON parses ESLint --format json output, keeping only the given rule.
// ESLint prefixes nothing, but package runners sometimes prepend noise lines,
// so parsing starts at the first '[' byte.
func ParseJSON(output []byte, rule string) ([]Warning, error) {
	start := -1
	for i, b := range output {
		if b == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in linter output")
	}

	var files []eslintFile
	if err := json.Unmarshal(output[start:], &files); err != nil {
		return nil, fmt.Errorf("malformed linter JSON: %w", err)
	}

	var warnings []Warning
	for _, f := range files {
		for _, m := range f.Messages {
			if m.RuleID != rule {
				continue
			}
			warnings = append(warnings, Warning{
				FilePath:    f.FilePath,
				Line:        m.Line,
				Column:      m.Column,
				RuleMessage: m.Message,
			})
		}
	}
	return warnings, nil
}

// compactLine matches ESLint's compact format:
//
//	/path/to/file.ts: line 10, col 5, Warning - Unexpected any. (@typescript-eslint/no-explicit-any)
var compactLine = regexp.MustCompile(`^(.+): line (\d+), col (\d+), (?:Warning|Error) - (.*) \((.+)\)$`)

// ParseCompact parses ESLint --format compact output, keeping only the given
// rule. Unrecognized lines are skipped (fail soft on format drift).
func ParseCompact(output []byte, rule string) []Warning {
	var warnings []Warning

	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		m := compactLine.FindStringSubmatch(scanner.Text())
		if m == nil || m[5] != rule {
			continue
		}
		line, err1 := strconv.Atoi(m[2])
		col, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil {
			continue
		}
		warnings = append(warnings, Warning{
			FilePath:    m[1],
			Line:        line,
			Column:      col,
			RuleMessage: m[4],
		})
	}
	return warnings
}
