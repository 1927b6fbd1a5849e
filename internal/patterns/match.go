package patterns

// Match is one claimed span on a source line.
type Match struct {
	Rule        *Rule
	Start       int    // byte offset of the span start in the line
	End         int    // byte offset past the span end
	Text        string // the matched span
	Replacement string // span replacement, empty when the rule has none
}

// MatchLine runs the rule table over one line. Rules are evaluated in table
// order; a span claimed by an earlier rule is never re-claimed, so for any
// fixed line no two matches overlap.
func MatchLine(line string, rules []Rule) []Match {
	var matches []Match

	for i := range rules {
		rule := &rules[i]
		for _, loc := range rule.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := loc[0], loc[1]
			if overlapsAny(matches, start, end) {
				continue
			}

			text := line[start:end]
			replacement := ""
			if rule.Replacement != "" {
				replacement = string(rule.Pattern.ExpandString(nil, rule.Replacement, line, loc))
			}

			matches = append(matches, Match{
				Rule:        rule,
				Start:       start,
				End:         end,
				Text:        text,
				Replacement: replacement,
			})
		}
	}

	return matches
}

func overlapsAny(matches []Match, start, end int) bool {
	for _, m := range matches {
		if start < m.End && end > m.Start {
			return true
		}
	}
	return false
}
