package internal

import (
	"strings"

	"github.com/phlin-dev/phlin/internal/ast"
)

const suppressMarker = "@phlin-suppress"

// Suppressions records which rules are silenced on which lines. A
// `@phlin-suppress rule1,rule2` comment silences the named rules on its
// own line and the line below it; without rule names it silences
// everything there.
type Suppressions struct {
	// line -> rule set; an entry with an empty set suppresses all rules
	byLine map[int]map[string]struct{}
}

// ParseSuppressions extracts suppression pragmas from a file's comments.
func ParseSuppressions(f *ast.File) *Suppressions {
	s := &Suppressions{byLine: make(map[int]map[string]struct{})}
	for _, c := range f.Comments {
		idx := strings.Index(c.Text, suppressMarker)
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(c.Text[idx+len(suppressMarker):])
		rest = strings.TrimSuffix(rest, "*/")
		rules := make(map[string]struct{})
		for _, r := range strings.Split(rest, ",") {
			r = strings.TrimSpace(r)
			if r != "" {
				rules[r] = struct{}{}
			}
		}
		line := c.Pos.Start.Line
		s.merge(line, rules)
		s.merge(line+1, rules)
	}
	return s
}

func (s *Suppressions) merge(line int, rules map[string]struct{}) {
	existing, ok := s.byLine[line]
	if !ok {
		s.byLine[line] = rules
		return
	}
	// an existing suppress-all wins
	if len(existing) == 0 || len(rules) == 0 {
		s.byLine[line] = map[string]struct{}{}
		return
	}
	for r := range rules {
		existing[r] = struct{}{}
	}
}

// Suppressed reports whether the rule is silenced on the given line.
func (s *Suppressions) Suppressed(rule string, line int) bool {
	rules, ok := s.byLine[line]
	if !ok {
		return false
	}
	if len(rules) == 0 {
		return true
	}
	_, found := rules[rule]
	return found
}
