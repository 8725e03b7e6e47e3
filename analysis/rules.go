// Package analysis implements rule-based intelligence over procurement
// contract text: compliance checking, risk scoring and key-term extraction.
// Every entry point is a pure function of its inputs; the rule tables are
// built once at init and never mutated, so concurrent calls need no locking.
package analysis

import (
	"regexp"
	"strings"
)

// NotExtracted is the sentinel reported for a term that no pattern matched.
const NotExtracted = "未提取"

// MatchesAny reports whether any keyword from the set appears in text as a
// substring. Matching is case-sensitive with no normalization.
func MatchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// CountMatches returns the number of distinct keywords from the set present
// in text. Each keyword counts at most once no matter how often it repeats.
func CountMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// FirstMatch tries the patterns in the given order and returns the submatch
// slice of the first pattern that matches, or nil if none do. Pattern order
// is the priority order: evaluation stops at the first hit.
func FirstMatch(text string, patterns []*regexp.Regexp) []string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m
		}
	}
	return nil
}

// clauseRule is one compliance category. Hard rules record a non-compliance
// finding when absent; soft rules only ever add a suggestion.
type clauseRule struct {
	category string
	keywords []string
	hard     bool
	present  string
	absent   string
}

// scoreRule is one override for a risk dimension. Rules are evaluated in
// order and the first rule whose condition holds wins; otherwise the
// dimension keeps its base score. minAmount, when non-zero, additionally
// requires the contract amount to be strictly greater.
type scoreRule struct {
	keywords  []string
	minCount  int
	minAmount float64
	score     int
}

// dimensionSpec binds a risk dimension name to its base score and its
// ordered override rules.
type dimensionSpec struct {
	name  string
	base  int
	rules []scoreRule
}

func (d *dimensionSpec) evaluate(text string, amount float64) int {
	for _, r := range d.rules {
		need := r.minCount
		if need == 0 {
			need = 1
		}
		if CountMatches(text, r.keywords) < need {
			continue
		}
		if r.minAmount > 0 && amount <= r.minAmount {
			continue
		}
		return r.score
	}
	return d.base
}

// termSpec binds an extraction field to its match strategy: either an
// ordered literal list (first literal present wins, in list order) or an
// ordered pattern list consumed by FirstMatch. gate, when set, must appear
// somewhere in the text before the patterns are attempted at all.
type termSpec struct {
	field    string
	literals []string
	patterns []*regexp.Regexp
	gate     string
	group    int
}

func (t *termSpec) extract(text string) string {
	if t.gate != "" && !strings.Contains(text, t.gate) {
		return NotExtracted
	}
	if len(t.literals) > 0 {
		for _, lit := range t.literals {
			if strings.Contains(text, lit) {
				return lit
			}
		}
		return NotExtracted
	}
	m := FirstMatch(text, t.patterns)
	if m == nil {
		return NotExtracted
	}
	v := strings.TrimSpace(m[t.group])
	if v == "" {
		return NotExtracted
	}
	return v
}
