package ccn

import (
	"strings"
	"unicode/utf8"
)

// MatchRule configures one call site of the keyword matcher.
type MatchRule struct {
	// MinWordLength drops requirement tokens shorter than this many characters.
	MinWordLength int

	// MinOverlap is the number of requirement tokens that must appear in
	// the candidate for a match.
	MinOverlap int

	// PrefixLength is the length of the requirement prefix used as a
	// verbatim fallback for short requirements.
	PrefixLength int
}

var (
	// SLORule compares SLO requirements against learning outcomes.
	SLORule = MatchRule{MinWordLength: 5, MinOverlap: 2, PrefixLength: 20}

	// ContentRule compares content requirements against topic titles.
	ContentRule = MatchRule{MinWordLength: 5, MinOverlap: 1, PrefixLength: 15}
)

// CountOverlap counts requirement tokens of at least minWordLength characters that
// occur as substrings of candidate. Both strings are lower-cased first.
// Substring rather than whole-word matching lets stems match ("limit" in
// "limits").
func CountOverlap(requirement, candidate string, minWordLength int) int {
	cand := strings.ToLower(candidate)
	count := 0
	for _, tok := range strings.Fields(strings.ToLower(requirement)) {
		if utf8.RuneCountInString(tok) < minWordLength {
			continue
		}
		if strings.Contains(cand, tok) {
			count++
		}
	}
	return count
}

// Match reports whether candidate satisfies requirement under rule.
func Match(requirement, candidate string, rule MatchRule) bool {
	req := strings.ToLower(strings.TrimSpace(requirement))
	if req == "" {
		return false
	}
	if CountOverlap(req, candidate, rule.MinWordLength) >= rule.MinOverlap {
		return true
	}
	return strings.Contains(strings.ToLower(candidate), prefix(req, rule.PrefixLength))
}

// prefix returns the first n runes of s, or s when shorter.
func prefix(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// MatchesAny reports whether requirement matches at least one candidate.
func MatchesAny(requirement string, candidates []string, rule MatchRule) bool {
	for _, c := range candidates {
		if Match(requirement, c, rule) {
			return true
		}
	}
	return false
}

func outcomeTexts(outcomes []Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.Text
	}
	return out
}

func topicTitles(topics []Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = t.Title
	}
	return out
}
