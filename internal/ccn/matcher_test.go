package ccn

import "testing"

func TestCountOverlap(t *testing.T) {
	tests := []struct {
		name        string
		requirement string
		candidate   string
		minLen      int
		want        int
	}{
		{"both tokens present", "Apply limits", "Apply limits to evaluate functions", 5, 2},
		{"case insensitive", "APPLY LIMITS", "apply limits", 5, 2},
		{"short tokens dropped", "use the rule of limits", "use the rule of limits", 5, 1},
		{"substring stem", "integrate", "integrated circuits", 5, 1},
		{"no overlap", "derivatives", "limits", 5, 0},
		{"empty requirement", "", "anything", 5, 0},
		{"min length zero keeps everything", "a b", "a b", 0, 2},
		{"multibyte short token dropped", "ação", "plano de ação local", 5, 0},
		{"multibyte long token kept", "educação", "plano de educação local", 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountOverlap(tt.requirement, tt.candidate, tt.minLen)
			if got != tt.want {
				t.Errorf("CountOverlap(%q, %q, %d) = %d, want %d",
					tt.requirement, tt.candidate, tt.minLen, got, tt.want)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		requirement string
		candidate   string
		rule        MatchRule
		want        bool
	}{
		{"slo two tokens", "Apply limits", "Apply limits to evaluate functions", SLORule, true},
		{"slo one token is not enough", "Evaluate integrals", "Evaluate derivatives", SLORule, false},
		{"content one token is enough", "Limits and continuity", "Continuity of functions", ContentRule, true},
		{"prefix fallback", "Use of a CAS", "students will use of a cas daily", SLORule, true},
		{"prefix truncated to rule length", "Graph the functions and their inverses", "We graph the functions and", SLORule, true},
		{"blank requirement", "   ", "anything", SLORule, false},
		{"unrelated", "Solve differential equations", "Write essays", SLORule, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(tt.requirement, tt.candidate, tt.rule); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.requirement, tt.candidate, got, tt.want)
			}
		})
	}
}

func TestMatchMonotonic(t *testing.T) {
	requirements := []string{
		"Apply limits",
		"Compute derivatives of polynomial functions",
		"Limits and continuity",
		"Use of a CAS",
	}
	candidates := []string{
		"",
		"limits",
		"apply limits",
		"compute the derivative",
		"continuity",
	}
	additions := []string{"derivatives", "polynomial functions", "apply", "continuity limits", "use of a cas"}

	for _, rule := range []MatchRule{SLORule, ContentRule} {
		for _, req := range requirements {
			for _, cand := range candidates {
				before := Match(req, cand, rule)
				beforeCount := CountOverlap(req, cand, rule.MinWordLength)
				for _, add := range additions {
					grown := cand + " " + add
					if before && !Match(req, grown, rule) {
						t.Errorf("match lost: req=%q cand=%q + %q", req, cand, add)
					}
					if c := CountOverlap(req, grown, rule.MinWordLength); c < beforeCount {
						t.Errorf("overlap decreased %d -> %d: req=%q cand=%q + %q", beforeCount, c, req, cand, add)
					}
				}
			}
		}
	}
}
