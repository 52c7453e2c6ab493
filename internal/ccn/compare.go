package ccn

import "math"

// RequirementMatch is one standard requirement and whether the course covers it.
type RequirementMatch struct {
	Requirement string `json:"requirement"`
	Matched     bool   `json:"matched"`
	// MatchedBy lists the course outcomes or topics that satisfied it.
	MatchedBy []string `json:"matchedBy,omitempty"`
}

// Comparison is a per-requirement diff between a course and a standard,
// intended for human review.
type Comparison struct {
	StandardID     string             `json:"standardId"`
	SLOMatches     []RequirementMatch `json:"sloMatches"`
	ContentMatches []RequirementMatch `json:"contentMatches"`
	ExtraSLOs      []string           `json:"extraSlos"`
	ExtraContent   []string           `json:"extraContent"`
	UnitsMatch     bool               `json:"unitsMatch"`
	// AlignmentScorePercent is a display metric. It is computed differently
	// from the scorer's confidence and the two are not expected to agree.
	AlignmentScorePercent int `json:"alignmentScorePercent"`
}

// Compare diffs profile against standard requirement by requirement.
// Course items that satisfy no requirement are reported as extras; they are
// informational and do not reduce the score.
func Compare(profile CourseProfile, standard Standard) Comparison {
	outcomes := outcomeTexts(profile.Outcomes)
	topics := topicTitles(profile.Topics)

	c := Comparison{
		StandardID: standard.ID,
		UnitsMatch: profile.Units >= standard.MinimumUnits,
	}

	matched := 0
	c.SLOMatches = classify(standard.SLORequirements, outcomes, SLORule, &matched)
	c.ContentMatches = classify(standard.ContentRequirements, topics, ContentRule, &matched)
	c.ExtraSLOs = extras(outcomes, standard.SLORequirements, SLORule)
	c.ExtraContent = extras(topics, standard.ContentRequirements, ContentRule)

	if c.UnitsMatch {
		matched++
	}
	total := len(standard.SLORequirements) + len(standard.ContentRequirements) + 1
	c.AlignmentScorePercent = int(math.Round(float64(matched) / float64(total) * 100))
	return c
}

func classify(requirements, candidates []string, rule MatchRule, matched *int) []RequirementMatch {
	out := make([]RequirementMatch, 0, len(requirements))
	for _, req := range requirements {
		rm := RequirementMatch{Requirement: req}
		for _, cand := range candidates {
			if Match(req, cand, rule) {
				rm.MatchedBy = append(rm.MatchedBy, cand)
			}
		}
		rm.Matched = len(rm.MatchedBy) > 0
		if rm.Matched {
			*matched++
		}
		out = append(out, rm)
	}
	return out
}

func extras(candidates, requirements []string, rule MatchRule) []string {
	var out []string
	for _, cand := range candidates {
		covered := false
		for _, req := range requirements {
			if Match(req, cand, rule) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, cand)
		}
	}
	return out
}
