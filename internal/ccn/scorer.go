package ccn

import (
	"fmt"
	"strings"
)

// titleMinWordLength is the token length used when comparing titles.
// Titles are short, so shorter stems ("calc", "stat") still count.
const titleMinWordLength = 4

// Scorer scores course profiles against standards.
type Scorer struct {
	policy  Policy
	weights Weights
}

// NewScorer creates a scorer. Zero-value arguments fall back to defaults;
// neither zero value passes Validate, so no configured value is replaced.
func NewScorer(policy Policy, weights Weights) *Scorer {
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	return &Scorer{policy: policy, weights: weights}
}

// Policy returns the scorer's threshold policy.
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score computes the confidence that standard is the right match for profile.
// The result is deterministic and lies in [0,1]; matching more requirements
// never lowers it.
func (s *Scorer) Score(profile CourseProfile, standard Standard) MatchResult {
	var reasons []string
	var confidence float64

	if subjectMatches(profile.SubjectCode, standard) {
		confidence += s.weights.Subject
		reasons = append(reasons, "Subject code match")
	}

	if titleSimilar(profile.Title, standard.Title) {
		confidence += s.weights.Title
		reasons = append(reasons, "Title similarity")
	}

	outcomes := outcomeTexts(profile.Outcomes)
	sloMatched := 0
	for _, req := range standard.SLORequirements {
		if MatchesAny(req, outcomes, SLORule) {
			sloMatched++
		}
	}
	if n := len(standard.SLORequirements); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Matched %d of %d SLO requirements", sloMatched, n))
	}

	topics := topicTitles(profile.Topics)
	contentMatched := 0
	for _, req := range standard.ContentRequirements {
		if MatchesAny(req, topics, ContentRule) {
			contentMatched++
		}
	}
	if n := len(standard.ContentRequirements); n > 0 {
		reasons = append(reasons, fmt.Sprintf("Matched %d of %d content requirements", contentMatched, n))
	}

	total := len(standard.SLORequirements) + len(standard.ContentRequirements)
	if total > 0 {
		confidence += s.weights.Coverage * float64(sloMatched+contentMatched) / float64(total)
	}

	unitsOK := profile.Units >= standard.MinimumUnits
	if unitsOK {
		confidence += s.weights.Units
		reasons = append(reasons, fmt.Sprintf("Units sufficient (%g ≥ %g)", profile.Units, standard.MinimumUnits))
	} else {
		reasons = append(reasons, fmt.Sprintf("Units below minimum (%g < %g)", profile.Units, standard.MinimumUnits))
	}

	confidence = clamp01(confidence)
	return MatchResult{
		Standard:        standard,
		Confidence:      confidence,
		Reasons:         reasons,
		UnitsSufficient: unitsOK,
		Alignment:       s.policy.Classify(confidence),
	}
}

func subjectMatches(subject string, standard Standard) bool {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return false
	}
	if strings.EqualFold(subject, standard.Discipline) {
		return true
	}
	// "MATH C2210" carries the subject as its first token.
	if fields := strings.Fields(standard.ID); len(fields) > 0 {
		return strings.EqualFold(subject, fields[0])
	}
	return false
}

func titleSimilar(courseTitle, standardTitle string) bool {
	if strings.TrimSpace(courseTitle) == "" || strings.TrimSpace(standardTitle) == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(courseTitle), strings.TrimSpace(standardTitle)) {
		return true
	}
	return CountOverlap(standardTitle, courseTitle, titleMinWordLength) >= 1
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
