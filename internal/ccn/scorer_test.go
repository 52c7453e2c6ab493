package ccn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calculusProfile() CourseProfile {
	return CourseProfile{
		Title: "Introductory Analysis",
		Units: 4,
		Outcomes: []Outcome{
			{Sequence: 1, Text: "Apply limits to evaluate functions"},
		},
	}
}

func limitsStandard(minUnits float64) Standard {
	return Standard{
		ID:              "MATH C2210",
		Discipline:      "MATH",
		Title:           "Calculus I",
		MinimumUnits:    minUnits,
		SLORequirements: []string{"Apply limits"},
	}
}

func TestScoreScenarioUnitsSufficient(t *testing.T) {
	s := NewScorer(DefaultPolicy(), DefaultWeights())

	r := s.Score(calculusProfile(), limitsStandard(4))

	assert.True(t, r.UnitsSufficient)
	assert.GreaterOrEqual(t, r.Confidence, 0.5)
	assert.Contains(t, r.Reasons, "Matched 1 of 1 SLO requirements")

	best, ok := s.SelectBestMatch(calculusProfile(), []Standard{limitsStandard(4)})
	require.True(t, ok)
	assert.Equal(t, "MATH C2210", best.Standard.ID)
}

func TestScoreScenarioUnitsInsufficient(t *testing.T) {
	s := NewScorer(DefaultPolicy(), DefaultWeights())

	sufficient := s.Score(calculusProfile(), limitsStandard(4))
	insufficient := s.Score(calculusProfile(), limitsStandard(5))

	assert.False(t, insufficient.UnitsSufficient)
	assert.Less(t, insufficient.Confidence, sufficient.Confidence)
	assert.Less(t, insufficient.Confidence, 0.5)
	assert.Equal(t, AlignmentNone, insufficient.Alignment)

	best, ok := s.SelectBestMatch(calculusProfile(), []Standard{limitsStandard(5)})
	assert.False(t, ok)
	assert.Nil(t, best)
}

func TestScoreSubjectAndTitleReasons(t *testing.T) {
	s := NewScorer(Policy{}, Weights{})
	p := calculusProfile()
	p.SubjectCode = "math"
	p.Title = "Calculus I"

	r := s.Score(p, limitsStandard(4))

	assert.Contains(t, r.Reasons, "Subject code match")
	assert.Contains(t, r.Reasons, "Title similarity")
	assert.InDelta(t, 1.0, r.Confidence, 1e-9)
	assert.Equal(t, AlignmentAligned, r.Alignment)
}

func TestScoreInUnitInterval(t *testing.T) {
	s := NewScorer(DefaultPolicy(), DefaultWeights())
	profiles := []CourseProfile{
		{},
		calculusProfile(),
		{SubjectCode: "MATH", Title: "Calculus I", Units: 100, Outcomes: []Outcome{{1, "apply limits"}, {2, "apply limits again"}}},
		{SubjectCode: "ENGL", Title: "Composition", Units: 0.5},
	}
	standards := []Standard{
		limitsStandard(4),
		{ID: "EMPTY", MinimumUnits: 3},
		{ID: "ENGL C1000", Discipline: "ENGL", Title: "Academic Reading and Writing", MinimumUnits: 3,
			SLORequirements: []string{"Write argumentative essays"}, ContentRequirements: []string{"Rhetorical analysis"}},
	}
	for _, p := range profiles {
		for _, std := range standards {
			r := s.Score(p, std)
			if r.Confidence < 0 || r.Confidence > 1 {
				t.Errorf("confidence %g outside [0,1] for %q vs %s", r.Confidence, p.Title, std.ID)
			}
		}
	}
}

func TestScoreMonotonicInRequirementMatches(t *testing.T) {
	s := NewScorer(DefaultPolicy(), DefaultWeights())
	std := Standard{
		ID:           "MATH C2210",
		Discipline:   "MATH",
		Title:        "Calculus I",
		MinimumUnits: 4,
		SLORequirements: []string{
			"Apply limits",
			"Compute derivatives of polynomial functions",
		},
		ContentRequirements: []string{"Integration techniques"},
	}

	p := calculusProfile()
	prev := s.Score(p, std).Confidence

	p.AddOutcome("Compute derivatives of polynomial and rational functions")
	next := s.Score(p, std).Confidence
	assert.GreaterOrEqual(t, next, prev)
	prev = next

	p.AddTopic("Integration techniques", nil)
	next = s.Score(p, std).Confidence
	assert.GreaterOrEqual(t, next, prev)
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(DefaultPolicy(), DefaultWeights())
	a := s.Score(calculusProfile(), limitsStandard(4))
	b := s.Score(calculusProfile(), limitsStandard(4))
	assert.Equal(t, a, b)
}

func TestPolicyClassify(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		confidence float64
		want       Alignment
	}{
		{0, AlignmentNone},
		{0.49, AlignmentNone},
		{0.5, AlignmentPotential},
		{0.69, AlignmentPotential},
		{0.7, AlignmentAligned},
		{1, AlignmentAligned},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Classify(tt.confidence), "confidence %g", tt.confidence)
	}
	assert.True(t, p.Accepts(0.5))
	assert.False(t, p.Accepts(0.4999))
}

func TestPolicyValidate(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
	assert.Error(t, Policy{AcceptThreshold: 0.8, HighConfidenceThreshold: 0.7}.Validate())
	assert.Error(t, Policy{AcceptThreshold: -0.1, HighConfidenceThreshold: 0.7}.Validate())
	assert.Error(t, Policy{AcceptThreshold: 0.5, HighConfidenceThreshold: 1.2}.Validate())
	assert.Error(t, Policy{}.Validate(), "zero policy is reserved for defaults")
	assert.Error(t, Policy{AcceptThreshold: 0, HighConfidenceThreshold: 0.7}.Validate())
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
	assert.Error(t, Weights{Subject: 0.5, Title: 0.5, Coverage: 0.5}.Validate())
	assert.Error(t, Weights{Subject: -0.1, Title: 0.1, Coverage: 0.7, Units: 0.3}.Validate())
}
