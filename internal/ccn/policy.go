package ccn

import (
	"fmt"
	"math"
)

const (
	// DefaultAcceptThreshold is the minimum confidence for a match to be
	// offered at all. Scores below it are treated as "no match".
	DefaultAcceptThreshold = 0.5

	// DefaultHighConfidenceThreshold separates "aligned" (High Match) from
	// "potential". It affects presentation only.
	DefaultHighConfidenceThreshold = 0.7
)

// Policy holds the threshold constants of the matching flow.
type Policy struct {
	AcceptThreshold         float64
	HighConfidenceThreshold float64
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		AcceptThreshold:         DefaultAcceptThreshold,
		HighConfidenceThreshold: DefaultHighConfidenceThreshold,
	}
}

// Validate checks that the accept threshold is in (0,1], the high-confidence
// threshold in [0,1], and that they are ordered. A zero accept threshold
// would make every standard a match, so the zero Policy is never valid and
// callers may treat it as "unset".
func (p Policy) Validate() error {
	if p.AcceptThreshold <= 0 || p.AcceptThreshold > 1 {
		return fmt.Errorf("accept threshold %g outside (0,1]", p.AcceptThreshold)
	}
	if p.HighConfidenceThreshold < 0 || p.HighConfidenceThreshold > 1 {
		return fmt.Errorf("high-confidence threshold %g outside [0,1]", p.HighConfidenceThreshold)
	}
	if p.HighConfidenceThreshold < p.AcceptThreshold {
		return fmt.Errorf("high-confidence threshold %g below accept threshold %g",
			p.HighConfidenceThreshold, p.AcceptThreshold)
	}
	return nil
}

// Accepts reports whether a confidence clears the acceptance threshold.
// Every place that decides "match found" versus "no match" goes through here.
func (p Policy) Accepts(confidence float64) bool {
	return confidence >= p.AcceptThreshold
}

// Classify maps a confidence onto the presentation classification.
func (p Policy) Classify(confidence float64) Alignment {
	switch {
	case confidence >= p.HighConfidenceThreshold:
		return AlignmentAligned
	case confidence >= p.AcceptThreshold:
		return AlignmentPotential
	default:
		return AlignmentNone
	}
}

// Weights are the scorer's per-signal contributions. They must sum to 1.
type Weights struct {
	Subject  float64
	Title    float64
	Coverage float64
	Units    float64
}

// DefaultWeights returns the production weights.
func DefaultWeights() Weights {
	return Weights{
		Subject:  0.15,
		Title:    0.10,
		Coverage: 0.45,
		Units:    0.30,
	}
}

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"subject": w.Subject, "title": w.Title, "coverage": w.Coverage, "units": w.Units,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s is negative: %g", name, v)
		}
	}
	sum := w.Subject + w.Title + w.Coverage + w.Units
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("weights sum to %g, want 1", sum)
	}
	return nil
}
