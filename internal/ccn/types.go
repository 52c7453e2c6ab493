package ccn

import (
	"errors"
	"fmt"
	"strings"
)

// Outcome is a single student learning outcome on a course outline.
type Outcome struct {
	Sequence int    `json:"sequence" yaml:"sequence"`
	Text     string `json:"text" yaml:"text"`
}

// Topic is a single content topic on a course outline.
type Topic struct {
	Sequence int      `json:"sequence" yaml:"sequence"`
	Title    string   `json:"title" yaml:"title"`
	Hours    *float64 `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// CourseProfile is the part of a course record that matching looks at.
// It is treated as an immutable snapshot once handed to the scorer.
type CourseProfile struct {
	SubjectCode string    `json:"subjectCode" yaml:"subject_code"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Units       float64   `json:"units" yaml:"units"`
	Outcomes    []Outcome `json:"outcomes,omitempty" yaml:"outcomes,omitempty"`
	Topics      []Topic   `json:"topics,omitempty" yaml:"topics,omitempty"`
}

// Standard is a C-ID / CCN course descriptor from the reference catalog.
type Standard struct {
	ID                  string   `json:"id" yaml:"id"`
	Discipline          string   `json:"discipline" yaml:"discipline"`
	Title               string   `json:"title" yaml:"title"`
	Descriptor          string   `json:"descriptor,omitempty" yaml:"descriptor,omitempty"`
	MinimumUnits        float64  `json:"minimumUnits" yaml:"minimum_units"`
	SLORequirements     []string `json:"sloRequirements" yaml:"slo_requirements"`
	ContentRequirements []string `json:"contentRequirements" yaml:"content_requirements"`
}

// Alignment classifies a match for presentation.
type Alignment string

const (
	AlignmentAligned   Alignment = "aligned"
	AlignmentPotential Alignment = "potential"
	AlignmentNone      Alignment = "none"
)

// MatchResult is the scorer's verdict for one (profile, standard) pair.
// It is recomputed on every detection pass and never persisted.
type MatchResult struct {
	Standard        Standard  `json:"standard"`
	Confidence      float64   `json:"confidence"`
	Reasons         []string  `json:"reasons"`
	UnitsSufficient bool      `json:"unitsSufficient"`
	Alignment       Alignment `json:"alignment"`
}

var (
	ErrEmptyTitle   = errors.New("course title is required")
	ErrInvalidUnits = errors.New("unit count must be positive")
)

// Validate checks the fields matching depends on.
func (p CourseProfile) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Units <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidUnits, p.Units)
	}
	return nil
}

// Validate checks that a standard is usable for matching.
func (s Standard) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("standard id is required")
	}
	if s.MinimumUnits <= 0 {
		return fmt.Errorf("standard %s: %w", s.ID, ErrInvalidUnits)
	}
	return nil
}
