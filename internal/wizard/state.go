// Package wizard sequences a course's compliance pass: CCN detection, then
// the CB code questions, then review and save.
package wizard

import (
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/justification"
)

// Phase is the wizard step currently shown.
type Phase string

const (
	PhaseDetection Phase = "ccn_detection"
	PhaseQuestions Phase = "questions"
	PhaseReview    Phase = "review"
	PhaseComplete  Phase = "complete"
)

// State is one editing session's wizard state. Like detection.State it is
// a value and Transition never mutates its argument.
type State struct {
	Phase    Phase
	CourseID string

	DetectionEnabled bool
	Detection        detection.State

	Codes cbcode.Set

	// QuestionIndex indexes the visible questions, not cbcode.Questions.
	QuestionIndex int

	// AdoptedStandard is the active adoption, nil when none. It and
	// Justification are never both set.
	AdoptedStandard *ccn.Standard
	Justification   *justification.Justification

	Saving  bool
	SaveErr string

	// Notice is a one-line message for the author, cleared on the next
	// accepted event.
	Notice string
}

// Config seeds a new wizard from the persisted course.
type Config struct {
	CourseID         string
	SubjectCode      string
	Codes            cbcode.Set
	AdoptedStandard  *ccn.Standard
	DetectionEnabled bool
	Policy           ccn.Policy
	Bounds           justification.Bounds
}

// New creates the wizard. With detection enabled it starts in detection and
// returns the lookup effect; otherwise it starts at the first question.
func New(cfg Config) (State, []Effect) {
	s := State{
		CourseID:         cfg.CourseID,
		DetectionEnabled: cfg.DetectionEnabled,
		Codes:            cfg.Codes,
		AdoptedStandard:  cfg.AdoptedStandard,
	}
	if !cfg.DetectionEnabled {
		s.Phase = PhaseQuestions
		s.Detection = detection.State{
			Phase:       detection.PhaseComplete,
			CourseID:    cfg.CourseID,
			SubjectCode: cfg.SubjectCode,
			Policy:      cfg.Policy,
			Bounds:      cfg.Bounds,
		}
		return s, nil
	}
	ds, effects := detection.Start(cfg.CourseID, cfg.SubjectCode, cfg.Policy, cfg.Bounds)
	s.Phase = PhaseDetection
	s.Detection = ds
	return s, wrap(effects)
}

// AdoptedStandardID returns the adopted standard's id, or "".
func (s State) AdoptedStandardID() string {
	if s.AdoptedStandard == nil {
		return ""
	}
	return s.AdoptedStandard.ID
}

// Visible returns the questions shown for the current codes.
func (s State) Visible() []cbcode.Question {
	return cbcode.Visible(s.Codes)
}

// Current returns the question at QuestionIndex.
func (s State) Current() (cbcode.Question, bool) {
	vis := s.Visible()
	if s.QuestionIndex < 0 || s.QuestionIndex >= len(vis) {
		return cbcode.Question{}, false
	}
	return vis[s.QuestionIndex], true
}

// Answered reports whether q counts as answered. Locked questions are
// implicitly answered.
func (s State) Answered(q cbcode.Question) bool {
	if s.Codes.IsLocked(q.Code) {
		return true
	}
	_, ok := s.Codes.Get(q.Code)
	return ok
}
