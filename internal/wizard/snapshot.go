package wizard

import (
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
)

// Snapshot is the resumable part of a wizard session.
type Snapshot struct {
	Phase           Phase                        `json:"phase"`
	QuestionIndex   int                          `json:"questionIndex"`
	Codes           cbcode.Set                   `json:"codes"`
	AdoptedStandard *ccn.Standard                `json:"adoptedStandard,omitempty"`
	Justification   *justification.Justification `json:"justification,omitempty"`
}

// Snapshot captures s for an explicit save.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Phase:           s.Phase,
		QuestionIndex:   s.QuestionIndex,
		Codes:           s.Codes,
		AdoptedStandard: s.AdoptedStandard,
		Justification:   s.Justification,
	}
}

// Restore rebuilds a wizard from snap. Detection does not resume mid-flight:
// a session saved during detection restarts it, and any other session
// resumes at its question with detection finished.
func Restore(snap Snapshot, cfg Config) (State, []Effect) {
	cfg.Codes = snap.Codes
	cfg.AdoptedStandard = snap.AdoptedStandard
	if snap.Phase == PhaseDetection {
		s, effects := New(cfg)
		s.Justification = snap.Justification
		return s, effects
	}

	detectionEnabled := cfg.DetectionEnabled
	cfg.DetectionEnabled = false
	s, _ := New(cfg)
	s.DetectionEnabled = detectionEnabled
	s.Justification = snap.Justification
	if snap.Phase == PhaseReview {
		s.Phase = PhaseReview
	}
	s.QuestionIndex = clamp(snap.QuestionIndex, len(s.Visible()))
	return s, nil
}
