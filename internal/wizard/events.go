package wizard

import (
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/detection"
)

// Event is an input to Transition.
type Event interface{ wizardEvent() }

// DetectionEvent forwards an event to the embedded detection machine.
type DetectionEvent struct{ Event detection.Event }

// Answer sets a code from the current question.
type Answer struct {
	Code  cbcode.Code
	Value string
}

// Next advances to the next visible question, or to review from the last.
type Next struct{}

// Back returns to the previous question, or into detection from the first.
type Back struct{}

// Confirm saves the reviewed codes.
type Confirm struct{}

// Saved reports that the course update succeeded.
type Saved struct{}

// SaveFailed reports that the course update failed.
type SaveFailed struct{ Err error }

// Unadopt removes the CCN alignment and its locked codes.
type Unadopt struct{}

func (DetectionEvent) wizardEvent() {}
func (Answer) wizardEvent()         {}
func (Next) wizardEvent()           {}
func (Back) wizardEvent()           {}
func (Confirm) wizardEvent()        {}
func (Saved) wizardEvent()          {}
func (SaveFailed) wizardEvent()     {}
func (Unadopt) wizardEvent()        {}

// Effect is work Transition asks its owner to perform.
type Effect interface{ wizardEffect() }

// RunDetection carries a detection effect that needs the network.
type RunDetection struct{ Effect detection.Effect }

// PersistCourse requests one partial course update. StandardID is the
// complete adoption decision: "" clears any adoption.
type PersistCourse struct {
	CourseID   string
	Codes      map[cbcode.Code]string
	Locked     []cbcode.Code
	StandardID string
}

func (RunDetection) wizardEffect()  {}
func (PersistCourse) wizardEffect() {}

func wrap(effects []detection.Effect) []Effect {
	var out []Effect
	for _, e := range effects {
		out = append(out, RunDetection{Effect: e})
	}
	return out
}
