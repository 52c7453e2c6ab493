// Package detection sequences CCN detection for one course: fetch the best
// match, then adopt it, skip, or justify declining it.
package detection

import (
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
)

// Phase is the detection step currently shown.
type Phase string

const (
	PhaseLoading       Phase = "loading"
	PhaseError         Phase = "error"
	PhaseNoMatch       Phase = "no_match"
	PhaseMatchFound    Phase = "match_found"
	PhaseJustification Phase = "justification_form"
	PhaseComplete      Phase = "complete"
)

// Form is the justification form content.
type Form struct {
	ReasonCode justification.ReasonCode
	Text       string
	Errors     justification.ValidationErrors
	Submitting bool
	SubmitErr  string
}

// Draft returns the form content as a submission draft.
func (f Form) Draft() justification.Draft {
	return justification.Draft{ReasonCode: f.ReasonCode, Text: f.Text}
}

// State is the detection state of one editing session. It is a value;
// Transition never mutates its argument.
type State struct {
	Phase       Phase
	CourseID    string
	SubjectCode string

	// Match is the accepted match while in match_found, nil otherwise.
	Match *ccn.MatchResult

	// Message is the human-readable failure shown in the error phase.
	Message string

	Form Form

	// ReturnTo is where Back leaves the justification form for.
	ReturnTo Phase

	// LastPhase is the phase left when detection completed. The wizard
	// re-enters it when navigating back.
	LastPhase Phase

	// Fetches counts match lookups issued.
	Fetches int

	Policy ccn.Policy
	Bounds justification.Bounds
}

// Start enters loading and requests the single match lookup.
func Start(courseID, subjectCode string, policy ccn.Policy, bounds justification.Bounds) (State, []Effect) {
	s := State{
		Phase:       PhaseLoading,
		CourseID:    courseID,
		SubjectCode: subjectCode,
		Policy:      policy,
		Bounds:      bounds,
		Fetches:     1,
	}
	return s, []Effect{FetchMatch{CourseID: courseID}}
}

// Resume re-enters the phase detection completed from. It is a no-op unless
// detection is complete.
func Resume(s State) State {
	if s.Phase != PhaseComplete || s.LastPhase == "" {
		return s
	}
	s.Phase = s.LastPhase
	s.Form.Submitting = false
	s.Form.SubmitErr = ""
	return s
}

// Busy reports whether a network call is in flight.
func (s State) Busy() bool {
	return s.Phase == PhaseLoading || (s.Phase == PhaseJustification && s.Form.Submitting)
}
