package detection

import (
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/justification"
)

// Event is an input to Transition.
type Event interface{ detectionEvent() }

// MatchFetched delivers the lookup result. A nil Result means no candidate.
type MatchFetched struct{ Result *ccn.MatchResult }

// FetchFailed delivers a lookup failure.
type FetchFailed struct{ Err error }

// Retry re-issues the lookup after a failure.
type Retry struct{}

// Adopt accepts the found match.
type Adopt struct{}

// Skip bypasses CCN without a justification.
type Skip struct{}

// Dismiss declines the found match and opens the justification form.
type Dismiss struct{}

// OpenJustification opens the justification form from no_match.
type OpenJustification struct{}

// Back leaves the justification form.
type Back struct{}

// SetReason selects a reason code on the form.
type SetReason struct{ Reason justification.ReasonCode }

// SetText replaces the justification text.
type SetText struct{ Text string }

// Submit validates the form and submits it.
type Submit struct{}

// SubmitSucceeded delivers the stored justification.
type SubmitSucceeded struct{ Justification justification.Justification }

// SubmitFailed delivers a submission failure.
type SubmitFailed struct{ Err error }

func (MatchFetched) detectionEvent()      {}
func (FetchFailed) detectionEvent()       {}
func (Retry) detectionEvent()             {}
func (Adopt) detectionEvent()             {}
func (Skip) detectionEvent()              {}
func (Dismiss) detectionEvent()           {}
func (OpenJustification) detectionEvent() {}
func (Back) detectionEvent()              {}
func (SetReason) detectionEvent()         {}
func (SetText) detectionEvent()           {}
func (Submit) detectionEvent()            {}
func (SubmitSucceeded) detectionEvent()   {}
func (SubmitFailed) detectionEvent()      {}

// Effect is work Transition asks its owner to perform.
type Effect interface{ detectionEffect() }

// FetchMatch requests one match lookup for the course.
type FetchMatch struct{ CourseID string }

// SubmitJustification requests one justification submission.
type SubmitJustification struct {
	CourseID string
	Draft    justification.Draft
}

// Adopted reports that the author adopted Standard. Derived is the new
// locked code set.
type Adopted struct {
	Standard ccn.Standard
	Derived  map[cbcode.Code]string
}

// Skipped reports that detection finished without adoption. Justification
// is nil for a plain skip.
type Skipped struct{ Justification *justification.Justification }

func (FetchMatch) detectionEffect()          {}
func (SubmitJustification) detectionEffect() {}
func (Adopted) detectionEffect()             {}
func (Skipped) detectionEffect()             {}
