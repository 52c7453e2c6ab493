package detection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/justification"
)

// Transition applies ev to s. Events that do not apply to the current phase
// leave the state unchanged and produce no effects, which is what makes a
// second lookup or submission impossible while one is pending.
func Transition(s State, ev Event) (State, []Effect) {
	switch s.Phase {
	case PhaseLoading:
		return loading(s, ev)
	case PhaseError:
		return failed(s, ev)
	case PhaseNoMatch:
		return noMatch(s, ev)
	case PhaseMatchFound:
		return matchFound(s, ev)
	case PhaseJustification:
		return form(s, ev)
	}
	return s, nil
}

func loading(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case MatchFetched:
		if ev.Result != nil && s.Policy.Accepts(ev.Result.Confidence) {
			r := *ev.Result
			r.Alignment = s.Policy.Classify(r.Confidence)
			s.Match = &r
			s.Phase = PhaseMatchFound
		} else {
			s.Match = nil
			s.Phase = PhaseNoMatch
		}
		s.Message = ""
		return s, nil
	case FetchFailed:
		s.Phase = PhaseError
		s.Message = FailureMessage(ev.Err)
		return s, nil
	}
	return s, nil
}

func failed(s State, ev Event) (State, []Effect) {
	switch ev.(type) {
	case Retry:
		s.Phase = PhaseLoading
		s.Message = ""
		s.Fetches++
		return s, []Effect{FetchMatch{CourseID: s.CourseID}}
	case Skip:
		return complete(s), []Effect{Skipped{}}
	}
	return s, nil
}

func noMatch(s State, ev Event) (State, []Effect) {
	switch ev.(type) {
	case Skip:
		return complete(s), []Effect{Skipped{}}
	case OpenJustification:
		return openForm(s), nil
	}
	return s, nil
}

func matchFound(s State, ev Event) (State, []Effect) {
	switch ev.(type) {
	case Adopt:
		std := s.Match.Standard
		return complete(s), []Effect{Adopted{
			Standard: std,
			Derived:  cbcode.Derive(std, s.SubjectCode),
		}}
	case Dismiss:
		return openForm(s), nil
	}
	return s, nil
}

func form(s State, ev Event) (State, []Effect) {
	if s.Form.Submitting {
		switch ev := ev.(type) {
		case SubmitSucceeded:
			j := ev.Justification
			s.Form.Submitting = false
			return complete(s), []Effect{Skipped{Justification: &j}}
		case SubmitFailed:
			s.Form.Submitting = false
			s.Form.SubmitErr = describe(ev.Err, "Justification submission")
			var se *api.StatusError
			if errors.As(ev.Err, &se) && len(se.Details) > 0 {
				s.Form.Errors = copyErrors(se.Details)
			}
			return s, nil
		}
		return s, nil
	}

	switch ev := ev.(type) {
	case Back:
		s.Phase = s.ReturnTo
		return s, nil
	case SetReason:
		s.Form.ReasonCode = ev.Reason
		s.Form.Errors = withoutField(s.Form.Errors, justification.FieldReasonCode)
		return s, nil
	case SetText:
		s.Form.Text = ev.Text
		s.Form.Errors = withoutField(s.Form.Errors, justification.FieldText)
		return s, nil
	case Submit:
		draft := s.Form.Draft()
		if err := s.Bounds.Validate(draft); err != nil {
			var ve justification.ValidationErrors
			if errors.As(err, &ve) {
				s.Form.Errors = ve
			}
			return s, nil
		}
		draft.Text = strings.TrimSpace(draft.Text)
		s.Form.Errors = nil
		s.Form.SubmitErr = ""
		s.Form.Submitting = true
		return s, []Effect{SubmitJustification{CourseID: s.CourseID, Draft: draft}}
	}
	return s, nil
}

func openForm(s State) State {
	s.ReturnTo = s.Phase
	s.Phase = PhaseJustification
	s.Form.Errors = nil
	s.Form.SubmitErr = ""
	return s
}

func complete(s State) State {
	s.LastPhase = s.Phase
	s.Phase = PhaseComplete
	return s
}

// FailureMessage turns a match lookup error into the text shown in the
// error phase.
func FailureMessage(err error) string {
	return describe(err, "CCN detection")
}

func describe(err error, what string) string {
	var se *api.StatusError
	var te *api.TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, api.ErrAuthRequired):
		return "Authentication required. Sign in, then retry or skip CCN detection."
	case errors.Is(err, api.ErrSessionExpired):
		return "Your session has expired. Sign in again, then retry or skip CCN detection."
	case errors.As(err, &se):
		if se.Message != "" {
			return fmt.Sprintf("%s failed (HTTP %d): %s", what, se.Status, se.Message)
		}
		return fmt.Sprintf("%s failed (HTTP %d). Retry or skip CCN detection.", what, se.Status)
	case errors.As(err, &te):
		return te.Err.Error()
	}
	return err.Error()
}

func withoutField(errs justification.ValidationErrors, field string) justification.ValidationErrors {
	if _, ok := errs[field]; !ok {
		return errs
	}
	out := make(justification.ValidationErrors, len(errs))
	for k, v := range errs {
		if k != field {
			out[k] = v
		}
	}
	return out
}

func copyErrors(m map[string]string) justification.ValidationErrors {
	out := make(justification.ValidationErrors, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
