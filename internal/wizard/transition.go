package wizard

import (
	"errors"
	"fmt"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/detection"
)

// Transition applies ev to s.
func Transition(s State, ev Event) (State, []Effect) {
	switch s.Phase {
	case PhaseDetection:
		if de, ok := ev.(DetectionEvent); ok {
			return detect(s, de.Event)
		}
	case PhaseQuestions:
		return questions(s, ev)
	case PhaseReview:
		return review(s, ev)
	}
	return s, nil
}

func detect(s State, ev detection.Event) (State, []Effect) {
	ds, effects := detection.Transition(s.Detection, ev)
	s.Detection = ds
	s.Notice = ""

	var out []Effect
	for _, e := range effects {
		switch e := e.(type) {
		case detection.Adopted:
			std := e.Standard
			s.Codes = s.Codes.Lock(e.Derived)
			s.AdoptedStandard = &std
			s.Justification = nil
		case detection.Skipped:
			// A plain skip keeps whatever decision the course already has.
			if e.Justification != nil {
				if s.AdoptedStandard != nil {
					s.Codes = s.Codes.Unlock()
					s.AdoptedStandard = nil
				}
				s.Justification = e.Justification
			}
		default:
			out = append(out, RunDetection{Effect: e})
		}
	}

	if ds.Phase == detection.PhaseComplete {
		s.Phase = PhaseQuestions
		s.QuestionIndex = 0
	}
	return s, out
}

func questions(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Answer:
		current, _ := s.Current()
		codes, err := s.Codes.Answer(ev.Code, ev.Value)
		if err != nil {
			s.Notice = answerNotice(ev.Code, err)
			return s, nil
		}
		s.Codes = codes
		s.Notice = ""
		s.QuestionIndex = indexOf(s, current.Code)
		return s, nil

	case Next:
		q, ok := s.Current()
		if !ok {
			s.Phase = PhaseReview
			return s, nil
		}
		if !s.Answered(q) {
			def, _ := q.Code.Definition()
			s.Notice = fmt.Sprintf("Answer %s to continue", def.Label)
			return s, nil
		}
		s.Notice = ""
		if s.QuestionIndex >= len(s.Visible())-1 {
			s.Phase = PhaseReview
			return s, nil
		}
		s.QuestionIndex++
		return s, nil

	case Back:
		s.Notice = ""
		if s.QuestionIndex > 0 {
			s.QuestionIndex--
			return s, nil
		}
		if !s.DetectionEnabled {
			return s, nil
		}
		s.Phase = PhaseDetection
		if s.Detection.LastPhase == "" {
			// Restored sessions have no detection history; look up again.
			d := s.Detection
			ds, effects := detection.Start(s.CourseID, d.SubjectCode, d.Policy, d.Bounds)
			s.Detection = ds
			return s, wrap(effects)
		}
		s.Detection = detection.Resume(s.Detection)
		return s, nil

	case Unadopt:
		return unadopt(s), nil
	}
	return s, nil
}

func review(s State, ev Event) (State, []Effect) {
	if s.Saving {
		switch ev := ev.(type) {
		case Saved:
			s.Saving = false
			s.Phase = PhaseComplete
			return s, nil
		case SaveFailed:
			s.Saving = false
			s.SaveErr = saveError(ev.Err)
			return s, nil
		}
		return s, nil
	}

	switch ev.(type) {
	case Back:
		s.Phase = PhaseQuestions
		s.QuestionIndex = len(s.Visible()) - 1
		s.SaveErr = ""
		return s, nil

	case Confirm:
		if !cbcode.Complete(s.Codes) {
			s.Notice = "Some questions are still unanswered"
			return s, nil
		}
		s.Saving = true
		s.SaveErr = ""
		s.Notice = ""
		return s, []Effect{PersistCourse{
			CourseID:   s.CourseID,
			Codes:      s.Codes.Values(),
			Locked:     s.Codes.Locked(),
			StandardID: s.AdoptedStandardID(),
		}}

	case Unadopt:
		return unadopt(s), nil
	}
	return s, nil
}

func unadopt(s State) State {
	if s.AdoptedStandard == nil {
		return s
	}
	id := s.AdoptedStandard.ID
	s.Codes = s.Codes.Unlock()
	s.AdoptedStandard = nil
	s.Notice = fmt.Sprintf("Removed CCN alignment to %s", id)
	if s.Phase == PhaseQuestions {
		s.QuestionIndex = clamp(s.QuestionIndex, len(s.Visible()))
	} else {
		// Unlocked codes need answers again.
		s.Phase = PhaseQuestions
		s.QuestionIndex = firstUnanswered(s)
	}
	return s
}

// indexOf returns the visible position of code, keeping the author on the
// question they answered even when the visible set shifts around it.
func indexOf(s State, code cbcode.Code) int {
	for i, q := range s.Visible() {
		if q.Code == code {
			return i
		}
	}
	return clamp(s.QuestionIndex, len(s.Visible()))
}

func firstUnanswered(s State) int {
	for i, q := range s.Visible() {
		if !s.Answered(q) {
			return i
		}
	}
	return 0
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// saveError is the review-screen text for a failed save. SaveErr must be
// non-empty for the failure to show.
func saveError(err error) string {
	if err == nil || err.Error() == "" {
		return "Saving the course failed"
	}
	return err.Error()
}

func answerNotice(code cbcode.Code, err error) string {
	if errors.Is(err, cbcode.ErrLocked) {
		def, _ := code.Definition()
		return fmt.Sprintf("%s is set by the adopted standard", def.Label)
	}
	return err.Error()
}
