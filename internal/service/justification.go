package service

import (
	"context"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/store"
)

// SubmitJustification validates and appends a non-match justification for
// a stored course. Earlier justifications are kept; the newest one is the
// course's current justification.
func (s *Service) SubmitJustification(ctx context.Context, courseID, actor string, req api.JustificationRequest) (justification.Justification, error) {
	if _, err := s.store.Courses().Get(ctx, courseID); err != nil {
		return justification.Justification{}, err
	}

	draft := justification.Draft{
		ReasonCode: justification.ReasonCode(req.ReasonCode),
		Text:       req.Text,
	}
	j, err := s.bounds.New(courseID, draft, s.now())
	if err != nil {
		return justification.Justification{}, err
	}

	err = s.store.InTx(ctx, func(r store.Repos) error {
		if err := r.Justifications.Append(ctx, j); err != nil {
			return err
		}
		return r.Audit.Append(ctx, &store.AuditEvent{
			CourseID:  courseID,
			Kind:      store.KindJustificationSubmitted,
			Actor:     actor,
			CreatedAt: j.SubmittedAt,
			Detail: map[string]string{
				"justification_id": j.ID.String(),
				"reason_code":      string(j.ReasonCode),
			},
		})
	})
	if err != nil {
		s.log.Error("justification not stored", "course_id", courseID, "error", err)
		return justification.Justification{}, err
	}

	s.log.Info("justification submitted", "course_id", courseID, "justification_id", j.ID.String(),
		"reason_code", j.ReasonCode, "actor", actor)
	return j, nil
}
