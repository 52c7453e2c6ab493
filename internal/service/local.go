package service

import (
	"context"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/session"
)

// Local exposes the service through the same contracts the HTTP client
// implements, so a wizard session can run without a server. Errors are
// mapped to *api.StatusError exactly as the server would report them.
type Local struct {
	svc   *Service
	actor string
}

var (
	_ session.Backend       = (*Local)(nil)
	_ session.SnapshotStore = (*Service)(nil)
)

// Local returns an in-process collaborator acting as actor.
func (s *Service) Local(actor string) *Local {
	return &Local{svc: s, actor: actor}
}

func (l *Local) LookupMatch(ctx context.Context, req api.MatchRequest) (*api.MatchCandidate, error) {
	best, err := l.svc.Match(ctx, req.Profile())
	if err != nil {
		return nil, StatusOf(err)
	}
	if best == nil {
		return nil, nil
	}
	cand := api.CandidateFromResult(*best)
	return &cand, nil
}

func (l *Local) SubmitJustification(ctx context.Context, courseID string, req api.JustificationRequest) (api.JustificationResponse, error) {
	j, err := l.svc.SubmitJustification(ctx, courseID, l.actor, req)
	if err != nil {
		return api.JustificationResponse{}, StatusOf(err)
	}
	return api.JustificationResponse{ID: j.ID.String(), SubmittedAt: j.SubmittedAt}, nil
}

func (l *Local) UpdateCourse(ctx context.Context, courseID string, u api.CourseUpdate) (api.Course, error) {
	c, err := l.svc.UpdateCourse(ctx, courseID, l.actor, u)
	if err != nil {
		return api.Course{}, StatusOf(err)
	}
	return CourseDTO(*c), nil
}

func (l *Local) GetCourse(ctx context.Context, courseID string) (api.Course, error) {
	c, err := l.svc.Course(ctx, courseID)
	if err != nil {
		return api.Course{}, StatusOf(err)
	}
	return CourseDTO(*c), nil
}

func (l *Local) ListCourses(ctx context.Context) ([]api.Course, error) {
	courses, err := l.svc.Courses(ctx)
	if err != nil {
		return nil, StatusOf(err)
	}
	out := make([]api.Course, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseDTO(c))
	}
	return out, nil
}

func (l *Local) Compare(ctx context.Context, req api.CompareRequest) (ccn.Comparison, error) {
	cmp, err := l.svc.Compare(ctx, req)
	if err != nil {
		return ccn.Comparison{}, StatusOf(err)
	}
	return cmp, nil
}

func (l *Local) GetStandard(_ context.Context, id string) (ccn.Standard, error) {
	std, err := l.svc.Standard(id)
	if err != nil {
		return ccn.Standard{}, StatusOf(err)
	}
	return std, nil
}
