package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screens/courses"
	"github.com/abhisek/outlines/internal/screens/wizard"
)

type listOnly struct {
	courses []api.Course
}

func (l listOnly) LookupMatch(context.Context, api.MatchRequest) (*api.MatchCandidate, error) {
	return nil, nil
}

func (l listOnly) SubmitJustification(context.Context, string, api.JustificationRequest) (api.JustificationResponse, error) {
	return api.JustificationResponse{}, nil
}

func (l listOnly) UpdateCourse(context.Context, string, api.CourseUpdate) (api.Course, error) {
	return api.Course{}, nil
}

func (l listOnly) GetCourse(context.Context, string) (api.Course, error) { return api.Course{}, nil }

func (l listOnly) ListCourses(context.Context) ([]api.Course, error) { return l.courses, nil }

func (l listOnly) GetStandard(context.Context, string) (ccn.Standard, error) {
	return ccn.Standard{}, nil
}

func (l listOnly) Compare(context.Context, api.CompareRequest) (ccn.Comparison, error) {
	return ccn.Comparison{}, nil
}

func TestCountStats(t *testing.T) {
	complete := map[string]string{}
	for _, q := range cbcode.Questions {
		def, _ := q.Code.Definition()
		complete[string(q.Code)] = def.Options[0].Value
	}
	set := cbcode.NewSet(map[cbcode.Code]string{})
	for k, v := range complete {
		set, _ = set.Answer(cbcode.Code(k), v)
	}
	if !cbcode.Complete(set) {
		t.Fatal("fixture should be complete")
	}

	s := countStats([]api.Course{
		{ID: "a", CCNStandardID: "PSYC C1000", CBCodes: complete},
		{ID: "b"},
	})
	if s.Courses != 2 || s.Aligned != 1 || s.Complete != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestHomeScreen_ViewShowsStats(t *testing.T) {
	h := New(wizard.Deps{Backend: listOnly{courses: []api.Course{{ID: "a"}}}})
	h.Update(h.Init()())
	if view := h.View(120, 34); !strings.Contains(view, "1 COURSES") {
		t.Errorf("view missing course count:\n%s", view)
	}
}

func TestHomeScreen_OpensCourses(t *testing.T) {
	h := New(wizard.Deps{Backend: listOnly{}})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*courses.CoursesScreen); !ok {
		t.Errorf("expected courses screen, got %T", msg.Screen)
	}
}
