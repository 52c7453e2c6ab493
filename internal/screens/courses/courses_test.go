package courses

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screens/compare"
	"github.com/abhisek/outlines/internal/screens/wizard"
)

type fakeBackend struct {
	courses []api.Course
	lists   int
}

func (f *fakeBackend) LookupMatch(context.Context, api.MatchRequest) (*api.MatchCandidate, error) {
	return nil, nil
}

func (f *fakeBackend) SubmitJustification(context.Context, string, api.JustificationRequest) (api.JustificationResponse, error) {
	return api.JustificationResponse{}, nil
}

func (f *fakeBackend) UpdateCourse(context.Context, string, api.CourseUpdate) (api.Course, error) {
	return api.Course{}, nil
}

func (f *fakeBackend) GetCourse(context.Context, string) (api.Course, error) {
	return api.Course{}, nil
}

func (f *fakeBackend) ListCourses(context.Context) ([]api.Course, error) {
	f.lists++
	return f.courses, nil
}

func (f *fakeBackend) GetStandard(context.Context, string) (ccn.Standard, error) {
	return ccn.Standard{}, nil
}

func (f *fakeBackend) Compare(context.Context, api.CompareRequest) (ccn.Comparison, error) {
	return ccn.Comparison{}, nil
}

func newLoaded(t *testing.T) (*CoursesScreen, *fakeBackend) {
	t.Helper()
	f := &fakeBackend{courses: []api.Course{
		{ID: "weld-101", SubjectCode: "WELD", Number: "101", Title: "Welding Fundamentals"},
		{ID: "psyc-1", SubjectCode: "PSYC", Number: "1", Title: "Introduction to Psychology", CCNStandardID: "PSYC C1000"},
	}}
	s := New(wizard.Deps{Backend: f})
	s.Update(s.Init()())
	return s, f
}

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	return msg
}

func TestCoursesSortedBySubject(t *testing.T) {
	s, _ := newLoaded(t)
	if len(s.filtered) != 2 || s.filtered[0].ID != "psyc-1" {
		t.Fatalf("unexpected order %+v", s.filtered)
	}
}

func TestCoursesEnterOpensWizard(t *testing.T) {
	s, _ := newLoaded(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := pushed(t, cmd).Screen.(*wizard.WizardScreen); !ok {
		t.Error("expected wizard screen")
	}
}

func TestCoursesCompareNeedsAdoption(t *testing.T) {
	s, _ := newLoaded(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	if _, ok := pushed(t, cmd).Screen.(*compare.CompareScreen); !ok {
		t.Error("expected compare screen")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'c', Text: "c"}); cmd != nil {
		t.Error("expected no compare for a course without an adopted standard")
	}
}

func TestCoursesFilter(t *testing.T) {
	s, _ := newLoaded(t)
	s.Update(tea.KeyPressMsg{Code: '/', Text: "/"})
	if !s.HandlesBack() {
		t.Fatal("filtering should consume Esc")
	}
	for _, r := range "weld" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if len(s.filtered) != 1 || s.filtered[0].ID != "weld-101" {
		t.Fatalf("filter result %+v", s.filtered)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.HandlesBack() || len(s.filtered) != 2 {
		t.Errorf("Esc should clear the filter; filtered=%d", len(s.filtered))
	}
}

func TestCoursesReloadOnRefresh(t *testing.T) {
	s, f := newLoaded(t)
	_, cmd := s.Update(router.RefreshMsg{})
	s.Update(cmd())
	if f.lists != 2 {
		t.Errorf("lists = %d, want 2", f.lists)
	}
}
