package compare

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
)

type fakeComparer struct {
	req api.CompareRequest
	cmp ccn.Comparison
	err error
}

func (f *fakeComparer) Compare(_ context.Context, req api.CompareRequest) (ccn.Comparison, error) {
	f.req = req
	return f.cmp, f.err
}

func testCourse() api.Course {
	return api.Course{ID: "psyc-1", SubjectCode: "PSYC", Number: "1", Title: "Introduction to Psychology", Units: 3}
}

func TestCompareScreen_Loads(t *testing.T) {
	f := &fakeComparer{cmp: ccn.Comparison{
		StandardID:            "PSYC C1000",
		SLOMatches:            []ccn.RequirementMatch{{Requirement: "Explain major perspectives", Matched: true}},
		ContentMatches:        []ccn.RequirementMatch{{Requirement: "Research methods"}},
		ExtraContent:          []string{"Sports psychology"},
		UnitsMatch:            true,
		AlignmentScorePercent: 67,
	}}
	s := New(f, "PSYC C1000", testCourse())
	s.Update(s.Init()())

	if f.req.StandardID != "PSYC C1000" || f.req.Course.CourseID != "psyc-1" {
		t.Fatalf("unexpected request %+v", f.req)
	}
	view := s.View(120, 40)
	for _, want := range []string{"✓ Explain major perspectives", "✗ Research methods", "+ Sports psychology", "67%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCompareScreen_Error(t *testing.T) {
	s := New(&fakeComparer{err: errors.New("standard not found")}, "NOPE", testCourse())
	s.Update(s.Init()())
	if view := s.View(120, 40); !strings.Contains(view, "Comparison failed") {
		t.Errorf("expected error view, got:\n%s", view)
	}
}

func TestCompareScreen_Scroll(t *testing.T) {
	var slos []ccn.RequirementMatch
	for i := 0; i < 40; i++ {
		slos = append(slos, ccn.RequirementMatch{Requirement: "requirement"})
	}
	s := New(&fakeComparer{cmp: ccn.Comparison{StandardID: "X", SLOMatches: slos}}, "X", testCourse())
	s.Update(s.Init()())
	s.View(100, 20)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.scroll != 1 {
		t.Errorf("scroll = %d, want 1", s.scroll)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.scroll != 0 {
		t.Errorf("scroll = %d, want 0", s.scroll)
	}
}

func TestCompareScreen_CloseCancels(t *testing.T) {
	s := New(&fakeComparer{}, "X", testCourse())
	s.Close()
	if s.ctx.Err() == nil {
		t.Error("expected context cancelled after Close")
	}
}
