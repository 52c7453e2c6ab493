package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/router"
	"github.com/abhisek/outlines/internal/screens/compare"
	"github.com/abhisek/outlines/internal/screens/summary"
	"github.com/abhisek/outlines/internal/session"
	wz "github.com/abhisek/outlines/internal/wizard"
)

type fakeBackend struct {
	course    api.Course
	candidate *api.MatchCandidate
	lookupErr error
	loadErr   error

	lookups        int
	updates        []api.CourseUpdate
	justifications []api.JustificationRequest
	snaps          map[string]wz.Snapshot
	discarded      []string
}

var _ session.Backend = (*fakeBackend)(nil)
var _ session.SnapshotStore = (*fakeBackend)(nil)

func (f *fakeBackend) LookupMatch(context.Context, api.MatchRequest) (*api.MatchCandidate, error) {
	f.lookups++
	return f.candidate, f.lookupErr
}

func (f *fakeBackend) SubmitJustification(_ context.Context, _ string, req api.JustificationRequest) (api.JustificationResponse, error) {
	f.justifications = append(f.justifications, req)
	return api.JustificationResponse{ID: uuid.NewString(), SubmittedAt: time.Now()}, nil
}

func (f *fakeBackend) UpdateCourse(_ context.Context, _ string, u api.CourseUpdate) (api.Course, error) {
	f.updates = append(f.updates, u)
	return f.course, nil
}

func (f *fakeBackend) GetCourse(context.Context, string) (api.Course, error) {
	return f.course, f.loadErr
}

func (f *fakeBackend) ListCourses(context.Context) ([]api.Course, error) {
	return []api.Course{f.course}, nil
}

func (f *fakeBackend) GetStandard(_ context.Context, id string) (ccn.Standard, error) {
	if f.candidate != nil && f.candidate.ID == id {
		return f.candidate.Standard(), nil
	}
	return ccn.Standard{}, &api.StatusError{Status: 404, Code: "not_found"}
}

func (f *fakeBackend) Compare(context.Context, api.CompareRequest) (ccn.Comparison, error) {
	return ccn.Comparison{}, nil
}

func (f *fakeBackend) SaveSnapshot(_ context.Context, id string, snap wz.Snapshot) error {
	if f.snaps == nil {
		f.snaps = map[string]wz.Snapshot{}
	}
	f.snaps[id] = snap
	return nil
}

func (f *fakeBackend) Snapshot(_ context.Context, id string) (*wz.Snapshot, error) {
	snap, ok := f.snaps[id]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (f *fakeBackend) DiscardSnapshot(_ context.Context, id string) error {
	delete(f.snaps, id)
	f.discarded = append(f.discarded, id)
	return nil
}

func psycCourse() api.Course {
	return api.Course{
		ID:          "psyc-1",
		SubjectCode: "PSYC",
		Number:      "1",
		Title:       "Introduction to Psychology",
		Units:       3,
		CBCodes:     map[string]string{},
	}
}

func psycCandidate(confidence float64) *api.MatchCandidate {
	return &api.MatchCandidate{
		ID:              "PSYC C1000",
		Discipline:      "PSYC",
		Title:           "Introduction to Psychology",
		MinimumUnits:    3,
		Confidence:      confidence,
		MatchReasons:    []string{"Subject code match"},
		UnitsSufficient: true,
	}
}

func newScreen(f *fakeBackend, detect bool) *WizardScreen {
	return New(Deps{Backend: f, Snapshots: f, Detection: detect}, f.course.ID)
}

// drain runs cmd and feeds the screen's own messages back into it. Router
// messages are collected and everything else is dropped.
func drain(w *WizardScreen, cmd tea.Cmd) []tea.Msg {
	var routed []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case loadedMsg, jobDoneMsg, eventMsg, snapshotSavedMsg:
			_, next := w.Update(msg)
			queue = append(queue, next)
		case router.PushScreenMsg, router.ReplaceScreenMsg, router.PopScreenMsg:
			routed = append(routed, msg)
		}
	}
	return routed
}

func press(w *WizardScreen, key tea.KeyPressMsg) []tea.Msg {
	_, cmd := w.Update(key)
	return drain(w, cmd)
}

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func typeText(w *WizardScreen, text string) {
	for _, r := range text {
		w.Update(char(r))
	}
}

func state(t *testing.T, w *WizardScreen) wz.State {
	t.Helper()
	s, ok := w.State()
	require.True(t, ok, "wizard not started")
	return s
}

// answerAll walks the questions with Enter until review.
func answerAll(t *testing.T, w *WizardScreen) {
	t.Helper()
	for i := 0; i < 40; i++ {
		if state(t, w).Phase != wz.PhaseQuestions {
			return
		}
		press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	}
	t.Fatalf("questions did not finish; phase %s", state(t, w).Phase)
}

func TestMatchFoundAndAdopt(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.9)}
	w := newScreen(f, true)
	drain(w, w.Init())

	s := state(t, w)
	require.Equal(t, wz.PhaseDetection, s.Phase)
	require.Equal(t, detection.PhaseMatchFound, s.Detection.Phase)
	assert.Equal(t, 1, f.lookups)
	assert.Contains(t, w.View(120, 40), "High Match")
	assert.False(t, w.HandlesBack())

	press(w, char('a'))
	s = state(t, w)
	assert.Equal(t, wz.PhaseQuestions, s.Phase)
	assert.Equal(t, "PSYC C1000", s.AdoptedStandardID())
	assert.True(t, s.Codes.IsLocked(cbcode.CB05))
	assert.True(t, w.HandlesBack(), "Esc returns to detection")
}

func TestPotentialMatchBadge(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.6)}
	w := newScreen(f, true)
	drain(w, w.Init())
	assert.Contains(t, w.View(120, 40), "Potential Match")
}

func TestCompareOpensScreen(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.9)}
	w := newScreen(f, true)
	drain(w, w.Init())

	routed := press(w, char('c'))
	require.Len(t, routed, 1)
	push, ok := routed[0].(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &compare.CompareScreen{}, push.Screen)
}

func TestNoMatchJustification(t *testing.T) {
	f := &fakeBackend{course: psycCourse()}
	w := newScreen(f, true)
	drain(w, w.Init())
	require.Equal(t, detection.PhaseNoMatch, state(t, w).Detection.Phase)

	press(w, char('j'))
	require.Equal(t, detection.PhaseJustification, state(t, w).Detection.Phase)
	assert.True(t, w.HandlesBack())

	// Too short first.
	press(w, char('2'))
	press(w, tea.KeyPressMsg{Code: tea.KeyTab})
	typeText(w, "short")
	press(w, ctrl('s'))
	s := state(t, w)
	require.Equal(t, detection.PhaseJustification, s.Detection.Phase)
	assert.Contains(t, s.Detection.Form.Errors, "text")
	assert.Empty(t, f.justifications)

	typeText(w, "-vocational-certificate-only")
	press(w, ctrl('s'))

	s = state(t, w)
	require.Len(t, f.justifications, 1)
	assert.Equal(t, "vocational", f.justifications[0].ReasonCode)
	assert.Equal(t, "short-vocational-certificate-only", f.justifications[0].Text)
	assert.Equal(t, wz.PhaseQuestions, s.Phase)
	require.NotNil(t, s.Justification)
	assert.Nil(t, s.AdoptedStandard)
}

func TestJustificationBack(t *testing.T) {
	f := &fakeBackend{course: psycCourse()}
	w := newScreen(f, true)
	drain(w, w.Init())
	press(w, char('j'))

	press(w, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, detection.PhaseNoMatch, state(t, w).Detection.Phase)
	assert.False(t, w.HandlesBack())
}

func TestDetectionErrorRetry(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), lookupErr: &api.StatusError{Status: 503, Message: "catalog offline"}}
	w := newScreen(f, true)
	drain(w, w.Init())

	s := state(t, w)
	require.Equal(t, detection.PhaseError, s.Detection.Phase)
	assert.Contains(t, w.View(120, 40), "catalog offline")

	f.lookupErr = nil
	f.candidate = psycCandidate(0.9)
	press(w, char('r'))
	assert.Equal(t, 2, f.lookups)
	assert.Equal(t, detection.PhaseMatchFound, state(t, w).Detection.Phase)
}

func TestSkipDetectionKeepsDecision(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), lookupErr: errors.New("boom")}
	w := newScreen(f, true)
	drain(w, w.Init())

	press(w, char('s'))
	s := state(t, w)
	assert.Equal(t, wz.PhaseQuestions, s.Phase)
	assert.Nil(t, s.AdoptedStandard)
	assert.Nil(t, s.Justification)
}

func TestQuestionsReviewAndSave(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), snaps: map[string]wz.Snapshot{}}
	w := newScreen(f, false)
	drain(w, w.Init())

	require.Equal(t, wz.PhaseQuestions, state(t, w).Phase)
	assert.False(t, w.HandlesBack(), "first question without detection leaves the screen")

	answerAll(t, w)
	require.Equal(t, wz.PhaseReview, state(t, w).Phase)
	assert.Contains(t, w.View(120, 60), "Review")

	routed := press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Len(t, f.updates, 1)
	assert.True(t, cbcode.Complete(cbcode.NewSet(codeMap(f.updates[0].CBCodes))))
	require.NotNil(t, f.updates[0].CCNStandardID)
	assert.Equal(t, "", *f.updates[0].CCNStandardID)

	require.Len(t, routed, 1)
	replace, ok := routed[0].(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &summary.SummaryScreen{}, replace.Screen)
	assert.Equal(t, []string{"psyc-1"}, f.discarded)
}

func TestLockedQuestionIgnoresInput(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.9)}
	w := newScreen(f, true)
	drain(w, w.Init())
	press(w, char('a'))

	// cb04 first, then the locked cb05.
	press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	q, ok := state(t, w).Current()
	require.True(t, ok)
	require.Equal(t, cbcode.CB05, q.Code)
	assert.True(t, w.choices.ReadOnly)

	press(w, tea.KeyPressMsg{Code: tea.KeyDown})
	press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	s := state(t, w)
	assert.Equal(t, cbcode.TransferableUCCSU, s.Codes.Value(cbcode.CB05))
	assert.Empty(t, s.Notice)
}

func TestUnadoptFromQuestions(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.9)}
	w := newScreen(f, true)
	drain(w, w.Init())
	press(w, char('a'))

	press(w, char('u'))
	s := state(t, w)
	assert.Nil(t, s.AdoptedStandard)
	assert.False(t, s.Codes.IsLocked(cbcode.CB05))
	assert.Contains(t, s.Notice, "Removed CCN alignment")
}

func TestSaveAndResumeProgress(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), snaps: map[string]wz.Snapshot{}}
	w := newScreen(f, false)
	drain(w, w.Init())
	press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(w, tea.KeyPressMsg{Code: tea.KeyEnter})
	index := state(t, w).QuestionIndex
	require.Positive(t, index)

	press(w, ctrl('s'))
	require.Contains(t, f.snaps, "psyc-1")
	assert.Contains(t, w.View(120, 40), "Progress saved")

	resumed := newScreen(f, false)
	drain(resumed, resumed.Init())
	assert.Equal(t, index, state(t, resumed).QuestionIndex)
	assert.Contains(t, resumed.View(120, 40), "Resumed saved progress")
}

func TestCloseDropsLateResults(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), candidate: psycCandidate(0.9)}
	w := newScreen(f, true)

	// Load the course but hold the lookup.
	msg := w.load()()
	_, lookup := w.Update(msg)
	require.NotNil(t, lookup)

	w.Close()
	drain(w, lookup)
	assert.Equal(t, detection.PhaseLoading, state(t, w).Detection.Phase)
}

func TestStaleControllerResultIgnored(t *testing.T) {
	f := &fakeBackend{course: psycCourse()}
	w := newScreen(f, true)
	drain(w, w.Init())
	before := state(t, w)

	other, _ := session.New(wz.Config{CourseID: "other"}, ccn.CourseProfile{}, f, nil)
	w.Update(jobDoneMsg{ctrl: other, event: wz.DetectionEvent{Event: detection.FetchFailed{Err: errors.New("late")}}})
	assert.Equal(t, before.Detection.Phase, state(t, w).Detection.Phase)
}

func TestLoadError(t *testing.T) {
	f := &fakeBackend{course: psycCourse(), loadErr: &api.StatusError{Status: 404, Code: "not_found", Message: "course not found"}}
	w := newScreen(f, true)
	drain(w, w.Init())

	_, ok := w.State()
	assert.False(t, ok)
	assert.True(t, strings.Contains(w.View(120, 40), "Could not load course"))
	assert.False(t, w.HandlesBack())
}

func codeMap(m map[string]string) map[cbcode.Code]string {
	out := make(map[cbcode.Code]string, len(m))
	for k, v := range m {
		out[cbcode.Code(k)] = v
	}
	return out
}
