package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/wizard"
)

type fakeCollab struct {
	match     *api.MatchCandidate
	lookupErr error
	updateErr error

	lookups        []api.MatchRequest
	justifications []api.JustificationRequest
	updates        []api.CourseUpdate
}

func (f *fakeCollab) LookupMatch(_ context.Context, req api.MatchRequest) (*api.MatchCandidate, error) {
	f.lookups = append(f.lookups, req)
	return f.match, f.lookupErr
}

func (f *fakeCollab) SubmitJustification(_ context.Context, _ string, req api.JustificationRequest) (api.JustificationResponse, error) {
	f.justifications = append(f.justifications, req)
	return api.JustificationResponse{ID: uuid.NewString(), SubmittedAt: time.Now()}, nil
}

func (f *fakeCollab) UpdateCourse(_ context.Context, id string, u api.CourseUpdate) (api.Course, error) {
	f.updates = append(f.updates, u)
	return api.Course{ID: id}, f.updateErr
}

func profile() ccn.CourseProfile {
	p := ccn.CourseProfile{SubjectCode: "MATH", Title: "Calculus I", Units: 4}
	p.AddOutcome("Apply limits to evaluate functions")
	return p
}

func cfg() wizard.Config {
	return wizard.Config{
		CourseID:         "course-1",
		SubjectCode:      "MATH",
		Codes:            cbcode.NewSet(nil),
		DetectionEnabled: true,
		Policy:           ccn.DefaultPolicy(),
		Bounds:           justification.DefaultBounds(),
	}
}

func run(t *testing.T, c *Controller, jobs []Job) {
	t.Helper()
	c.Drain(context.Background(), jobs)
}

func TestLookupSendsProfile(t *testing.T) {
	f := &fakeCollab{match: &api.MatchCandidate{ID: "MATH C2210", Discipline: "MATH", MinimumUnits: 4, Confidence: 0.75}}
	c, jobs := New(cfg(), profile(), f, nil)
	require.Len(t, jobs, 1)
	run(t, c, jobs)

	require.Len(t, f.lookups, 1)
	assert.Equal(t, "Calculus I", f.lookups[0].Title)
	assert.Equal(t, []string{"Apply limits to evaluate functions"}, f.lookups[0].Outcomes)
	assert.Equal(t, detection.PhaseMatchFound, c.State().Detection.Phase)
	assert.Equal(t, ccn.AlignmentAligned, c.State().Detection.Match.Alignment)
}

func TestLowConfidenceCandidateIsNoMatch(t *testing.T) {
	f := &fakeCollab{match: &api.MatchCandidate{ID: "MATH C2210", MinimumUnits: 5, Confidence: 0.45}}
	c, jobs := New(cfg(), profile(), f, nil)
	run(t, c, jobs)
	assert.Equal(t, detection.PhaseNoMatch, c.State().Detection.Phase)
}

func TestJustificationSubmittedOnce(t *testing.T) {
	text := "Prepares students for the state welding exam."
	f := &fakeCollab{}
	c, jobs := New(cfg(), profile(), f, nil)
	run(t, c, jobs)

	for _, ev := range []detection.Event{
		detection.OpenJustification{},
		detection.SetReason{Reason: justification.ReasonVocational},
		detection.SetText{Text: text + "  "},
	} {
		assert.Empty(t, c.Dispatch(wizard.DetectionEvent{Event: ev}))
	}
	jobs = c.Dispatch(wizard.DetectionEvent{Event: detection.Submit{}})
	require.Len(t, jobs, 1)
	// A second submit while pending produces no job.
	assert.Empty(t, c.Dispatch(wizard.DetectionEvent{Event: detection.Submit{}}))
	run(t, c, jobs)

	require.Len(t, f.justifications, 1)
	assert.Equal(t, api.JustificationRequest{CourseID: "course-1", ReasonCode: "vocational", Text: text}, f.justifications[0])
	st := c.State()
	assert.Equal(t, wizard.PhaseQuestions, st.Phase)
	require.NotNil(t, st.Justification)
	assert.Equal(t, text, st.Justification.Text)
}

func TestCloseDiscardsLateResults(t *testing.T) {
	f := &fakeCollab{lookupErr: api.ErrSessionExpired}
	c, jobs := New(cfg(), profile(), f, nil)
	require.Len(t, jobs, 1)

	c.Close()
	ev := jobs[0](context.Background())
	assert.Empty(t, c.Deliver(ev))
	assert.Equal(t, detection.PhaseLoading, c.State().Detection.Phase)
	assert.True(t, c.Closed())
}

func TestSaveUpdatesCourse(t *testing.T) {
	f := &fakeCollab{match: &api.MatchCandidate{ID: "MATH C2210", Discipline: "MATH", MinimumUnits: 4, Confidence: 0.9}}
	c, jobs := New(cfg(), profile(), f, nil)
	run(t, c, jobs)
	c.Dispatch(wizard.DetectionEvent{Event: detection.Adopt{}})

	for i := 0; c.State().Phase == wizard.PhaseQuestions; i++ {
		require.Less(t, i, 50)
		st := c.State()
		q, _ := st.Current()
		if !st.Answered(q) {
			def, _ := q.Code.Definition()
			c.Dispatch(wizard.Answer{Code: q.Code, Value: def.Options[0].Value})
		}
		c.Dispatch(wizard.Next{})
	}
	require.Equal(t, wizard.PhaseReview, c.State().Phase)

	f.updateErr = errors.New("database is locked")
	run(t, c, c.Dispatch(wizard.Confirm{}))
	assert.Equal(t, wizard.PhaseReview, c.State().Phase)
	assert.Equal(t, "database is locked", c.State().SaveErr)

	f.updateErr = nil
	run(t, c, c.Dispatch(wizard.Confirm{}))
	assert.Equal(t, wizard.PhaseComplete, c.State().Phase)

	require.Len(t, f.updates, 2)
	u := f.updates[1]
	require.NotNil(t, u.CCNStandardID)
	assert.Equal(t, "MATH C2210", *u.CCNStandardID)
	assert.Equal(t, "1701.00", u.CBCodes["cb03"])
	assert.ElementsMatch(t, []string{"cb03", "cb05"}, *u.LockedCodes)
}

func TestConfigForCourse(t *testing.T) {
	std := &ccn.Standard{ID: "MATH C2210"}
	course := api.Course{
		ID: "c1", SubjectCode: "MATH",
		CBCodes:     map[string]string{"cb05": "A", "cb04": "D"},
		LockedCodes: []string{"cb05"},
	}
	wc := ConfigForCourse(course, std, true, ccn.DefaultPolicy(), justification.DefaultBounds())
	assert.True(t, wc.Codes.IsLocked(cbcode.CB05))
	assert.False(t, wc.Codes.IsLocked(cbcode.CB04))
	assert.Equal(t, std, wc.AdoptedStandard)
}
