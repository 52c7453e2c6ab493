package ccnclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/outlines/internal/api"
)

func server(t *testing.T, h http.HandlerFunc) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLookupMatch(t *testing.T) {
	srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/ccn/match", r.URL.Path)
		var req api.MatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Calculus I", req.Title)
		writeJSON(w, 200, api.MatchResponse{Match: &api.MatchCandidate{
			ID: "MATH C2210", Discipline: "MATH", Title: "Calculus I", MinimumUnits: 4, Confidence: 0.75,
			MatchReasons: []string{"Subject code match"}, SLORequirements: []string{}, ContentRequirements: []string{},
			UnitsSufficient: true,
		}})
	})

	c := New(srv.URL, StaticToken("tok"))
	m, err := c.LookupMatch(context.Background(), api.MatchRequest{Title: "Calculus I", Units: 4})
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "MATH C2210", m.ID)
}

func TestLookupNoMatch(t *testing.T) {
	srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"match":null,"noMatch":true}`))
	})
	m, err := New(srv.URL, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMissingTokenNeverSends(t *testing.T) {
	srv, calls := server(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	})
	c := New(srv.URL, StaticToken("  "))
	_, err := c.LookupMatch(context.Background(), api.MatchRequest{})
	assert.ErrorIs(t, err, api.ErrAuthRequired)

	_, err = New(srv.URL, nil).SubmitJustification(context.Background(), "c1", api.JustificationRequest{})
	assert.ErrorIs(t, err, api.ErrAuthRequired)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestErrorTaxonomy(t *testing.T) {
	t.Run("401 is session expired", func(t *testing.T) {
		srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 401, api.ErrorEnvelope{Error: api.ErrorBody{Message: "token expired", Code: "unauthorized"}})
		})
		_, err := New(srv.URL, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
		assert.ErrorIs(t, err, api.ErrSessionExpired)
	})

	t.Run("other status keeps code and details", func(t *testing.T) {
		srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 400, api.ErrorEnvelope{Error: api.ErrorBody{
				Message: "validation failed", Code: "validation_failed",
				Details: map[string]string{"text": "Justification must be at least 20 characters"},
			}})
		})
		_, err := New(srv.URL, StaticToken("tok")).SubmitJustification(context.Background(), "c1", api.JustificationRequest{})
		var se *api.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 400, se.Status)
		assert.Equal(t, "validation_failed", se.Code)
		assert.Contains(t, se.Details, "text")
	})

	t.Run("non-json error body", func(t *testing.T) {
		srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(503)
			_, _ = w.Write([]byte("upstream down"))
		})
		_, err := New(srv.URL, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
		var se *api.StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 503, se.Status)
		assert.Empty(t, se.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()
		_, err := New(addr, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
		var te *api.TransportError
		require.True(t, errors.As(err, &te))
		assert.NotEmpty(t, te.Err.Error())
	})

	t.Run("schema violation", func(t *testing.T) {
		srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"match":{"id":"X","confidence":7}}`))
		})
		_, err := New(srv.URL, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
		var inv *api.ErrInvalidResponse
		assert.True(t, errors.As(err, &inv))
	})
}

func TestNoAutomaticRetry(t *testing.T) {
	srv, calls := server(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	})
	_, err := New(srv.URL, StaticToken("tok")).LookupMatch(context.Background(), api.MatchRequest{})
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestUpdateCourse(t *testing.T) {
	srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/courses/c1", r.URL.Path)
		var u api.CourseUpdate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&u))
		require.NotNil(t, u.CCNStandardID)
		writeJSON(w, 200, api.Course{ID: "c1", CCNStandardID: *u.CCNStandardID, UpdatedAt: time.Now()})
	})
	std := "MATH C2210"
	course, err := New(srv.URL, StaticToken("tok")).UpdateCourse(context.Background(), "c1", api.CourseUpdate{CCNStandardID: &std})
	require.NoError(t, err)
	assert.Equal(t, "MATH C2210", course.CCNStandardID)
}

func TestSubmitJustification(t *testing.T) {
	srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses/c%201/justifications", r.URL.EscapedPath())
		writeJSON(w, 201, api.JustificationResponse{ID: "5f0c7b8e-8a5e-4a7e-9b7e-0d6c3c2f1a11", SubmittedAt: time.Now()})
	})
	resp, err := New(srv.URL, StaticToken("tok")).SubmitJustification(context.Background(), "c 1", api.JustificationRequest{
		ReasonCode: "vocational", Text: "Prepares students for the state welding exam.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
}

func TestCompareAndListCourses(t *testing.T) {
	srv, _ := server(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/ccn/compare":
			writeJSON(w, 200, map[string]any{"standardId": "MATH C2210", "unitsMatch": true, "alignmentScorePercent": 80})
		case "/api/courses":
			writeJSON(w, 200, map[string]any{"courses": []map[string]any{{"id": "math-1", "title": "Calculus I"}}})
		default:
			http.NotFound(w, r)
		}
	})

	c := New(srv.URL, StaticToken("tok"))
	cmp, err := c.Compare(context.Background(), api.CompareRequest{StandardID: "MATH C2210"})
	require.NoError(t, err)
	assert.Equal(t, 80, cmp.AlignmentScorePercent)
	assert.True(t, cmp.UnitsMatch)

	courses, err := c.ListCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Calculus I", courses[0].Title)

	_, err = c.GetStandard(context.Background(), "NOPE 1")
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Status)
}
