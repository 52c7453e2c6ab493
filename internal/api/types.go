// Package api holds the JSON contracts shared by the HTTP server and its
// client: match lookup, justification submission and course update.
package api

import (
	"strings"
	"time"

	"github.com/abhisek/outlines/internal/ccn"
)

// MatchRequest asks for the best standard for a course. Outcomes and topics
// are optional; without them the server can only score subject, title and
// units.
type MatchRequest struct {
	CourseID    string   `json:"courseId,omitempty"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description,omitempty"`
	SubjectCode string   `json:"subjectCode"`
	Units       float64  `json:"units" binding:"gt=0"`
	Outcomes    []string `json:"outcomes,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// NewMatchRequest builds a request from a course profile.
func NewMatchRequest(courseID string, p ccn.CourseProfile) MatchRequest {
	req := MatchRequest{
		CourseID:    courseID,
		Title:       p.Title,
		Description: p.Description,
		SubjectCode: p.SubjectCode,
		Units:       p.Units,
	}
	for _, o := range p.Outcomes {
		req.Outcomes = append(req.Outcomes, o.Text)
	}
	for _, t := range p.Topics {
		req.Topics = append(req.Topics, t.Title)
	}
	return req
}

// Profile converts the request back into a course profile.
func (r MatchRequest) Profile() ccn.CourseProfile {
	p := ccn.CourseProfile{
		SubjectCode: strings.TrimSpace(r.SubjectCode),
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Units:       r.Units,
	}
	for _, o := range r.Outcomes {
		p.AddOutcome(o)
	}
	for _, t := range r.Topics {
		p.AddTopic(t, nil)
	}
	return p
}

// MatchCandidate is the best match as sent over the wire.
type MatchCandidate struct {
	ID                  string   `json:"id"`
	Discipline          string   `json:"discipline"`
	Title               string   `json:"title"`
	Descriptor          string   `json:"descriptor,omitempty"`
	MinimumUnits        float64  `json:"minimumUnits"`
	Confidence          float64  `json:"confidence"`
	MatchReasons        []string `json:"matchReasons"`
	SLORequirements     []string `json:"sloRequirements"`
	ContentRequirements []string `json:"contentRequirements"`
	UnitsSufficient     bool     `json:"unitsSufficient"`
}

// CandidateFromResult converts a scorer result for the wire.
func CandidateFromResult(r ccn.MatchResult) MatchCandidate {
	return MatchCandidate{
		ID:                  r.Standard.ID,
		Discipline:          r.Standard.Discipline,
		Title:               r.Standard.Title,
		Descriptor:          r.Standard.Descriptor,
		MinimumUnits:        r.Standard.MinimumUnits,
		Confidence:          r.Confidence,
		MatchReasons:        nonNil(r.Reasons),
		SLORequirements:     nonNil(r.Standard.SLORequirements),
		ContentRequirements: nonNil(r.Standard.ContentRequirements),
		UnitsSufficient:     r.UnitsSufficient,
	}
}

// Standard returns the standard the candidate describes.
func (m MatchCandidate) Standard() ccn.Standard {
	return ccn.Standard{
		ID:                  m.ID,
		Discipline:          m.Discipline,
		Title:               m.Title,
		Descriptor:          m.Descriptor,
		MinimumUnits:        m.MinimumUnits,
		SLORequirements:     m.SLORequirements,
		ContentRequirements: m.ContentRequirements,
	}
}

// Result rebuilds a match result, classifying it with policy.
func (m MatchCandidate) Result(policy ccn.Policy) ccn.MatchResult {
	return ccn.MatchResult{
		Standard:        m.Standard(),
		Confidence:      m.Confidence,
		Reasons:         m.MatchReasons,
		UnitsSufficient: m.UnitsSufficient,
		Alignment:       policy.Classify(m.Confidence),
	}
}

// MatchResponse carries either a match or an explicit no-match marker.
type MatchResponse struct {
	Match   *MatchCandidate `json:"match"`
	NoMatch bool            `json:"noMatch,omitempty"`
}

// CompareRequest asks for a requirement-by-requirement comparison.
type CompareRequest struct {
	StandardID string       `json:"standardId" binding:"required"`
	Course     MatchRequest `json:"course" binding:"-"`
}

// JustificationRequest submits a non-match justification.
type JustificationRequest struct {
	CourseID   string `json:"courseId,omitempty"`
	ReasonCode string `json:"reasonCode"`
	Text       string `json:"text"`
}

// JustificationResponse acknowledges a submission.
type JustificationResponse struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// CourseUpdate is a partial update of named course fields. Nil fields are
// left unchanged. An empty CCNStandardID clears the adoption.
type CourseUpdate struct {
	CBCodes       map[string]string `json:"cbCodes,omitempty"`
	LockedCodes   *[]string         `json:"lockedCodes,omitempty"`
	CCNStandardID *string           `json:"ccnStandardId,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u CourseUpdate) Empty() bool {
	return u.CBCodes == nil && u.LockedCodes == nil && u.CCNStandardID == nil
}

// Course is a course record as served by the API.
type Course struct {
	ID            string            `json:"id"`
	SubjectCode   string            `json:"subjectCode"`
	Number        string            `json:"number"`
	Title         string            `json:"title"`
	Description   string            `json:"description,omitempty"`
	Units         float64           `json:"units"`
	Outcomes      []ccn.Outcome     `json:"outcomes"`
	Topics        []ccn.Topic       `json:"topics"`
	CBCodes       map[string]string `json:"cbCodes"`
	LockedCodes   []string          `json:"lockedCodes"`
	CCNStandardID string            `json:"ccnStandardId,omitempty"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Profile returns the matching-relevant view of the course.
func (c Course) Profile() ccn.CourseProfile {
	return ccn.CourseProfile{
		SubjectCode: c.SubjectCode,
		Title:       c.Title,
		Description: c.Description,
		Units:       c.Units,
		Outcomes:    c.Outcomes,
		Topics:      c.Topics,
	}
}

// ErrorBody is the error payload of every non-2xx response.
type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorEnvelope wraps ErrorBody as {"error": {...}}.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
