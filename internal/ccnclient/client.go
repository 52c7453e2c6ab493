// Package ccnclient calls the CCN match lookup, justification and course
// update endpoints over HTTP.
package ccnclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/session"
)

// DefaultTimeout bounds one request. Nothing is retried automatically;
// retry is the author's decision.
const DefaultTimeout = 15 * time.Second

// TokenSource returns the current bearer credential, or "" when signed out.
type TokenSource func() string

// StaticToken returns a TokenSource that always yields token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// Client talks to the outlines API.
type Client struct {
	baseURL string
	client  *http.Client
	token   TokenSource
}

var _ session.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a client for baseURL.
func New(baseURL string, token TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LookupMatch asks for the best standard for a course. It returns nil for an
// explicit no-match. The response is schema-checked before decoding.
func (c *Client) LookupMatch(ctx context.Context, req api.MatchRequest) (*api.MatchCandidate, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/ccn/match", req)
	if err != nil {
		return nil, err
	}
	if err := api.ValidateRaw(api.MatchResponseSchema, body); err != nil {
		return nil, err
	}
	var resp api.MatchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	if resp.NoMatch {
		return nil, nil
	}
	return resp.Match, nil
}

// SubmitJustification stores a justification for the course.
func (c *Client) SubmitJustification(ctx context.Context, courseID string, req api.JustificationRequest) (api.JustificationResponse, error) {
	var resp api.JustificationResponse
	body, err := c.do(ctx, http.MethodPost, "/api/courses/"+url.PathEscape(courseID)+"/justifications", req)
	if err != nil {
		return resp, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	return resp, nil
}

// UpdateCourse applies a partial update.
func (c *Client) UpdateCourse(ctx context.Context, courseID string, u api.CourseUpdate) (api.Course, error) {
	return c.course(ctx, http.MethodPatch, courseID, u)
}

// GetCourse fetches one course.
func (c *Client) GetCourse(ctx context.Context, courseID string) (api.Course, error) {
	return c.course(ctx, http.MethodGet, courseID, nil)
}

// Compare asks for a requirement-by-requirement comparison.
func (c *Client) Compare(ctx context.Context, req api.CompareRequest) (ccn.Comparison, error) {
	var cmp ccn.Comparison
	body, err := c.do(ctx, http.MethodPost, "/api/ccn/compare", req)
	if err != nil {
		return cmp, err
	}
	if err := json.Unmarshal(body, &cmp); err != nil {
		return cmp, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	return cmp, nil
}

// ListCourses fetches every stored course.
func (c *Client) ListCourses(ctx context.Context) ([]api.Course, error) {
	var resp struct {
		Courses []api.Course `json:"courses"`
	}
	body, err := c.do(ctx, http.MethodGet, "/api/courses", nil)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	return resp.Courses, nil
}

// GetStandard fetches one standard from the server's catalog.
func (c *Client) GetStandard(ctx context.Context, id string) (ccn.Standard, error) {
	var std ccn.Standard
	body, err := c.do(ctx, http.MethodGet, "/api/standards/"+url.PathEscape(id), nil)
	if err != nil {
		return std, err
	}
	if err := json.Unmarshal(body, &std); err != nil {
		return std, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	return std, nil
}

func (c *Client) course(ctx context.Context, method, courseID string, payload any) (api.Course, error) {
	var course api.Course
	body, err := c.do(ctx, method, "/api/courses/"+url.PathEscape(courseID), payload)
	if err != nil {
		return course, err
	}
	if err := json.Unmarshal(body, &course); err != nil {
		return course, &api.ErrInvalidResponse{Body: body, Err: err}
	}
	return course, nil
}

// do sends one authenticated request and returns the 2xx body. Without a
// credential nothing is sent.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	token := ""
	if c.token != nil {
		token = strings.TrimSpace(c.token())
	}
	if token == "" {
		return nil, api.ErrAuthRequired
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &api.TransportError{Op: method + " " + path, Err: unwrapURLError(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &api.TransportError{Op: "read " + path, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, api.ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func statusError(status int, body []byte) *api.StatusError {
	se := &api.StatusError{Status: status}
	var env api.ErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		se.Code = env.Error.Code
		se.Message = env.Error.Message
		se.Details = env.Error.Details
	}
	return se
}

// unwrapURLError drops the *url.Error wrapper so the message is the
// underlying network failure.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
