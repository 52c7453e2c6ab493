package session

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/detection"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/logger"
	"github.com/abhisek/outlines/internal/wizard"
)

// MatchLookup finds the best standard for a course. A nil candidate with a
// nil error means no match.
type MatchLookup interface {
	LookupMatch(ctx context.Context, req api.MatchRequest) (*api.MatchCandidate, error)
}

// JustificationSubmitter stores a non-match justification.
type JustificationSubmitter interface {
	SubmitJustification(ctx context.Context, courseID string, req api.JustificationRequest) (api.JustificationResponse, error)
}

// CourseUpdater applies a partial course update.
type CourseUpdater interface {
	UpdateCourse(ctx context.Context, courseID string, u api.CourseUpdate) (api.Course, error)
}

// Collaborators is everything a wizard session calls out to.
type Collaborators interface {
	MatchLookup
	JustificationSubmitter
	CourseUpdater
}

// Backend is what the terminal UI reads and writes through, either the
// HTTP client or the in-process service.
type Backend interface {
	Collaborators
	GetCourse(ctx context.Context, courseID string) (api.Course, error)
	ListCourses(ctx context.Context) ([]api.Course, error)
	GetStandard(ctx context.Context, id string) (ccn.Standard, error)
	Compare(ctx context.Context, req api.CompareRequest) (ccn.Comparison, error)
}

// SnapshotStore keeps in-progress wizards for later resumption.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, courseID string, snap wizard.Snapshot) error
	Snapshot(ctx context.Context, courseID string) (*wizard.Snapshot, error)
	DiscardSnapshot(ctx context.Context, courseID string) error
}

// Job is one pending network call. It returns the event to deliver when it
// finishes.
type Job func(ctx context.Context) wizard.Event

// Controller owns the wizard state of one editing session and turns its
// effects into jobs. It is driven from a single goroutine; only jobs run
// elsewhere, and their results come back through Deliver.
type Controller struct {
	ID      uuid.UUID
	state   wizard.State
	profile ccn.CourseProfile
	collab  Collaborators
	policy  ccn.Policy
	log     *logger.Logger
	closed  atomic.Bool
}

// New starts a wizard for the course and returns the initial jobs.
func New(cfg wizard.Config, profile ccn.CourseProfile, collab Collaborators, log *logger.Logger) (*Controller, []Job) {
	c := newController(cfg, profile, collab, log)
	state, effects := wizard.New(cfg)
	c.state = state
	return c, c.jobs(effects)
}

// Resume rebuilds a controller from a saved snapshot.
func Resume(snap wizard.Snapshot, cfg wizard.Config, profile ccn.CourseProfile, collab Collaborators, log *logger.Logger) (*Controller, []Job) {
	c := newController(cfg, profile, collab, log)
	state, effects := wizard.Restore(snap, cfg)
	c.state = state
	return c, c.jobs(effects)
}

func newController(cfg wizard.Config, profile ccn.CourseProfile, collab Collaborators, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		ID:      uuid.New(),
		profile: profile,
		collab:  collab,
		policy:  cfg.Policy,
	}
	c.log = log.With("session_id", c.ID.String(), "course_id", cfg.CourseID)
	return c
}

// State returns the current wizard state.
func (c *Controller) State() wizard.State {
	return c.state
}

// Profile returns the course profile being matched.
func (c *Controller) Profile() ccn.CourseProfile {
	return c.profile
}

// Dispatch applies an author action.
func (c *Controller) Dispatch(ev wizard.Event) []Job {
	if c.closed.Load() {
		return nil
	}
	return c.apply(ev)
}

// Deliver applies a job result. Results arriving after Close are dropped so
// a torn-down session is never mutated.
func (c *Controller) Deliver(ev wizard.Event) []Job {
	if c.closed.Load() {
		c.log.Debug("dropping result after close", "event", fmt.Sprintf("%T", ev))
		return nil
	}
	return c.apply(ev)
}

// Close detaches the controller from pending jobs.
func (c *Controller) Close() {
	c.closed.Store(true)
}

// Closed reports whether Close was called.
func (c *Controller) Closed() bool {
	return c.closed.Load()
}

// Drain runs jobs to completion on the calling goroutine, delivering each
// result and following any jobs it produces. Non-interactive callers use it
// in place of an event loop.
func (c *Controller) Drain(ctx context.Context, jobs []Job) {
	for len(jobs) > 0 {
		job := jobs[0]
		jobs = append(jobs[1:], c.Deliver(job(ctx))...)
	}
}

func (c *Controller) apply(ev wizard.Event) []Job {
	before := c.state
	next, effects := wizard.Transition(c.state, ev)
	c.state = next
	c.logDecision(before, next)
	return c.jobs(effects)
}

func (c *Controller) logDecision(before, after wizard.State) {
	if before.AdoptedStandardID() != after.AdoptedStandardID() {
		if id := after.AdoptedStandardID(); id != "" {
			c.log.Info("standard adopted", "standard_id", id, "locked", after.Codes.Locked())
		} else {
			c.log.Info("standard unadopted", "standard_id", before.AdoptedStandardID())
		}
	}
	if after.Justification != nil && before.Justification != after.Justification {
		c.log.Info("justification recorded", "justification_id", after.Justification.ID.String(),
			"reason_code", after.Justification.ReasonCode)
	}
	if before.Phase != after.Phase {
		c.log.Debug("wizard phase", "from", before.Phase, "to", after.Phase)
	}
}

func (c *Controller) jobs(effects []wizard.Effect) []Job {
	var out []Job
	for _, e := range effects {
		switch e := e.(type) {
		case wizard.RunDetection:
			switch de := e.Effect.(type) {
			case detection.FetchMatch:
				out = append(out, c.fetchMatch(de))
			case detection.SubmitJustification:
				out = append(out, c.submitJustification(de))
			}
		case wizard.PersistCourse:
			out = append(out, c.persist(e))
		}
	}
	return out
}

func (c *Controller) fetchMatch(e detection.FetchMatch) Job {
	req := api.NewMatchRequest(e.CourseID, c.profile)
	policy := c.policy
	return func(ctx context.Context) wizard.Event {
		cand, err := c.collab.LookupMatch(ctx, req)
		if err != nil {
			return wizard.DetectionEvent{Event: detection.FetchFailed{Err: err}}
		}
		if cand == nil {
			return wizard.DetectionEvent{Event: detection.MatchFetched{}}
		}
		r := cand.Result(policy)
		return wizard.DetectionEvent{Event: detection.MatchFetched{Result: &r}}
	}
}

func (c *Controller) submitJustification(e detection.SubmitJustification) Job {
	req := api.JustificationRequest{
		CourseID:   e.CourseID,
		ReasonCode: string(e.Draft.ReasonCode),
		Text:       e.Draft.Text,
	}
	return func(ctx context.Context) wizard.Event {
		resp, err := c.collab.SubmitJustification(ctx, e.CourseID, req)
		if err != nil {
			return wizard.DetectionEvent{Event: detection.SubmitFailed{Err: err}}
		}
		id, err := uuid.Parse(resp.ID)
		if err != nil {
			return wizard.DetectionEvent{Event: detection.SubmitFailed{Err: fmt.Errorf("parse justification id: %w", err)}}
		}
		return wizard.DetectionEvent{Event: detection.SubmitSucceeded{Justification: justification.Justification{
			ID:          id,
			CourseID:    e.CourseID,
			ReasonCode:  e.Draft.ReasonCode,
			Text:        e.Draft.Text,
			SubmittedAt: resp.SubmittedAt,
		}}}
	}
}

func (c *Controller) persist(e wizard.PersistCourse) Job {
	update := CourseUpdate(e)
	return func(ctx context.Context) wizard.Event {
		if _, err := c.collab.UpdateCourse(ctx, e.CourseID, update); err != nil {
			return wizard.SaveFailed{Err: err}
		}
		return wizard.Saved{}
	}
}

// CourseUpdate converts a persist effect into the partial update contract.
func CourseUpdate(e wizard.PersistCourse) api.CourseUpdate {
	codes := make(map[string]string, len(e.Codes))
	for c, v := range e.Codes {
		codes[string(c)] = v
	}
	locked := make([]string, len(e.Locked))
	for i, c := range e.Locked {
		locked[i] = string(c)
	}
	std := e.StandardID
	return api.CourseUpdate{
		CBCodes:       codes,
		LockedCodes:   &locked,
		CCNStandardID: &std,
	}
}

// ConfigForCourse builds a wizard config from a course record.
func ConfigForCourse(course api.Course, std *ccn.Standard, detect bool, policy ccn.Policy, bounds justification.Bounds) wizard.Config {
	values := make(map[cbcode.Code]string, len(course.CBCodes))
	for k, v := range course.CBCodes {
		values[cbcode.Code(k)] = v
	}
	locked := make([]cbcode.Code, len(course.LockedCodes))
	for i, k := range course.LockedCodes {
		locked[i] = cbcode.Code(k)
	}
	return wizard.Config{
		CourseID:         course.ID,
		SubjectCode:      course.SubjectCode,
		Codes:            cbcode.NewSet(values).WithLockedCodes(locked),
		AdoptedStandard:  std,
		DetectionEnabled: detect,
		Policy:           policy,
		Bounds:           bounds,
	}
}
