// Package service implements the collaborator operations behind the HTTP
// API and the in-process wizard: match lookup, comparison, justification
// submission and partial course updates, each recorded in the audit trail.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/outlines/internal/catalog"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/logger"
	"github.com/abhisek/outlines/internal/store"
	"github.com/abhisek/outlines/internal/wizard"
)

// Service is safe for concurrent use.
type Service struct {
	store   *store.Store
	catalog *catalog.Catalog
	scorer  *ccn.Scorer
	bounds  justification.Bounds
	log     *logger.Logger
	now     func() time.Time
}

// Options configures a Service.
type Options struct {
	Policy ccn.Policy
	Bounds justification.Bounds
	Logger *logger.Logger
}

// New creates a Service over a store and a standards catalog.
func New(st *store.Store, cat *catalog.Catalog, opts Options) *Service {
	if opts.Bounds == (justification.Bounds{}) {
		opts.Bounds = justification.DefaultBounds()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Service{
		store:   st,
		catalog: cat,
		scorer:  ccn.NewScorer(opts.Policy, ccn.DefaultWeights()),
		bounds:  opts.Bounds,
		log:     opts.Logger.With("component", "service"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Policy returns the match threshold policy.
func (s *Service) Policy() ccn.Policy {
	return s.scorer.Policy()
}

// Bounds returns the justification length bounds.
func (s *Service) Bounds() justification.Bounds {
	return s.bounds
}

// Catalog returns the standards catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Standard looks up a standard by id.
func (s *Service) Standard(id string) (ccn.Standard, error) {
	std, ok := s.catalog.Lookup(id)
	if !ok {
		return ccn.Standard{}, fmt.Errorf("%s: %w", id, ErrStandardNotFound)
	}
	return std, nil
}

// Course returns a stored course.
func (s *Service) Course(ctx context.Context, id string) (*store.Course, error) {
	return s.store.Courses().Get(ctx, id)
}

// Courses lists stored courses.
func (s *Service) Courses(ctx context.Context) ([]store.Course, error) {
	return s.store.Courses().List(ctx)
}

// Justifications lists a course's justifications, oldest first.
func (s *Service) Justifications(ctx context.Context, courseID string) ([]justification.Justification, error) {
	return s.store.Justifications().ListByCourse(ctx, courseID)
}

// Audit queries the audit trail.
func (s *Service) Audit(ctx context.Context, opts store.QueryOpts) ([]store.AuditEvent, error) {
	return s.store.Audit().Query(ctx, opts)
}

// SaveSnapshot stores an in-progress wizard for later resumption.
func (s *Service) SaveSnapshot(ctx context.Context, courseID string, snap wizard.Snapshot) error {
	return s.store.Snapshots().Save(ctx, courseID, snap, s.now())
}

// Snapshot returns the saved wizard for a course, or nil.
func (s *Service) Snapshot(ctx context.Context, courseID string) (*wizard.Snapshot, error) {
	return s.store.Snapshots().Latest(ctx, courseID)
}

// DiscardSnapshot removes a saved wizard.
func (s *Service) DiscardSnapshot(ctx context.Context, courseID string) error {
	return s.store.Snapshots().Delete(ctx, courseID)
}
