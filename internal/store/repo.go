package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/wizard"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Course is a stored course outline with its compliance fields.
type Course struct {
	ID          string
	SubjectCode string
	Number      string
	Title       string
	Description string
	Units       float64
	Outcomes    []ccn.Outcome
	Topics      []ccn.Topic

	// Codes holds the CB code answers and which of them are locked by an
	// adopted standard.
	Codes cbcode.Set

	// CCNStandardID is the adopted standard, empty when none.
	CCNStandardID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile returns the part of the course that matching reads.
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

// CourseChanges names the compliance fields to update. Nil fields are left
// untouched; an empty StandardID clears the adoption.
type CourseChanges struct {
	Codes      *cbcode.Set
	StandardID *string
}

// Empty reports whether the change names no field.
func (c CourseChanges) Empty() bool {
	return c.Codes == nil && c.StandardID == nil
}

// Audit event kinds.
const (
	KindCourseImported         = "course.imported"
	KindCodesUpdated           = "cbcodes.updated"
	KindStandardAdopted        = "ccn.adopted"
	KindStandardCleared        = "ccn.cleared"
	KindJustificationSubmitted = "justification.submitted"
)

// AuditEvent is one append-only entry of the compliance trail.
type AuditEvent struct {
	Sequence  int64             `json:"sequence"`
	CourseID  string            `json:"courseId"`
	Kind      string            `json:"kind"`
	Actor     string            `json:"actor"`
	Detail    map[string]string `json:"detail,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// QueryOpts configures audit queries with filtering and pagination.
type QueryOpts struct {
	CourseID string // only events for this course ("" = all)
	Limit    int    // max results (0 = unlimited)
	After    int64  // sequence > After
}

// CourseRepo stores course outlines.
type CourseRepo interface {
	// Put inserts or replaces a course with its outcomes and topics.
	Put(ctx context.Context, c *Course) error

	// Get returns the course with id or ErrNotFound.
	Get(ctx context.Context, id string) (*Course, error)

	// List returns all courses ordered by id, without outcomes and topics.
	List(ctx context.Context) ([]Course, error)

	// Update applies changes and returns the updated course.
	Update(ctx context.Context, id string, changes CourseChanges, now time.Time) (*Course, error)
}

// JustificationRepo stores non-match justifications. Records are never
// modified; resubmitting appends a new one.
type JustificationRepo interface {
	Append(ctx context.Context, j justification.Justification) error
	Get(ctx context.Context, id uuid.UUID) (*justification.Justification, error)
	ListByCourse(ctx context.Context, courseID string) ([]justification.Justification, error)
}

// AuditRepo appends to and reads the audit trail.
type AuditRepo interface {
	// Append assigns the next global sequence number to ev and stores it.
	Append(ctx context.Context, ev *AuditEvent) error
	Query(ctx context.Context, opts QueryOpts) ([]AuditEvent, error)
}

// SnapshotRepo keeps at most one in-progress wizard snapshot per course.
type SnapshotRepo interface {
	Save(ctx context.Context, courseID string, snap wizard.Snapshot, now time.Time) error

	// Latest returns the saved snapshot, or nil if there is none.
	Latest(ctx context.Context, courseID string) (*wizard.Snapshot, error)

	Delete(ctx context.Context, courseID string) error
}

// Repos groups the repositories bound to one connection or transaction.
type Repos struct {
	Courses        CourseRepo
	Justifications JustificationRepo
	Audit          AuditRepo
	Snapshots      SnapshotRepo
}
