package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/outlines/internal/justification"
)

var justificationColumns = []string{"id", "course_id", "reason_code", "text", "submitted_at"}

// justificationRepo implements JustificationRepo. It only ever inserts.
type justificationRepo struct {
	builder
}

func (r *justificationRepo) Append(ctx context.Context, j justification.Justification) error {
	query, args := r.d.Insert(JustificationsTable.Name).
		Columns(justificationColumns...).
		Values(j.ID, j.CourseID, string(j.ReasonCode), j.Text, j.SubmittedAt.UTC()).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("append justification: %w", err)
	}
	return nil
}

func (r *justificationRepo) Get(ctx context.Context, id uuid.UUID) (*justification.Justification, error) {
	list, err := r.list(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("justification %s: %w", id, ErrNotFound)
	}
	return &list[0], nil
}

// ListByCourse returns a course's justifications, oldest first. The last
// one is the course's current justification.
func (r *justificationRepo) ListByCourse(ctx context.Context, courseID string) ([]justification.Justification, error) {
	return r.list(ctx, entsql.EQ("course_id", courseID))
}

func (r *justificationRepo) list(ctx context.Context, where *entsql.Predicate) ([]justification.Justification, error) {
	query, args := r.d.Select(justificationColumns...).
		From(entsql.Table(JustificationsTable.Name)).
		Where(where).
		OrderBy("submitted_at", "id").
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query justifications: %w", err)
	}
	defer rows.Close()

	var out []justification.Justification
	for rows.Next() {
		var (
			j      justification.Justification
			reason string
		)
		if err := rows.Scan(&j.ID, &j.CourseID, &reason, &j.Text, &j.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan justification: %w", err)
		}
		j.ReasonCode = justification.ReasonCode(reason)
		j.SubmittedAt = j.SubmittedAt.UTC()
		out = append(out, j)
	}
	return out, rows.Err()
}
