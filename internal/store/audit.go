package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var auditColumns = []string{"sequence", "course_id", "kind", "actor", "detail", "created_at"}

// auditRepo implements AuditRepo.
type auditRepo struct {
	builder
}

func (r *auditRepo) Append(ctx context.Context, ev *AuditEvent) error {
	seq, err := r.nextSequence(ctx)
	if err != nil {
		return err
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	var detail any
	if len(ev.Detail) > 0 {
		b, err := json.Marshal(ev.Detail)
		if err != nil {
			return fmt.Errorf("marshal audit detail: %w", err)
		}
		detail = string(b)
	}

	query, args := r.d.Insert(AuditEventsTable.Name).
		Columns(auditColumns...).
		Values(seq, ev.CourseID, ev.Kind, ev.Actor, detail, ev.CreatedAt.UTC()).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	ev.Sequence = seq
	return nil
}

func (r *auditRepo) Query(ctx context.Context, opts QueryOpts) ([]AuditEvent, error) {
	sel := r.d.Select(auditColumns...).
		From(entsql.Table(AuditEventsTable.Name)).
		Where(entsql.GT("sequence", opts.After)).
		OrderBy("sequence")
	if opts.CourseID != "" {
		sel.Where(entsql.EQ("course_id", opts.CourseID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var out []AuditEvent
	for rows.Next() {
		var (
			ev     AuditEvent
			detail []byte
		)
		if err := rows.Scan(&ev.Sequence, &ev.CourseID, &ev.Kind, &ev.Actor, &detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &ev.Detail); err != nil {
				return nil, fmt.Errorf("decode audit detail %d: %w", ev.Sequence, err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
