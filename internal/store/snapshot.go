package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/outlines/internal/wizard"
)

// snapshotRepo implements SnapshotRepo. Saving replaces the course's
// previous snapshot.
type snapshotRepo struct {
	builder
}

func (r *snapshotRepo) Save(ctx context.Context, courseID string, snap wizard.Snapshot, now time.Time) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	query, args := r.d.Insert(WizardSnapshotsTable.Name).
		Columns("course_id", "data", "saved_at").
		Values(courseID, string(data), now.UTC()).
		OnConflict(entsql.ConflictColumns("course_id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, courseID string) (*wizard.Snapshot, error) {
	query, args := r.d.Select("data").
		From(entsql.Table(WizardSnapshotsTable.Name)).
		Where(entsql.EQ("course_id", courseID)).
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	var snap wizard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Delete(ctx context.Context, courseID string) error {
	query, args := r.d.Delete(WizardSnapshotsTable.Name).
		Where(entsql.EQ("course_id", courseID)).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
