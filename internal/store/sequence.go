package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// The audit trail is ordered by a single global sequence rather than by
// per-table ids, so events stay totally ordered even when they are written
// by concurrent requests or replayed into another database. The row is
// incremented with UPDATE ... RETURNING, so allocation is atomic at the
// database level and takes part in the caller's transaction.

// seedSequence creates the counter row if it does not exist yet.
func seedSequence(ctx context.Context, q dialect.ExecQuerier, d string) error {
	query, args := entsql.Dialect(d).
		Insert(GlobalSequenceTable.Name).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := q.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}

// nextSequence returns the next sequence number and increments the counter.
func (b builder) nextSequence(ctx context.Context) (int64, error) {
	query, args := b.d.
		Update(GlobalSequenceTable.Name).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()
	rows, err := b.query(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	var next int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, fmt.Errorf("next sequence: %w", err)
		}
		return 0, fmt.Errorf("next sequence: counter row missing")
	}
	if err := rows.Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return next - 1, nil
}
