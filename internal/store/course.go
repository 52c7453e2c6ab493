package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/outlines/internal/ccn"
)

var courseColumns = []string{
	"id", "subject_code", "number", "title", "description", "units",
	"cb_codes", "ccn_standard_id", "created_at", "updated_at",
}

// courseRepo implements CourseRepo with ent's SQL builder.
type courseRepo struct {
	builder
}

// Put inserts or replaces c. Outcomes and topics are replaced wholesale and
// renumbered from 1. Run it inside Store.InTx to make the replace atomic.
func (r *courseRepo) Put(ctx context.Context, c *Course) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	codes, err := json.Marshal(c.Codes)
	if err != nil {
		return fmt.Errorf("marshal cb codes: %w", err)
	}

	query, args := r.d.Insert(CoursesTable.Name).
		Columns(courseColumns...).
		Values(c.ID, c.SubjectCode, c.Number, c.Title, c.Description, c.Units,
			string(codes), nullString(c.CCNStandardID), c.CreatedAt.UTC(), c.UpdatedAt.UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				for _, col := range courseColumns[1:] {
					if col != "created_at" {
						u.SetExcluded(col)
					}
				}
			}),
		).
		Query()
	if _, err := r.exec(ctx, query, args); err != nil {
		return fmt.Errorf("put course %s: %w", c.ID, err)
	}

	for _, table := range []string{CourseOutcomesTable.Name, CourseTopicsTable.Name} {
		query, args := r.d.Delete(table).Where(entsql.EQ("course_id", c.ID)).Query()
		if _, err := r.exec(ctx, query, args); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	profile := c.Profile()
	profile.Renumber()
	c.Outcomes, c.Topics = profile.Outcomes, profile.Topics

	for _, o := range c.Outcomes {
		query, args := r.d.Insert(CourseOutcomesTable.Name).
			Columns("course_id", "sequence", "text").
			Values(c.ID, o.Sequence, o.Text).
			Query()
		if _, err := r.exec(ctx, query, args); err != nil {
			return fmt.Errorf("insert outcome %d: %w", o.Sequence, err)
		}
	}

	for _, t := range c.Topics {
		var hours any
		if t.Hours != nil {
			hours = *t.Hours
		}
		query, args := r.d.Insert(CourseTopicsTable.Name).
			Columns("course_id", "sequence", "title", "hours").
			Values(c.ID, t.Sequence, t.Title, hours).
			Query()
		if _, err := r.exec(ctx, query, args); err != nil {
			return fmt.Errorf("insert topic %d: %w", t.Sequence, err)
		}
	}
	return nil
}

func (r *courseRepo) Get(ctx context.Context, id string) (*Course, error) {
	courses, err := r.selectCourses(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	c := &courses[0]

	if c.Outcomes, err = r.outcomes(ctx, id); err != nil {
		return nil, err
	}
	if c.Topics, err = r.topics(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *courseRepo) List(ctx context.Context) ([]Course, error) {
	return r.selectCourses(ctx, nil)
}

func (r *courseRepo) Update(ctx context.Context, id string, changes CourseChanges, now time.Time) (*Course, error) {
	u := r.d.Update(CoursesTable.Name).
		Set("updated_at", now.UTC()).
		Where(entsql.EQ("id", id))
	if changes.Codes != nil {
		codes, err := json.Marshal(*changes.Codes)
		if err != nil {
			return nil, fmt.Errorf("marshal cb codes: %w", err)
		}
		u.Set("cb_codes", string(codes))
	}
	if changes.StandardID != nil {
		if *changes.StandardID == "" {
			u.SetNull("ccn_standard_id")
		} else {
			u.Set("ccn_standard_id", *changes.StandardID)
		}
	}

	query, args := u.Query()
	res, err := r.exec(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("update course %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("course %s: %w", id, ErrNotFound)
	}
	return r.Get(ctx, id)
}

func (r *courseRepo) selectCourses(ctx context.Context, where *entsql.Predicate) ([]Course, error) {
	sel := r.d.Select(courseColumns...).
		From(entsql.Table(CoursesTable.Name)).
		OrderBy("id")
	if where != nil {
		sel.Where(where)
	}
	query, args := sel.Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var (
			c        Course
			codes    []byte
			standard sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.SubjectCode, &c.Number, &c.Title, &c.Description, &c.Units,
			&codes, &standard, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if len(codes) > 0 {
			if err := json.Unmarshal(codes, &c.Codes); err != nil {
				return nil, fmt.Errorf("course %s: decode cb codes: %w", c.ID, err)
			}
		}
		c.CCNStandardID = standard.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *courseRepo) outcomes(ctx context.Context, courseID string) ([]ccn.Outcome, error) {
	query, args := r.d.Select("sequence", "text").
		From(entsql.Table(CourseOutcomesTable.Name)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("sequence").
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []ccn.Outcome
	for rows.Next() {
		var o ccn.Outcome
		if err := rows.Scan(&o.Sequence, &o.Text); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *courseRepo) topics(ctx context.Context, courseID string) ([]ccn.Topic, error) {
	query, args := r.d.Select("sequence", "title", "hours").
		From(entsql.Table(CourseTopicsTable.Name)).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("sequence").
		Query()
	rows, err := r.query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var out []ccn.Topic
	for rows.Next() {
		var (
			t     ccn.Topic
			hours sql.NullFloat64
		)
		if err := rows.Scan(&t.Sequence, &t.Title, &hours); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		if hours.Valid {
			h := hours.Float64
			t.Hours = &h
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
