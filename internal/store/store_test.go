package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/justification"
	"github.com/abhisek/outlines/internal/wizard"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func welding() *Course {
	hours := 6.0
	return &Course{
		ID:          "weld-101",
		SubjectCode: "WELD",
		Number:      "101",
		Title:       "Welding Fundamentals",
		Description: "Shielded metal arc welding.",
		Units:       3,
		Outcomes: []ccn.Outcome{
			{Sequence: 4, Text: "Identify welding hazards"},
			{Sequence: 9, Text: "Produce fillet welds"},
		},
		Topics: []ccn.Topic{
			{Sequence: 1, Title: "Shop safety", Hours: &hours},
			{Sequence: 2, Title: "Electrode selection"},
		},
		Codes: cbcode.NewSet(map[cbcode.Code]string{cbcode.CB04: "C"}),
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outlines.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range Tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table.Name, err)
		}
	}
}

func TestCoursePutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := welding()
	if err := s.Courses().Put(ctx, c); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Courses().Get(ctx, "weld-101")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Welding Fundamentals" || got.Units != 3 {
		t.Errorf("got %q %g", got.Title, got.Units)
	}
	if len(got.Outcomes) != 2 || got.Outcomes[0].Sequence != 1 || got.Outcomes[1].Sequence != 2 {
		t.Errorf("outcomes not renumbered: %+v", got.Outcomes)
	}
	if got.Outcomes[1].Text != "Produce fillet welds" {
		t.Errorf("outcome order lost: %+v", got.Outcomes)
	}
	if len(got.Topics) != 2 || got.Topics[0].Hours == nil || *got.Topics[0].Hours != 6 {
		t.Errorf("topics = %+v", got.Topics)
	}
	if got.Topics[1].Hours != nil {
		t.Errorf("expected nil hours, got %v", *got.Topics[1].Hours)
	}
	if got.Codes.Value(cbcode.CB04) != "C" {
		t.Errorf("CB04 = %q, want C", got.Codes.Value(cbcode.CB04))
	}
	if got.CCNStandardID != "" {
		t.Errorf("standard = %q, want empty", got.CCNStandardID)
	}
}

func TestCoursePutReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	c := welding()
	created := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	c.CreatedAt = created
	if err := s.Courses().Put(ctx, c); err != nil {
		t.Fatalf("put: %v", err)
	}

	c.Title = "Welding I"
	c.Outcomes = c.Outcomes[:1]
	c.Topics = nil
	c.UpdatedAt = time.Time{}
	c.CreatedAt = time.Time{}
	if err := s.Courses().Put(ctx, c); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, err := s.Courses().Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Welding I" || len(got.Outcomes) != 1 || len(got.Topics) != 0 {
		t.Errorf("replace failed: %+v", got)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at changed: %v -> %v", created, got.CreatedAt)
	}

	list, err := s.Courses().List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d, want 1", len(list))
	}
}

func TestCourseGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Courses().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCourseUpdatePartial(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Courses().Put(ctx, welding()); err != nil {
		t.Fatalf("put: %v", err)
	}

	codes := cbcode.NewSet(map[cbcode.Code]string{cbcode.CB04: "C"}).
		Lock(map[cbcode.Code]string{cbcode.CB05: "A"})
	std := "ENGL C1000"
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	got, err := s.Courses().Update(ctx, "weld-101", CourseChanges{Codes: &codes, StandardID: &std}, now)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.CCNStandardID != std {
		t.Errorf("standard = %q", got.CCNStandardID)
	}
	if !got.Codes.IsLocked(cbcode.CB05) || got.Codes.Value(cbcode.CB05) != "A" {
		t.Errorf("locked CB05 not stored: %+v", got.Codes)
	}
	if got.Title != "Welding Fundamentals" || len(got.Outcomes) != 2 {
		t.Errorf("unnamed fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, now)
	}

	// Only the standard: codes stay as they are.
	clear := ""
	got, err = s.Courses().Update(ctx, "weld-101", CourseChanges{StandardID: &clear}, now)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got.CCNStandardID != "" {
		t.Errorf("standard not cleared: %q", got.CCNStandardID)
	}
	if !got.Codes.IsLocked(cbcode.CB05) {
		t.Error("codes changed by a standard-only update")
	}

	_, err = s.Courses().Update(ctx, "missing", CourseChanges{StandardID: &std}, now)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestJustificationAppendOnly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.Courses().Put(ctx, welding()); err != nil {
		t.Fatalf("put: %v", err)
	}

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	first := justification.Justification{
		ID: uuid.New(), CourseID: "weld-101", ReasonCode: justification.ReasonVocational,
		Text: "Prepares students for the state welding exam.", SubmittedAt: base,
	}
	second := first
	second.ID = uuid.New()
	second.Text = "Prepares students for the AWS D1.1 certification."
	second.SubmittedAt = base.Add(time.Hour)

	for _, j := range []justification.Justification{first, second} {
		if err := s.Justifications().Append(ctx, j); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := s.Justifications().ListByCourse(ctx, "weld-101")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("order = %v, %v", list[0].ID, list[1].ID)
	}
	if list[0].ReasonCode != justification.ReasonVocational || !list[0].SubmittedAt.Equal(base) {
		t.Errorf("first = %+v", list[0])
	}

	got, err := s.Justifications().Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != second.Text {
		t.Errorf("text = %q", got.Text)
	}

	// Duplicate ids are rejected: records are never overwritten.
	if err := s.Justifications().Append(ctx, first); err == nil {
		t.Error("expected duplicate append to fail")
	}

	// Justifications must reference a stored course.
	orphan := first
	orphan.ID = uuid.New()
	orphan.CourseID = "missing"
	if err := s.Justifications().Append(ctx, orphan); err == nil {
		t.Error("expected foreign key violation")
	}
}

func TestAuditSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		course := "a"
		if i%2 == 1 {
			course = "b"
		}
		ev := &AuditEvent{CourseID: course, Kind: KindCodesUpdated, Detail: map[string]string{"i": fmt.Sprint(i)}}
		if err := s.Audit().Append(ctx, ev); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ev.Sequence != int64(i+1) {
			t.Errorf("seq[%d] = %d, want %d", i, ev.Sequence, i+1)
		}
	}

	all, err := s.Audit().Query(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	if all[2].Detail["i"] != "2" {
		t.Errorf("detail = %v", all[2].Detail)
	}

	b, err := s.Audit().Query(ctx, QueryOpts{CourseID: "b"})
	if err != nil {
		t.Fatalf("query b: %v", err)
	}
	if len(b) != 2 || b[0].Sequence != 2 || b[1].Sequence != 4 {
		t.Errorf("course b events = %+v", b)
	}

	page, err := s.Audit().Query(ctx, QueryOpts{After: 2, Limit: 2})
	if err != nil {
		t.Fatalf("query page: %v", err)
	}
	if len(page) != 2 || page[0].Sequence != 3 || page[1].Sequence != 4 {
		t.Errorf("page = %+v", page)
	}
}

func TestInTxRollback(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(r Repos) error {
		if err := r.Courses.Put(ctx, welding()); err != nil {
			return err
		}
		if err := r.Audit.Append(ctx, &AuditEvent{CourseID: "weld-101", Kind: KindCourseImported}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	if _, err := s.Courses().Get(ctx, "weld-101"); !errors.Is(err, ErrNotFound) {
		t.Errorf("course survived rollback: %v", err)
	}

	// The sequence increment rolled back with the event.
	ev := &AuditEvent{CourseID: "weld-101", Kind: KindCourseImported}
	if err := s.Audit().Append(ctx, ev); err != nil {
		t.Fatalf("append: %v", err)
	}
	if ev.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", ev.Sequence)
	}
}

func TestSnapshotSaveLatestDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Snapshots()
	ctx := context.Background()
	if err := s.Courses().Put(ctx, welding()); err != nil {
		t.Fatalf("put: %v", err)
	}

	// No snapshot yet.
	snap, err := repo.Latest(ctx, "weld-101")
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	now := time.Now().UTC()
	first := wizard.Snapshot{
		Phase:         wizard.PhaseQuestions,
		QuestionIndex: 2,
		Codes:         cbcode.NewSet(map[cbcode.Code]string{cbcode.CB04: "C"}),
	}
	if err := repo.Save(ctx, "weld-101", first, now); err != nil {
		t.Fatalf("save: %v", err)
	}
	second := first
	second.QuestionIndex = 4
	second.Codes = second.Codes.Lock(map[cbcode.Code]string{cbcode.CB05: "A"})
	if err := repo.Save(ctx, "weld-101", second, now.Add(time.Minute)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	snap, err = repo.Latest(ctx, "weld-101")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil || snap.QuestionIndex != 4 || !snap.Codes.IsLocked(cbcode.CB05) {
		t.Fatalf("latest = %+v", snap)
	}

	if err := repo.Delete(ctx, "weld-101"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	snap, err = repo.Latest(ctx, "weld-101")
	if err != nil || snap != nil {
		t.Fatalf("after delete: %+v, %v", snap, err)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(dir, "custom", "x.db")
		t.Setenv("OUTLINES_DB", p)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != p {
			t.Errorf("path = %q, want %q", got, p)
		}
		if _, err := os.Stat(filepath.Dir(p)); err != nil {
			t.Errorf("parent dir not created: %v", err)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("OUTLINES_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		want := filepath.Join(dir, "outlines", "outlines.db")
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("postgres url", func(t *testing.T) {
		t.Setenv("OUTLINES_DB", "postgres://localhost/outlines")
		got, err := DefaultDBPath()
		if err != nil || got != "postgres://localhost/outlines" {
			t.Errorf("got %q, %v", got, err)
		}
	})
}
