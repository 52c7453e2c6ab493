package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/ccn"
	"github.com/abhisek/outlines/internal/store"
)

// UpdateCourse applies a partial update of the compliance fields. Fields the
// update does not name keep their stored values. Code changes and adoption
// changes are written to the audit trail in the same transaction.
func (s *Service) UpdateCourse(ctx context.Context, courseID, actor string, u api.CourseUpdate) (*store.Course, error) {
	if u.Empty() {
		return nil, ValidationError{"body": "No fields to update"}
	}
	if u.CCNStandardID != nil && *u.CCNStandardID != "" {
		if _, err := s.Standard(*u.CCNStandardID); err != nil {
			return nil, ValidationError{"ccnStandardId": fmt.Sprintf("Unknown standard %s", *u.CCNStandardID)}
		}
	}
	values, locked, err := parseCodes(u)
	if err != nil {
		return nil, err
	}

	var updated *store.Course
	err = s.store.InTx(ctx, func(r store.Repos) error {
		current, err := r.Courses.Get(ctx, courseID)
		if err != nil {
			return err
		}

		if verr := lockedConflicts(current, u, values, locked); len(verr) > 0 {
			return verr
		}

		changes := store.CourseChanges{StandardID: u.CCNStandardID}
		if values != nil || locked != nil {
			if values == nil {
				values = current.Codes.Values()
			}
			if locked == nil {
				locked = current.Codes.Locked()
			}
			codes := cbcode.NewSet(values).WithLockedCodes(locked)
			changes.Codes = &codes
		}

		updated, err = r.Courses.Update(ctx, courseID, changes, s.now())
		if err != nil {
			return err
		}
		for _, ev := range auditEvents(current, updated, actor) {
			if err := r.Audit.Append(ctx, &ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("course updated", "course_id", courseID, "actor", actor,
		"ccn_standard_id", updated.CCNStandardID, "locked", updated.Codes.Locked())
	return updated, nil
}

// lockedConflicts rejects new values for locked codes. A locked value only
// changes together with the adoption or the lock set that produced it.
func lockedConflicts(current *store.Course, u api.CourseUpdate, values map[cbcode.Code]string, locked []cbcode.Code) ValidationError {
	if values == nil {
		return nil
	}
	if u.CCNStandardID != nil && *u.CCNStandardID != current.CCNStandardID {
		return nil
	}
	if locked != nil && !sameCodes(locked, current.Codes.Locked()) {
		return nil
	}

	verr := ValidationError{}
	for _, c := range current.Codes.Locked() {
		old, had := current.Codes.Get(c)
		v, ok := values[c]
		if had == ok && v == old {
			continue
		}
		def, _ := c.Definition()
		verr["cbCodes."+string(c)] = fmt.Sprintf("%s is locked; change the adopted standard or unlock it first", def.Label)
	}
	return verr
}

func sameCodes(a, b []cbcode.Code) bool {
	if len(a) != len(b) {
		return false
	}
	a = append([]cbcode.Code(nil), a...)
	b = append([]cbcode.Code(nil), b...)
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// parseCodes validates the code fields of u. Nil results mean the field was
// not named.
func parseCodes(u api.CourseUpdate) (map[cbcode.Code]string, []cbcode.Code, error) {
	verr := ValidationError{}
	var values map[cbcode.Code]string
	if u.CBCodes != nil {
		values = make(map[cbcode.Code]string, len(u.CBCodes))
		for k, v := range u.CBCodes {
			code, err := cbcode.ParseCode(k)
			if err != nil {
				verr["cbCodes."+k] = "Unknown CB code"
				continue
			}
			def, err := code.Definition()
			if err != nil || !def.Allows(v) {
				verr["cbCodes."+k] = fmt.Sprintf("%q is not a valid %s value", v, def.Label)
				continue
			}
			values[code] = v
		}
	}

	var locked []cbcode.Code
	if u.LockedCodes != nil {
		locked = []cbcode.Code{}
		for _, k := range *u.LockedCodes {
			code, err := cbcode.ParseCode(k)
			if err != nil {
				verr["lockedCodes"] = fmt.Sprintf("Unknown CB code %q", k)
				continue
			}
			locked = append(locked, code)
		}
	}

	if len(verr) > 0 {
		return nil, nil, verr
	}
	return values, locked, nil
}

func auditEvents(before, after *store.Course, actor string) []store.AuditEvent {
	var out []store.AuditEvent
	if !before.Codes.Equal(after.Codes) {
		out = append(out, store.AuditEvent{
			CourseID:  after.ID,
			Kind:      store.KindCodesUpdated,
			Actor:     actor,
			CreatedAt: after.UpdatedAt,
			Detail:    codeDiff(before.Codes, after.Codes),
		})
	}
	if before.CCNStandardID != after.CCNStandardID {
		ev := store.AuditEvent{
			CourseID:  after.ID,
			Kind:      store.KindStandardAdopted,
			Actor:     actor,
			CreatedAt: after.UpdatedAt,
			Detail:    map[string]string{"standard_id": after.CCNStandardID},
		}
		if after.CCNStandardID == "" {
			ev.Kind = store.KindStandardCleared
			ev.Detail = map[string]string{"standard_id": before.CCNStandardID}
		}
		out = append(out, ev)
	}
	return out
}

// codeDiff describes changed codes as "old -> new", marking locked values.
func codeDiff(before, after cbcode.Set) map[string]string {
	diff := map[string]string{}
	seen := map[cbcode.Code]bool{}
	for _, set := range []cbcode.Set{before, after} {
		for c := range set.Values() {
			if seen[c] {
				continue
			}
			seen[c] = true
			ov, nv := before.Value(c), after.Value(c)
			if ov == nv && before.IsLocked(c) == after.IsLocked(c) {
				continue
			}
			if after.IsLocked(c) {
				nv += " (locked)"
			}
			diff[string(c)] = fmt.Sprintf("%s -> %s", display(ov), display(nv))
		}
	}
	return diff
}

func display(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}

// CourseDTO converts a stored course for the API.
func CourseDTO(c store.Course) api.Course {
	codes := map[string]string{}
	for k, v := range c.Codes.Values() {
		codes[string(k)] = v
	}
	locked := []string{}
	for _, k := range c.Codes.Locked() {
		locked = append(locked, string(k))
	}
	sort.Strings(locked)

	dto := api.Course{
		ID:            c.ID,
		SubjectCode:   c.SubjectCode,
		Number:        c.Number,
		Title:         c.Title,
		Description:   c.Description,
		Units:         c.Units,
		Outcomes:      c.Outcomes,
		Topics:        c.Topics,
		CBCodes:       codes,
		LockedCodes:   locked,
		CCNStandardID: c.CCNStandardID,
		UpdatedAt:     c.UpdatedAt,
	}
	if dto.Outcomes == nil {
		dto.Outcomes = []ccn.Outcome{}
	}
	if dto.Topics == nil {
		dto.Topics = []ccn.Topic{}
	}
	return dto
}
