package cbcode

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrLocked is returned when an answer targets a code locked by adoption.
var ErrLocked = errors.New("code is locked by the adopted standard")

// Set is a course's CB code values, partitioned into editable and locked
// entries. A Set is a value: every method returns a new Set and leaves the
// receiver untouched, so state machines can hold one without aliasing.
type Set struct {
	values map[Code]string
	locked map[Code]bool
}

// NewSet builds an editable set from persisted values. Unknown codes are kept
// so a round trip never drops data.
func NewSet(values map[Code]string) Set {
	s := Set{values: make(map[Code]string, len(values))}
	for c, v := range values {
		if v != "" {
			s.values[c] = v
		}
	}
	return s
}

// Get returns the value of c and whether it is set.
func (s Set) Get(c Code) (string, bool) {
	v, ok := s.values[c]
	return v, ok
}

// Value returns the value of c, or "" when unset.
func (s Set) Value(c Code) string {
	return s.values[c]
}

// IsLocked reports whether c was derived from an adopted standard.
func (s Set) IsLocked(c Code) bool {
	return s.locked[c]
}

// Len returns the number of codes with a value.
func (s Set) Len() int {
	return len(s.values)
}

// Values returns a copy of every code value.
func (s Set) Values() map[Code]string {
	out := make(map[Code]string, len(s.values))
	for c, v := range s.values {
		out[c] = v
	}
	return out
}

// Locked returns the locked codes in sorted order.
func (s Set) Locked() []Code {
	out := make([]Code, 0, len(s.locked))
	for c := range s.locked {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Answer returns a copy of s with c set to value. Locked codes are rejected
// with ErrLocked and values outside the code's options are rejected too.
func (s Set) Answer(c Code, value string) (Set, error) {
	if s.locked[c] {
		return s, fmt.Errorf("%s: %w", c, ErrLocked)
	}
	def, err := c.Definition()
	if err != nil {
		return s, err
	}
	if !def.Allows(value) {
		return s, fmt.Errorf("%s: %q is not a valid %s", c, value, def.Label)
	}
	out := s.clone()
	out.values[c] = value
	return out, nil
}

// Lock returns a copy of s whose locked entries are exactly derived. Codes
// locked by a previous adoption that derived does not cover are cleared.
func (s Set) Lock(derived map[Code]string) Set {
	out := s.clone()
	for c := range out.locked {
		if _, ok := derived[c]; !ok {
			delete(out.values, c)
		}
	}
	out.locked = make(map[Code]bool, len(derived))
	for c, v := range derived {
		out.values[c] = v
		out.locked[c] = true
	}
	return out
}

// Unlock returns a copy of s with every locked entry removed. The derived
// values go with the lock so the author answers them again.
func (s Set) Unlock() Set {
	out := s.clone()
	for c := range out.locked {
		delete(out.values, c)
	}
	out.locked = nil
	return out
}

// WithLockedCodes marks codes as locked without changing values. It restores
// a persisted lock set on load.
func (s Set) WithLockedCodes(codes []Code) Set {
	out := s.clone()
	out.locked = make(map[Code]bool, len(codes))
	for _, c := range codes {
		if _, ok := out.values[c]; ok {
			out.locked[c] = true
		}
	}
	return out
}

// Equal reports whether two sets hold the same values and locks.
func (s Set) Equal(o Set) bool {
	if len(s.values) != len(o.values) || len(s.locked) != len(o.locked) {
		return false
	}
	for c, v := range s.values {
		if ov, ok := o.values[c]; !ok || ov != v {
			return false
		}
	}
	for c := range s.locked {
		if !o.locked[c] {
			return false
		}
	}
	return true
}

func (s Set) clone() Set {
	out := Set{
		values: make(map[Code]string, len(s.values)),
		locked: make(map[Code]bool, len(s.locked)),
	}
	for c, v := range s.values {
		out.values[c] = v
	}
	for c := range s.locked {
		out.locked[c] = true
	}
	return out
}

type setJSON struct {
	Values map[Code]string `json:"values"`
	Locked []Code          `json:"locked"`
}

// MarshalJSON encodes the set as {"values": {...}, "locked": [...]}.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(setJSON{Values: s.Values(), Locked: s.Locked()})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw setJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode cb code set: %w", err)
	}
	*s = NewSet(raw.Values).WithLockedCodes(raw.Locked)
	return nil
}
