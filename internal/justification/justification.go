package justification

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReasonCode is why an author declined every common course standard.
type ReasonCode string

const (
	ReasonSpecialized ReasonCode = "specialized"
	ReasonVocational  ReasonCode = "vocational"
	ReasonLocalNeed   ReasonCode = "local_need"
	ReasonNewCourse   ReasonCode = "new_course"
	ReasonOther       ReasonCode = "other"
)

// Reasons lists the reason codes in display order.
var Reasons = []ReasonCode{ReasonSpecialized, ReasonVocational, ReasonLocalNeed, ReasonNewCourse, ReasonOther}

// Label returns the display label of r.
func (r ReasonCode) Label() string {
	switch r {
	case ReasonSpecialized:
		return "Specialized course with no statewide equivalent"
	case ReasonVocational:
		return "Vocational or CTE course"
	case ReasonLocalNeed:
		return "Serves a local community need"
	case ReasonNewCourse:
		return "New course not yet in the catalog"
	case ReasonOther:
		return "Other"
	}
	return string(r)
}

// Valid reports whether r is one of the enumerated reasons.
func (r ReasonCode) Valid() bool {
	for _, known := range Reasons {
		if r == known {
			return true
		}
	}
	return false
}

// Justification records why a course is not aligned to a standard. It is
// immutable once submitted; resubmitting creates a new one.
type Justification struct {
	ID          uuid.UUID  `json:"id"`
	CourseID    string     `json:"courseId"`
	ReasonCode  ReasonCode `json:"reasonCode"`
	Text        string     `json:"text"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

// Draft is the unsubmitted form content.
type Draft struct {
	ReasonCode ReasonCode `json:"reasonCode"`
	Text       string     `json:"text"`
}

const (
	DefaultMinCharacters = 20
	DefaultMaxCharacters = 500
)

// Bounds are the inclusive character limits on justification text.
type Bounds struct {
	Min int
	Max int
}

// DefaultBounds returns the standard 20..500 character limits.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMinCharacters, Max: DefaultMaxCharacters}
}

// Field names used in ValidationErrors.
const (
	FieldReasonCode = "reason_code"
	FieldText       = "text"
)

// ValidationErrors maps a form field to a message for inline display.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid justification: " + strings.Join(parts, "; ")
}

var validate = validator.New()

// Validate checks d against the bounds. Text is trimmed before its length is
// counted in characters, not bytes. It returns nil or ValidationErrors.
func (b Bounds) Validate(d Draft) error {
	errs := ValidationErrors{}

	reasons := make([]string, len(Reasons))
	for i, r := range Reasons {
		reasons[i] = string(r)
	}
	if err := validate.Var(string(d.ReasonCode), "required,oneof="+strings.Join(reasons, " ")); err != nil {
		errs[FieldReasonCode] = "Select a reason"
	}

	text := strings.TrimSpace(d.Text)
	if err := validate.Var(text, fmt.Sprintf("min=%d,max=%d", b.Min, b.Max)); err != nil {
		if tooShort(err) {
			errs[FieldText] = fmt.Sprintf("Justification must be at least %d characters", b.Min)
		} else {
			errs[FieldText] = fmt.Sprintf("Justification must be at most %d characters", b.Max)
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func tooShort(err error) bool {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		return ve[0].Tag() == "min"
	}
	return false
}

// ValidateBounds checks the bounds themselves. The maximum must be positive,
// which keeps the zero Bounds distinguishable from a configured one.
func (b Bounds) ValidateBounds() error {
	if b.Min < 0 {
		return fmt.Errorf("justification minimum %d is negative", b.Min)
	}
	if b.Max <= 0 {
		return fmt.Errorf("justification maximum %d must be positive", b.Max)
	}
	if b.Max < b.Min {
		return fmt.Errorf("justification maximum %d below minimum %d", b.Max, b.Min)
	}
	return nil
}

// New validates d and returns an immutable Justification for courseID.
func (b Bounds) New(courseID string, d Draft, now time.Time) (Justification, error) {
	if err := b.Validate(d); err != nil {
		return Justification{}, err
	}
	return Justification{
		ID:          uuid.New(),
		CourseID:    courseID,
		ReasonCode:  d.ReasonCode,
		Text:        strings.TrimSpace(d.Text),
		SubmittedAt: now.UTC(),
	}, nil
}
