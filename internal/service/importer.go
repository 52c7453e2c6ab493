package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/cbcode"
	"github.com/abhisek/outlines/internal/store"
)

// CourseFile is the YAML document accepted by ImportCourses.
type CourseFile struct {
	Courses []CourseSpec `yaml:"courses" validate:"required,min=1,dive"`
}

// CourseSpec is one course outline in a CourseFile.
type CourseSpec struct {
	ID          string            `yaml:"id" validate:"required,max=64"`
	SubjectCode string            `yaml:"subject_code" validate:"required,max=16"`
	Number      string            `yaml:"number" validate:"max=16"`
	Title       string            `yaml:"title" validate:"required"`
	Description string            `yaml:"description"`
	Units       float64           `yaml:"units" validate:"gt=0"`
	Outcomes    []string          `yaml:"outcomes" validate:"dive,required"`
	Topics      []TopicSpec       `yaml:"topics" validate:"dive"`
	CBCodes     map[string]string `yaml:"cb_codes"`
}

// TopicSpec is one content topic.
type TopicSpec struct {
	Title string   `yaml:"title" validate:"required"`
	Hours *float64 `yaml:"hours" validate:"omitempty,gt=0"`
}

var validate = validator.New()

// ParseCourses decodes and validates a course file.
func ParseCourses(data []byte) ([]store.Course, error) {
	var f CourseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse course file: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, validationError(err)
	}

	seen := map[string]bool{}
	out := make([]store.Course, 0, len(f.Courses))
	for _, in := range f.Courses {
		if seen[in.ID] {
			return nil, ValidationError{"courses": fmt.Sprintf("Duplicate course id %s", in.ID)}
		}
		seen[in.ID] = true

		values, _, err := parseCodes(api.CourseUpdate{CBCodes: in.CBCodes})
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", in.ID, err)
		}

		c := store.Course{
			ID:          in.ID,
			SubjectCode: strings.ToUpper(strings.TrimSpace(in.SubjectCode)),
			Number:      strings.TrimSpace(in.Number),
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Units:       in.Units,
		}
		if values != nil {
			c.Codes = cbcode.NewSet(values)
		}
		profile := c.Profile()
		for _, o := range in.Outcomes {
			profile.AddOutcome(strings.TrimSpace(o))
		}
		for _, t := range in.Topics {
			profile.AddTopic(strings.TrimSpace(t.Title), t.Hours)
		}
		c.Outcomes, c.Topics = profile.Outcomes, profile.Topics
		out = append(out, c)
	}
	return out, nil
}

// ImportCourses stores parsed courses. Re-importing a course replaces its
// outline but keeps its compliance answers and adoption unless the file
// sets codes explicitly.
func (s *Service) ImportCourses(ctx context.Context, courses []store.Course, actor string) error {
	return s.store.InTx(ctx, func(r store.Repos) error {
		for i := range courses {
			c := &courses[i]
			existing, err := r.Courses.Get(ctx, c.ID)
			switch {
			case errors.Is(err, store.ErrNotFound):
			case err != nil:
				return err
			default:
				c.CreatedAt = existing.CreatedAt
				c.CCNStandardID = existing.CCNStandardID
				if c.Codes.Len() == 0 {
					c.Codes = existing.Codes
				}
			}
			c.UpdatedAt = s.now()
			if c.CreatedAt.IsZero() {
				c.CreatedAt = c.UpdatedAt
			}

			if err := r.Courses.Put(ctx, c); err != nil {
				return err
			}
			if err := r.Audit.Append(ctx, &store.AuditEvent{
				CourseID:  c.ID,
				Kind:      store.KindCourseImported,
				Actor:     actor,
				CreatedAt: c.UpdatedAt,
				Detail: map[string]string{
					"outcomes": fmt.Sprint(len(c.Outcomes)),
					"topics":   fmt.Sprint(len(c.Topics)),
				},
			}); err != nil {
				return err
			}
			s.log.Info("course imported", "course_id", c.ID, "actor", actor)
		}
		return nil
	})
}

// validationError converts validator output to field messages.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := ValidationError{}
	for _, fe := range ve {
		field := strings.TrimPrefix(fe.Namespace(), "CourseFile.")
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "gt":
			out[field] = "must be greater than " + fe.Param()
		case "max":
			out[field] = "must be at most " + fe.Param() + " characters"
		case "min":
			out[field] = "must have at least " + fe.Param() + " entry"
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

