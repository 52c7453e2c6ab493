package service

import (
	"context"

	"github.com/abhisek/outlines/internal/api"
	"github.com/abhisek/outlines/internal/ccn"
)

// Match returns the best standard for the course, or nil when no standard
// reaches the acceptance threshold.
func (s *Service) Match(ctx context.Context, profile ccn.CourseProfile) (*ccn.MatchResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	best, ok := s.scorer.SelectBestMatch(profile, s.catalog.Standards())
	if !ok {
		s.log.Debug("no match", "subject_code", profile.SubjectCode, "title", profile.Title)
		return nil, nil
	}
	s.log.Debug("match found", "standard_id", best.Standard.ID, "confidence", best.Confidence)
	return best, nil
}

// Rank scores the course against every standard, best first.
func (s *Service) Rank(profile ccn.CourseProfile) ([]ccn.MatchResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return s.scorer.Rank(profile, s.catalog.Standards()), nil
}

// Compare diffs a course against one standard. When the request names a
// stored course and carries no title, the stored profile is used.
func (s *Service) Compare(ctx context.Context, req api.CompareRequest) (ccn.Comparison, error) {
	std, err := s.Standard(req.StandardID)
	if err != nil {
		return ccn.Comparison{}, err
	}

	profile := req.Course.Profile()
	if profile.Title == "" && req.Course.CourseID != "" {
		course, err := s.Course(ctx, req.Course.CourseID)
		if err != nil {
			return ccn.Comparison{}, err
		}
		profile = course.Profile()
	}
	if err := profile.Validate(); err != nil {
		return ccn.Comparison{}, err
	}
	return ccn.Compare(profile, std), nil
}
