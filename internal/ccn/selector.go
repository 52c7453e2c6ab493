package ccn

import "sort"

// SelectBestMatch scores every standard in catalog and returns the highest
// scoring result if it clears the acceptance threshold.
//
// Ties keep the first candidate in catalog order. Catalogs are published in
// authority order, so this is deterministic only as long as the catalog order
// is stable; a reordered catalog can change which of two tied standards wins.
//
// It returns (nil, false) for an empty catalog or when every candidate scores
// below the threshold.
func (s *Scorer) SelectBestMatch(profile CourseProfile, catalog []Standard) (*MatchResult, bool) {
	best := s.bestCandidate(profile, catalog)
	if best == nil || !s.policy.Accepts(best.Confidence) {
		return nil, false
	}
	return best, true
}

// bestCandidate returns the maximum-confidence result regardless of threshold.
func (s *Scorer) bestCandidate(profile CourseProfile, catalog []Standard) *MatchResult {
	var best *MatchResult
	for _, std := range catalog {
		r := s.Score(profile, std)
		if best == nil || r.Confidence > best.Confidence {
			best = &r
		}
	}
	return best
}

// Rank scores every standard and returns them ordered by descending
// confidence, keeping catalog order among equal scores.
func (s *Scorer) Rank(profile CourseProfile, catalog []Standard) []MatchResult {
	results := make([]MatchResult, 0, len(catalog))
	for _, std := range catalog {
		results = append(results, s.Score(profile, std))
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	return results
}
