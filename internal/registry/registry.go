package registry

import (
	"fmt"
	"sort"

	"github.com/vaporfield/crystalline/go-core/internal/harmonic"
)

// #region search
// Search scores every pattern in the catalog against the intent and returns
// the ranked matches. Pure: the catalog is never mutated.
//
// classification and domain are accepted for future weighting but do not
// currently alter the score; they ride along for logging only.
//
// Trust boosts apply in a fixed order: the validation-count boost first, then
// the permanent/high-confidence boost, each clamped to 1.0. Ties keep catalog
// order.
func Search(intentText, classification, domain string, patterns []Pattern) (SearchResult, error) {
	_ = classification
	_ = domain

	result := SearchResult{}
	if len(patterns) == 0 {
		return result, nil
	}

	matches := make([]MatchResult, 0, len(patterns))
	for _, p := range patterns {
		conf, err := harmonic.PatternMatchConfidence(intentText, p.Text)
		if err != nil {
			return SearchResult{}, fmt.Errorf("score pattern %s: %w", p.ID, err)
		}

		if p.ValidationCount != Unvalidated {
			conf = clamp1(conf * (1 + float64(p.ValidationCount)*validationBoostStep))
		}
		if p.Retention == RetentionPermanent && p.Confidence >= permanentConfidenceFloor {
			conf = clamp1(conf * permanentBoost)
		}

		matches = append(matches, MatchResult{
			Pattern:         p,
			MatchConfidence: conf,
			ShouldApply:     conf >= ApplyThreshold,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchConfidence > matches[j].MatchConfidence
	})

	result.Matches = matches
	result.Best = &matches[0]
	if result.Best.ShouldApply {
		result.AppliedPattern = result.Best.Pattern.Text
		result.Applied = true
	}
	return result, nil
}

// #endregion search

// #region helpers
func clamp1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
