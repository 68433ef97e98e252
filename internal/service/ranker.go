package service

import (
	"sort"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// RankMatches orders matches best first. With route pricing the cheapest match leads,
// then the most specific, then the smallest. Without it specificity and volume lead and
// the static cost only breaks ties.
func RankMatches(matches []model.PackagingMatch, costDataAvailable bool) []model.PackagingMatch {
	ranked := make([]model.PackagingMatch, len(matches))
	copy(ranked, matches)

	byCost := func(a, b model.PackagingMatch) (bool, bool) {
		if a.TotalCost != b.TotalCost {
			return a.TotalCost < b.TotalCost, true
		}
		return false, false
	}
	bySpecificity := func(a, b model.PackagingMatch) (bool, bool) {
		if a.SpecificityScore != b.SpecificityScore {
			return a.SpecificityScore > b.SpecificityScore, true
		}
		return false, false
	}
	byVolume := func(a, b model.PackagingMatch) (bool, bool) {
		if a.Volume != b.Volume {
			return a.Volume < b.Volume, true
		}
		return false, false
	}

	order := []func(a, b model.PackagingMatch) (bool, bool){bySpecificity, byVolume, byCost}
	if costDataAvailable {
		order = []func(a, b model.PackagingMatch) (bool, bool){byCost, bySpecificity, byVolume}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		for _, cmp := range order {
			if less, decided := cmp(ranked[i], ranked[j]); decided {
				return less
			}
		}
		return false
	})
	return ranked
}
