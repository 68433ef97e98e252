package service

import "github.com/guttosm/pack-advice/internal/domain/model"

// AllocationStrategy picks the next container while an order is split over several boxes.
// ranked holds the matches for the remaining units, best first.
type AllocationStrategy interface {
	Name() string
	Pick(ranked []model.PackagingMatch) (model.PackagingMatch, bool)
}

// GreedyCoverage picks the match covering the most units; ties keep the ranked order.
type GreedyCoverage struct{}

// Name returns the strategy name.
func (GreedyCoverage) Name() string { return "greedy_coverage" }

// Pick returns the match with the largest covered quantity.
func (GreedyCoverage) Pick(ranked []model.PackagingMatch) (model.PackagingMatch, bool) {
	best, bestCovered := -1, 0
	for i, m := range ranked {
		if covered := m.CoveredUnits.Total(); covered > bestCovered {
			best, bestCovered = i, covered
		}
	}
	if best < 0 {
		return model.PackagingMatch{}, false
	}
	return ranked[best], true
}
