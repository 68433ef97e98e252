package service

import (
	"github.com/guttosm/pack-advice/internal/costs"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// EnrichWithCosts replaces the static cost estimate with route pricing.
// Matches whose SKU has no entries for the country are dropped; matches without a SKU
// are kept as they are. A nil table means cost data is unavailable and nothing changes.
func EnrichWithCosts(matches []model.PackagingMatch, table model.CountryCosts) []model.PackagingMatch {
	if table == nil {
		return matches
	}

	out := make([]model.PackagingMatch, 0, len(matches))
	for _, m := range matches {
		if m.CostSKU == "" {
			out = append(out, m)
			continue
		}
		entries := table[m.CostSKU]
		if len(entries) == 0 {
			log.Debug().
				Str("container", m.ContainerName).
				Str("cost_sku", m.CostSKU).
				Msg("Excluding container without a shipping route")
			continue
		}
		if e, ok := costs.Estimate(entries); ok {
			applyCost(&m, e)
		}
		out = append(out, m)
	}
	return out
}

// RefineBoxCostWithWeight re-selects the cost bracket for the actual box weight.
// The box keeps its earlier estimate when no entry fits.
func RefineBoxCostWithWeight(box *model.AdviceBox, sku string, table model.CountryCosts) {
	weight := box.ProductWeight()
	box.WeightGrams = &weight

	if table == nil || sku == "" {
		return
	}
	e, ok := costs.SelectForWeight(table[sku], weight)
	if !ok {
		return
	}
	boxCost, transport, total := e.BoxCost(), e.TransportCost, e.TotalCost
	box.BoxCost = &boxCost
	box.TransportCost = &transport
	box.TotalCost = &total
	box.WeightBracket = e.WeightBracket
}

func applyCost(m *model.PackagingMatch, e model.CostEntry) {
	m.BoxCost = e.BoxCost()
	m.TransportCost = e.TransportCost
	m.TotalCost = e.TotalCost
	m.WeightBracket = e.WeightBracket
}
