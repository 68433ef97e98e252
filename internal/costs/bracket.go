package costs

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

var bracketPattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*-\s*(\d+(?:[.,]\d+)?)\s*kg\s*$`)

// BracketUpperGrams parses a bracket label such as "0-5kg" and returns its upper bound in grams.
func BracketUpperGrams(bracket string) (int, bool) {
	m := bracketPattern.FindStringSubmatch(strings.ToLower(bracket))
	if m == nil {
		return 0, false
	}
	upper, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return int(upper * 1000), true
}

type bracketed struct {
	entry model.CostEntry
	upper int
}

// SelectForWeight picks the cost entry for a box of the given weight.
// The smallest bracket that fits wins; a nil-bracket entry is used when the weight
// exceeds every bracket. ok is false when nothing applies.
func SelectForWeight(entries []model.CostEntry, weightGrams int) (model.CostEntry, bool) {
	var open []model.CostEntry
	var ranged []bracketed

	for _, e := range entries {
		if e.WeightBracket == nil {
			open = append(open, e)
			continue
		}
		// Unreadable labels are rejected and logged when the table is loaded.
		upper, ok := BracketUpperGrams(*e.WeightBracket)
		if !ok {
			continue
		}
		ranged = append(ranged, bracketed{entry: e, upper: upper})
	}

	sort.SliceStable(ranged, func(i, j int) bool {
		if ranged[i].upper != ranged[j].upper {
			return ranged[i].upper < ranged[j].upper
		}
		return ranged[i].entry.TotalCost < ranged[j].entry.TotalCost
	})
	for _, b := range ranged {
		if b.upper >= weightGrams {
			return b.entry, true
		}
	}

	return cheapest(open)
}

// Estimate picks the entry used to rank a container before its contents are known:
// the cheapest nil-bracket entry, otherwise the lowest bracket.
func Estimate(entries []model.CostEntry) (model.CostEntry, bool) {
	var open []model.CostEntry
	for _, e := range entries {
		if e.WeightBracket == nil {
			open = append(open, e)
		}
	}
	if e, ok := cheapest(open); ok {
		return e, true
	}
	return SelectForWeight(entries, 0)
}

// Summary returns the representative entry per SKU: the cheapest nil-bracket entry
// when one exists, otherwise the cheapest entry overall.
func Summary(costs model.CountryCosts) map[string]model.CostEntry {
	out := make(map[string]model.CostEntry, len(costs))
	for sku, entries := range costs {
		var open []model.CostEntry
		for _, e := range entries {
			if e.WeightBracket == nil {
				open = append(open, e)
			}
		}
		if e, ok := cheapest(open); ok {
			out[sku] = e
			continue
		}
		if e, ok := cheapest(entries); ok {
			out[sku] = e
		}
	}
	return out
}

func cheapest(entries []model.CostEntry) (model.CostEntry, bool) {
	if len(entries) == 0 {
		return model.CostEntry{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if e.TotalCost < best.TotalCost {
			best = e
		}
	}
	return best, true
}
