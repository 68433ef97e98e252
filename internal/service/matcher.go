package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// EvaluateRuleGroup checks one rule group against the available units.
// Every AND rule must be met by its own unit or by one of its alternatives, and when
// OR rules exist the first affordable one is consumed. ok is false when the group fails.
func EvaluateRuleGroup(rules []model.CompartmentRule, available model.ShippingUnits) (covered, leftover model.ShippingUnits, ok bool) {
	ordered := make([]model.CompartmentRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].SortOrder < ordered[j].SortOrder })

	var ands, ors []model.CompartmentRule
	alternatives := make(map[string][]model.CompartmentRule)
	for _, r := range ordered {
		switch r.Operator {
		case model.OperatorAnd:
			ands = append(ands, r)
		case model.OperatorOr:
			ors = append(ors, r)
		case model.OperatorAlternative:
			if r.AlternativeForID != nil {
				alternatives[*r.AlternativeForID] = append(alternatives[*r.AlternativeForID], r)
			}
		}
	}

	pool := available.Clone()
	covered = model.ShippingUnits{}

	consume := func(r model.CompartmentRule) bool {
		e, found := pool[r.ShippingUnitID]
		if !found || e.Quantity < r.Quantity {
			return false
		}
		e.Quantity -= r.Quantity
		pool[r.ShippingUnitID] = e
		covered.Add(r.ShippingUnitID, e.Name, r.Quantity)
		return true
	}

	for _, r := range ands {
		if consume(r) {
			continue
		}
		satisfied := false
		for _, alt := range alternatives[r.ID] {
			if consume(alt) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return nil, nil, false
		}
	}

	if len(ors) > 0 {
		satisfied := false
		for _, r := range ors {
			if consume(r) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return nil, nil, false
		}
	}

	leftover = model.ShippingUnits{}
	for id, e := range pool {
		if e.Quantity > 0 {
			leftover[id] = e
		}
	}
	return covered, leftover, true
}

type ruleGroup struct {
	id    int
	rules []model.CompartmentRule
}

type containerRules struct {
	container model.Container
	groups    []ruleGroup
}

// RuleSet is a snapshot of advice containers and their rule groups.
type RuleSet struct {
	containers []containerRules
}

// CompartmentMatcher loads rule sets from the rule store.
type CompartmentMatcher struct {
	store RuleStore
}

// NewCompartmentMatcher creates a matcher backed by store.
func NewCompartmentMatcher(store RuleStore) *CompartmentMatcher {
	return &CompartmentMatcher{store: store}
}

// Load reads the active advice containers and their active rules.
func (m *CompartmentMatcher) Load(ctx context.Context) (*RuleSet, error) {
	containers, err := m.store.ListAdviceContainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load containers: %w", err)
	}
	if len(containers) == 0 {
		return &RuleSet{}, nil
	}

	ids := make([]string, 0, len(containers))
	for _, c := range containers {
		ids = append(ids, c.ID)
	}
	rules, err := m.store.ActiveRules(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load compartment rules: %w", err)
	}
	return NewRuleSet(containers, rules), nil
}

// Match is a convenience for loading the rule set and matching units once.
func (m *CompartmentMatcher) Match(ctx context.Context, units model.ShippingUnits) ([]model.PackagingMatch, error) {
	rs, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return rs.Match(units), nil
}

// NewRuleSet groups rules by container and rule group.
func NewRuleSet(containers []model.Container, rules []model.CompartmentRule) *RuleSet {
	byContainer := make(map[string]map[int][]model.CompartmentRule)
	for _, r := range rules {
		if byContainer[r.ContainerID] == nil {
			byContainer[r.ContainerID] = make(map[int][]model.CompartmentRule)
		}
		byContainer[r.ContainerID][r.RuleGroup] = append(byContainer[r.ContainerID][r.RuleGroup], r)
	}

	rs := &RuleSet{}
	for _, c := range containers {
		groups := byContainer[c.ID]
		if len(groups) == 0 {
			continue
		}
		cr := containerRules{container: c}
		for id, rules := range groups {
			cr.groups = append(cr.groups, ruleGroup{id: id, rules: rules})
		}
		sort.Slice(cr.groups, func(i, j int) bool { return cr.groups[i].id < cr.groups[j].id })
		rs.containers = append(rs.containers, cr)
	}
	return rs
}

// Match returns one match per satisfiable container rule group. Costs are the static
// handling and material estimate until enriched.
func (rs *RuleSet) Match(units model.ShippingUnits) []model.PackagingMatch {
	if rs == nil || units.IsEmpty() {
		return nil
	}

	var matches []model.PackagingMatch
	for _, cr := range rs.containers {
		for _, g := range cr.groups {
			covered, leftover, ok := EvaluateRuleGroup(g.rules, units)
			if !ok || covered.IsEmpty() {
				continue
			}
			c := cr.container
			matches = append(matches, model.PackagingMatch{
				ContainerID:         c.ID,
				ContainerName:       c.Name,
				TagName:             c.TagName,
				ExternalContainerID: c.ExternalID,
				CostSKU:             c.CostSKU,
				RuleGroup:           g.id,
				CoveredUnits:        covered,
				LeftoverUnits:       leftover,
				SpecificityScore:    c.Specificity(),
				Volume:              c.Volume(),
				BoxCost:             c.StaticCost(),
				TotalCost:           c.StaticCost(),
				MaxWeightGrams:      c.MaxWeightGrams,
			})
		}
	}
	return matches
}
