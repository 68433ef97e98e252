package service

import (
	"sort"

	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/rs/zerolog/log"
)

// DefaultMaxIterations caps the greedy allocation loop.
const DefaultMaxIterations = 20

// SolverInput carries everything the solver needs for one order.
type SolverInput struct {
	Classification    *Classification
	Ranked            []model.PackagingMatch
	Rules             *RuleSet
	Costs             model.CountryCosts
	CostDataAvailable bool
}

// Solution is the allocation of an order over containers.
type Solution struct {
	Boxes      []model.AdviceBox
	Confidence model.Confidence
}

func noMatch() Solution {
	return Solution{Confidence: model.ConfidenceNoMatch}
}

// Solver splits an order over one or more containers.
type Solver struct {
	strategy      AllocationStrategy
	maxIterations int
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithStrategy replaces the greedy allocation strategy.
func WithStrategy(strategy AllocationStrategy) SolverOption {
	return func(s *Solver) {
		if strategy != nil {
			s.strategy = strategy
		}
	}
}

// WithMaxIterations sets the greedy loop cap.
func WithMaxIterations(n int) SolverOption {
	return func(s *Solver) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// NewSolver creates a solver using GreedyCoverage by default.
func NewSolver(opts ...SolverOption) *Solver {
	s := &Solver{strategy: GreedyCoverage{}, maxIterations: DefaultMaxIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve isolates non-mixable units, then packs the rest into one perfect container or
// greedily over several. Any unit that cannot be placed yields no_match.
func (s *Solver) Solve(in SolverInput) Solution {
	cls := in.Classification
	if cls == nil || cls.Units.IsEmpty() {
		return noMatch()
	}

	candidates := func(pool model.ShippingUnits) []model.PackagingMatch {
		return RankMatches(EnrichWithCosts(in.Rules.Match(pool), in.Costs), in.CostDataAvailable)
	}

	var boxes []model.AdviceBox
	remaining := cls.Units.Clone()
	isolated := false

	singles := make(map[string]*model.PackagingMatch)
	for _, c := range cls.Contributions {
		if c.IsMixable {
			continue
		}
		match, seen := singles[c.UnitID]
		if !seen {
			single := model.ShippingUnits{}
			single.Add(c.UnitID, cls.Units[c.UnitID].Name, 1)
			for _, m := range candidates(single) {
				if m.IsPerfect() {
					match = &m
					break
				}
			}
			singles[c.UnitID] = match
		}
		if match == nil {
			log.Info().
				Str("product_code", c.ProductCode).
				Str("unit_id", c.UnitID).
				Msg("No single container fits non-mixable product")
			return noMatch()
		}
		for i := 0; i < c.Quantity; i++ {
			box := newBox(*match)
			box.Products = []model.BoxProduct{{
				ProductCode:      c.ProductCode,
				ShippingUnitName: cls.Units[c.UnitID].Name,
				Quantity:         1,
				WeightGrams:      c.WeightPerUnit,
			}}
			finishBox(&box, *match, in)
			boxes = append(boxes, box)
		}
		remaining.Subtract(model.ShippingUnits{c.UnitID: {ID: c.UnitID, Quantity: c.Quantity}})
		isolated = true
	}

	if remaining.IsEmpty() {
		return s.withConfidence(boxes, cls)
	}

	alloc := newAllocator(cls.Contributions)
	ranked := in.Ranked
	if isolated {
		ranked = candidates(remaining)
	}

	for _, m := range ranked {
		if m.IsPerfect() {
			boxes = append(boxes, alloc.fill(m, in))
			return s.withConfidence(boxes, cls)
		}
	}

	pool := remaining.Clone()
	for i := 0; i < s.maxIterations && !pool.IsEmpty(); i++ {
		m, ok := s.strategy.Pick(candidates(pool))
		if !ok {
			log.Info().Int("iteration", i).Str("strategy", s.strategy.Name()).Msg("No container covers remaining units")
			return noMatch()
		}
		boxes = append(boxes, alloc.fill(m, in))
		pool.Subtract(m.CoveredUnits)
	}
	if !pool.IsEmpty() {
		log.Warn().Int("max_iterations", s.maxIterations).Msg("Allocation stopped at iteration cap")
		return noMatch()
	}

	return s.withConfidence(boxes, cls)
}

func (s *Solver) withConfidence(boxes []model.AdviceBox, cls *Classification) Solution {
	return Solution{Boxes: boxes, Confidence: ConfidenceFor(len(boxes), len(cls.Unclassified))}
}

// ConfidenceFor derives the advice confidence from the number of boxes and unclassified products.
func ConfidenceFor(boxes, unclassified int) model.Confidence {
	switch {
	case boxes == 0:
		return model.ConfidenceNoMatch
	case unclassified > 0:
		return model.ConfidencePartialMatch
	default:
		return model.ConfidenceFullMatch
	}
}

func newBox(m model.PackagingMatch) model.AdviceBox {
	return model.AdviceBox{
		ContainerID:         m.ContainerID,
		ContainerName:       m.ContainerName,
		TagName:             m.TagName,
		ExternalContainerID: m.ExternalContainerID,
	}
}

// finishBox sets the ranking estimate and refines it for the actual box weight.
func finishBox(box *model.AdviceBox, m model.PackagingMatch, in SolverInput) {
	if in.CostDataAvailable || m.TotalCost > 0 {
		boxCost, transport, total := m.BoxCost, m.TransportCost, m.TotalCost
		box.BoxCost = &boxCost
		box.TransportCost = &transport
		box.TotalCost = &total
		box.WeightBracket = m.WeightBracket
	}
	RefineBoxCostWithWeight(box, m.CostSKU, in.Costs)
}

// allocator hands out mixable contributions to boxes in order line order.
type allocator struct {
	left  map[string][]UnitContribution
	names map[string]string
}

func newAllocator(contribs []UnitContribution) *allocator {
	a := &allocator{left: make(map[string][]UnitContribution)}
	for _, c := range contribs {
		if c.IsMixable {
			a.left[c.UnitID] = append(a.left[c.UnitID], c)
		}
	}
	return a
}

func (a *allocator) fill(m model.PackagingMatch, in SolverInput) model.AdviceBox {
	box := newBox(m)
	for _, unit := range m.CoveredUnits.Sorted() {
		box.Products = append(box.Products, a.take(unit)...)
	}
	sort.SliceStable(box.Products, func(i, j int) bool {
		return box.Products[i].ProductCode < box.Products[j].ProductCode
	})
	finishBox(&box, m, in)
	return box
}

func (a *allocator) take(unit model.ShippingUnitEntry) []model.BoxProduct {
	need := unit.Quantity
	var out []model.BoxProduct
	queue := a.left[unit.ID]
	for need > 0 && len(queue) > 0 {
		c := &queue[0]
		n := min(need, c.Quantity)
		out = append(out, model.BoxProduct{
			ProductCode:      c.ProductCode,
			ShippingUnitName: unit.Name,
			Quantity:         n,
			WeightGrams:      n * c.WeightPerUnit,
		})
		c.Quantity -= n
		need -= n
		if c.Quantity == 0 {
			queue = queue[1:]
		}
	}
	a.left[unit.ID] = queue
	return out
}
