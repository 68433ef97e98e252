package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/logger"
	"github.com/guttosm/pack-advice/internal/metrics"
	"github.com/guttosm/pack-advice/internal/repository"
)

const maxPersistAttempts = 3

// AdviceRequest is the input of one advice computation.
type AdviceRequest struct {
	OrderID                   int64
	PickID                    *int64
	ShippingProviderProfileID *int64
	CountryCode               string
	Products                  []model.OrderProduct
}

// AdviceService computes, stores and reads packaging advice.
type AdviceService interface {
	Calculate(ctx context.Context, req AdviceRequest) (*model.PackagingAdviceResult, error)
	Get(ctx context.Context, id string) (*model.PackagingAdviceResult, error)
	LatestForOrder(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error)
	List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error)
}

// AdviceServiceImpl is the advice orchestrator.
type AdviceServiceImpl struct {
	classifier *Classifier
	matcher    *CompartmentMatcher
	solver     *Solver
	costs      CostSource
	catalog    Catalog
	rules      RuleStore
	store      AdviceStore
	now        func() time.Time
	newID      func() string
}

// AdviceOption configures an AdviceServiceImpl.
type AdviceOption func(*AdviceServiceImpl)

// WithSolver replaces the default solver.
func WithSolver(solver *Solver) AdviceOption {
	return func(s *AdviceServiceImpl) {
		if solver != nil {
			s.solver = solver
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) AdviceOption {
	return func(s *AdviceServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator injects the advice id generator.
func WithIDGenerator(newID func() string) AdviceOption {
	return func(s *AdviceServiceImpl) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewAdviceService wires the engine. costs may be nil to always rank without route pricing.
func NewAdviceService(
	classifier *Classifier,
	catalog Catalog,
	rules RuleStore,
	costs CostSource,
	store AdviceStore,
	opts ...AdviceOption,
) *AdviceServiceImpl {
	s := &AdviceServiceImpl{
		classifier: classifier,
		matcher:    NewCompartmentMatcher(rules),
		solver:     NewSolver(),
		costs:      costs,
		catalog:    catalog,
		rules:      rules,
		store:      store,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate computes the advice for an order, or returns the stored advice when the
// classified contents and destination are unchanged.
func (s *AdviceServiceImpl) Calculate(ctx context.Context, req AdviceRequest) (*model.PackagingAdviceResult, error) {
	if len(req.Products) == 0 {
		return nil, ErrNoProducts
	}
	if s.store == nil {
		return nil, ErrRepositoryNotConfigured
	}
	start := s.now()
	country := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	lg := logger.FromContext(ctx).With().Int64("order_id", req.OrderID).Str("country", country).Logger()

	cls, err := s.classifier.Classify(ctx, req.Products)
	if err != nil {
		return nil, fmt.Errorf("classify products: %w", err)
	}
	fingerprint := Fingerprint(cls.Units, country)

	prior, err := s.store.LatestActive(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load previous advice: %w", err)
	}
	if prior != nil && prior.SameFingerprint(fingerprint) {
		metrics.RecordAdviceDedupHit()
		lg.Debug().Str("advice_id", prior.ID).Msg("Order unchanged, reusing advice")
		return prior, nil
	}

	rules, err := s.matcher.Load(ctx)
	if err != nil {
		return nil, err
	}

	var table model.CountryCosts
	costDataAvailable := false
	if country != "" && s.costs != nil {
		table, costDataAvailable = s.costs.CostsForCountry(ctx, country)
		if !costDataAvailable {
			lg.Warn().Msg("Cost data unavailable, ranking by specificity")
		}
	}

	ranked := RankMatches(EnrichWithCosts(rules.Match(cls.Units), table), costDataAvailable)
	solution := s.solver.Solve(SolverInput{
		Classification:    cls,
		Ranked:            ranked,
		Rules:             rules,
		Costs:             table,
		CostDataAvailable: costDataAvailable,
	})

	if solution.Confidence == model.ConfidenceNoMatch && !cls.Units.IsEmpty() {
		boxes, err := s.defaultPackaging(ctx, cls, table)
		if err != nil {
			return nil, err
		}
		if len(boxes) > 0 {
			lg.Info().Int("boxes", len(boxes)).Msg("Using default packaging")
			solution = Solution{Boxes: boxes, Confidence: ConfidenceFor(len(boxes), len(cls.Unclassified))}
		}
	}

	advice := &model.PackagingAdviceResult{
		ID:                        s.newID(),
		OrderID:                   req.OrderID,
		PickID:                    req.PickID,
		ShippingProviderProfileID: req.ShippingProviderProfileID,
		CountryCode:               country,
		Status:                    model.StatusCalculated,
		Confidence:                solution.Confidence,
		AdviceBoxes:               nonNilBoxes(solution.Boxes),
		DetectedShippingUnits:     cls.Units.Sorted(),
		UnclassifiedProducts:      nonNilStrings(cls.Unclassified),
		TagsWritten:               []string{},
		Fingerprint:               fingerprint,
		CostDataAvailable:         costDataAvailable,
		WeightExceeded:            s.weightExceeded(ctx, solution.Boxes),
		Active:                    true,
		CalculatedAt:              s.now().UTC(),
	}

	saved, err := s.persist(ctx, prior, advice)
	if err != nil {
		return nil, err
	}

	metrics.RecordAdviceCalculation(s.now().Sub(start), string(saved.Confidence))
	lg.Info().
		Str("advice_id", saved.ID).
		Str("confidence", string(saved.Confidence)).
		Int("boxes", len(saved.AdviceBoxes)).
		Bool("cost_data_available", saved.CostDataAvailable).
		Msg("Packaging advice calculated")
	return saved, nil
}

// persist invalidates the superseded advice and inserts the new one. When another
// request stored an advice first, an identical one is returned instead.
func (s *AdviceServiceImpl) persist(ctx context.Context, prior, advice *model.PackagingAdviceResult) (*model.PackagingAdviceResult, error) {
	for attempt := 0; attempt < maxPersistAttempts; attempt++ {
		if prior != nil {
			if err := s.store.Invalidate(ctx, prior.ID, s.now().UTC()); err != nil {
				return nil, fmt.Errorf("invalidate advice %s: %w", prior.ID, err)
			}
		}

		err := s.store.Insert(ctx, advice)
		if err == nil {
			return advice, nil
		}
		if !errors.Is(err, repository.ErrActiveAdviceExists) {
			return nil, fmt.Errorf("store advice: %w", err)
		}

		current, err := s.store.LatestActive(ctx, advice.OrderID)
		if err != nil {
			return nil, fmt.Errorf("reload advice: %w", err)
		}
		if current != nil && current.SameFingerprint(advice.Fingerprint) {
			metrics.RecordAdviceDedupHit()
			return current, nil
		}
		prior = current
	}
	return nil, ErrAdviceConflict
}

// defaultPackaging groups products by their shipping unit's default container.
func (s *AdviceServiceImpl) defaultPackaging(ctx context.Context, cls *Classification, table model.CountryCosts) ([]model.AdviceBox, error) {
	unitIDs := make([]string, 0, len(cls.Units))
	for id := range cls.Units {
		unitIDs = append(unitIDs, id)
	}
	defaults, err := s.catalog.DefaultContainers(ctx, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("load default containers: %w", err)
	}
	if len(defaults) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var containerIDs []string
	for _, id := range defaults {
		if !seen[id] {
			seen[id] = true
			containerIDs = append(containerIDs, id)
		}
	}
	containers, err := s.rules.ContainersByID(ctx, containerIDs)
	if err != nil {
		return nil, fmt.Errorf("load default containers: %w", err)
	}

	var order []string
	byContainer := make(map[string]*model.AdviceBox)
	for _, c := range cls.Contributions {
		container, ok := containers[defaults[c.UnitID]]
		if !ok {
			continue
		}
		box, ok := byContainer[container.ID]
		if !ok {
			box = &model.AdviceBox{
				ContainerID:         container.ID,
				ContainerName:       container.Name,
				TagName:             container.TagName,
				ExternalContainerID: container.ExternalID,
			}
			byContainer[container.ID] = box
			order = append(order, container.ID)
		}
		box.Products = append(box.Products, model.BoxProduct{
			ProductCode:      c.ProductCode,
			ShippingUnitName: cls.Units[c.UnitID].Name,
			Quantity:         c.Quantity,
			WeightGrams:      c.Quantity * c.WeightPerUnit,
		})
	}

	boxes := make([]model.AdviceBox, 0, len(order))
	for _, id := range order {
		box := byContainer[id]
		RefineBoxCostWithWeight(box, containers[id].CostSKU, table)
		boxes = append(boxes, *box)
	}
	return boxes, nil
}

// weightExceeded reports whether any box is heavier than its container allows.
func (s *AdviceServiceImpl) weightExceeded(ctx context.Context, boxes []model.AdviceBox) bool {
	if len(boxes) == 0 {
		return false
	}
	ids := make([]string, 0, len(boxes))
	for _, b := range boxes {
		ids = append(ids, b.ContainerID)
	}
	containers, err := s.rules.ContainersByID(ctx, ids)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("Skipping weight validation")
		return false
	}

	exceeded := false
	for _, b := range boxes {
		c, ok := containers[b.ContainerID]
		if !ok || c.MaxWeightGrams == nil || *c.MaxWeightGrams <= 0 {
			continue
		}
		if w := b.ProductWeight(); w > *c.MaxWeightGrams {
			exceeded = true
			logger.FromContext(ctx).Warn().
				Str("container", b.ContainerName).
				Int("weight_grams", w).
				Int("max_weight_grams", *c.MaxWeightGrams).
				Msg("Box exceeds container weight limit")
		}
	}
	return exceeded
}

// Get returns the advice with the given id.
func (s *AdviceServiceImpl) Get(ctx context.Context, id string) (*model.PackagingAdviceResult, error) {
	if s.store == nil {
		return nil, ErrRepositoryNotConfigured
	}
	advice, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if advice == nil {
		return nil, ErrAdviceNotFound
	}
	return advice, nil
}

// LatestForOrder returns the current advice of an order.
func (s *AdviceServiceImpl) LatestForOrder(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error) {
	if s.store == nil {
		return nil, ErrRepositoryNotConfigured
	}
	advice, err := s.store.LatestActive(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if advice == nil {
		return nil, ErrAdviceNotFound
	}
	return advice, nil
}

// List returns a page of the advice log.
func (s *AdviceServiceImpl) List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error) {
	if s.store == nil {
		return nil, 0, ErrRepositoryNotConfigured
	}
	return s.store.List(ctx, filter.Normalized())
}

func nonNilBoxes(boxes []model.AdviceBox) []model.AdviceBox {
	if boxes == nil {
		return []model.AdviceBox{}
	}
	return boxes
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
