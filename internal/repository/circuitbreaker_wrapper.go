package repository

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"go.mongodb.org/mongo-driver/mongo"
)

// storeAnswers are errors from a reachable store; they never count towards
// opening the circuit.
var storeAnswers = []error{ErrActiveAdviceExists, mongo.ErrNoDocuments}

// AdviceRepositoryWithCircuitBreaker wraps AdviceRepository with circuit breaker protection.
type AdviceRepositoryWithCircuitBreaker struct {
	repo           AdviceRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewAdviceRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewAdviceRepositoryWithCircuitBreaker(repo AdviceRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *AdviceRepositoryWithCircuitBreaker {
	return &AdviceRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// LatestActive returns the newest active advice with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) LatestActive(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error) {
	var result *model.PackagingAdviceResult
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.LatestActive(ctx, orderID)
		return cbErr
	})
	return result, err
}

// FindByID returns an advice with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) FindByID(ctx context.Context, id string) (*model.PackagingAdviceResult, error) {
	var result *model.PackagingAdviceResult
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.FindByID(ctx, id)
		return cbErr
	})
	return result, err
}

// Invalidate invalidates an advice with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) Invalidate(ctx context.Context, id string, at time.Time) error {
	return r.circuitBreaker.ExecuteTolerating(ctx, func() error {
		return r.repo.Invalidate(ctx, id, at)
	}, storeAnswers...)
}

// Insert stores an advice with circuit breaker protection. A lost insert race is
// reported to the caller without counting as a failure.
func (r *AdviceRepositoryWithCircuitBreaker) Insert(ctx context.Context, advice *model.PackagingAdviceResult) error {
	return r.circuitBreaker.ExecuteTolerating(ctx, func() error {
		return r.repo.Insert(ctx, advice)
	}, storeAnswers...)
}

// MarkApplied records written tags with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) MarkApplied(ctx context.Context, id string, tags []string, at time.Time) error {
	return r.circuitBreaker.ExecuteTolerating(ctx, func() error {
		return r.repo.MarkApplied(ctx, id, tags, at)
	}, storeAnswers...)
}

// SaveOutcome stores feedback with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) SaveOutcome(ctx context.Context, id string, outcome model.OutcomeRecord) error {
	return r.circuitBreaker.ExecuteTolerating(ctx, func() error {
		return r.repo.SaveOutcome(ctx, id, outcome)
	}, storeAnswers...)
}

// List returns a page of the advice log with circuit breaker protection.
func (r *AdviceRepositoryWithCircuitBreaker) List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error) {
	var (
		result []model.PackagingAdviceResult
		total  int64
	)
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, total, cbErr = r.repo.List(ctx, filter)
		return cbErr
	})
	return result, total, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *AdviceRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// CostStoreWithCircuitBreaker wraps CostStore with circuit breaker protection.
type CostStoreWithCircuitBreaker struct {
	store          CostStoreInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewCostStoreWithCircuitBreaker creates a new cost store wrapper with circuit breaker.
func NewCostStoreWithCircuitBreaker(store CostStoreInterface, cb *circuitbreaker.CircuitBreaker) *CostStoreWithCircuitBreaker {
	return &CostStoreWithCircuitBreaker{
		store:          store,
		circuitBreaker: cb,
	}
}

// LoadCosts reads the cost table with circuit breaker protection. An open circuit
// surfaces as an error so the cost cache reports cost data as unavailable.
func (s *CostStoreWithCircuitBreaker) LoadCosts(ctx context.Context) ([]model.CostEntry, error) {
	var result []model.CostEntry
	err := s.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = s.store.LoadCosts(ctx)
		return cbErr
	})
	return result, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *CostStoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}
