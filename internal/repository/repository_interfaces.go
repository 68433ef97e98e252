package repository

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// AdviceRepositoryInterface defines the interface for advice repository operations.
type AdviceRepositoryInterface interface {
	LatestActive(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error)
	FindByID(ctx context.Context, id string) (*model.PackagingAdviceResult, error)
	Invalidate(ctx context.Context, id string, at time.Time) error
	Insert(ctx context.Context, advice *model.PackagingAdviceResult) error
	MarkApplied(ctx context.Context, id string, tags []string, at time.Time) error
	SaveOutcome(ctx context.Context, id string, outcome model.OutcomeRecord) error
	List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error)
}

// CostStoreInterface defines the interface for reading the published cost table.
type CostStoreInterface interface {
	LoadCosts(ctx context.Context) ([]model.CostEntry, error)
}

var (
	_ AdviceRepositoryInterface = (*AdviceRepository)(nil)
	_ AdviceRepositoryInterface = (*AdviceRepositoryWithCircuitBreaker)(nil)
	_ CostStoreInterface        = (*CostStore)(nil)
	_ CostStoreInterface        = (*CostStoreWithCircuitBreaker)(nil)
)
