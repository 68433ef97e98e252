// Package service provides the packaging advice engine.
package service

import (
	"context"
	"time"

	"github.com/guttosm/pack-advice/internal/domain/model"
)

// Catalog reads product classification data.
type Catalog interface {
	ProductAttributes(ctx context.Context, productIDs []int64) (map[int64]model.ProductAttributes, error)
	CompositionParts(ctx context.Context, parentIDs []int64) (map[int64][]model.CompositionPart, error)
	ShippingUnitNames(ctx context.Context, unitIDs []string) (map[string]string, error)
	// DefaultContainers maps a shipping unit id to its configured default container id.
	DefaultContainers(ctx context.Context, unitIDs []string) (map[string]string, error)
}

// CatalogWriter stores the result of an on-demand product sync.
type CatalogWriter interface {
	UpsertProductAttributes(ctx context.Context, attrs model.ProductAttributes) error
	ReplaceCompositionParts(ctx context.Context, parentID int64, parts []model.CompositionPart) error
	ActiveShippingUnits(ctx context.Context, productType string) ([]model.ShippingUnit, error)
	SetClassification(ctx context.Context, productID int64, unitID *string, status model.ClassificationStatus) error
}

// ProductSyncer fetches, stores and classifies a product unknown to the catalog.
type ProductSyncer interface {
	SyncAndClassify(ctx context.Context, productID int64) error
}

// RuleStore reads containers and their compartment rules.
type RuleStore interface {
	ListAdviceContainers(ctx context.Context) ([]model.Container, error)
	ContainersByID(ctx context.Context, ids []string) (map[string]model.Container, error)
	ActiveRules(ctx context.Context, containerIDs []string) ([]model.CompartmentRule, error)
}

// CostSource returns cost entries per SKU; ok is false when cost data is unavailable.
type CostSource interface {
	CostsForCountry(ctx context.Context, countryCode string) (model.CountryCosts, bool)
}

// AdviceStore persists advice records.
type AdviceStore interface {
	// LatestActive returns the newest non-invalidated advice for the order, or nil.
	LatestActive(ctx context.Context, orderID int64) (*model.PackagingAdviceResult, error)
	Invalidate(ctx context.Context, id string, at time.Time) error
	// Insert stores a new active advice; it fails with repository.ErrActiveAdviceExists
	// when another active advice for the order was stored first.
	Insert(ctx context.Context, advice *model.PackagingAdviceResult) error
	FindByID(ctx context.Context, id string) (*model.PackagingAdviceResult, error)
	MarkApplied(ctx context.Context, id string, tags []string, at time.Time) error
	SaveOutcome(ctx context.Context, id string, outcome model.OutcomeRecord) error
	List(ctx context.Context, filter model.AdviceFilter) ([]model.PackagingAdviceResult, int64, error)
}

// OrderTagger reads and mutates order tags in the order system.
type OrderTagger interface {
	OrderTags(ctx context.Context, orderID int64) ([]model.Tag, error)
	TagDefinitions(ctx context.Context) ([]model.Tag, error)
	AddOrderTag(ctx context.Context, orderID, tagID int64) error
	RemoveOrderTag(ctx context.Context, orderID, tagID int64) error
}
