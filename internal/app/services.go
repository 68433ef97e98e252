package app

import (
	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/guttosm/pack-advice/internal/service"
)

// ServiceComponents holds the business services.
type ServiceComponents struct {
	Advice   service.AdviceService
	Tags     service.TagApplier
	Feedback service.FeedbackService
}

// InitializeServices wires the advice engine. orders may be nil.
func InitializeServices(cfg config.EngineConfig, db *DatabaseComponents, costComponents *CostComponents, orders *ordersystem.Client) *ServiceComponents {
	// Interfaces stay nil rather than holding a nil *ordersystem.Client.
	var (
		syncer service.ProductSyncer
		tagger service.OrderTagger
	)
	if orders != nil {
		syncer = service.NewProductSyncService(orders, db.Catalog, service.FieldIDs{
			PotSize:     cfg.Fields.PotSize,
			Height:      cfg.Fields.Height,
			ProductType: cfg.Fields.ProductType,
			Fragile:     cfg.Fields.Fragile,
			Mixable:     cfg.Fields.Mixable,
		})
		tagger = orders
	}

	var costSource service.CostSource
	if costComponents != nil && costComponents.Provider != nil {
		costSource = costComponents.Provider
	}

	classifier := service.NewClassifier(db.Catalog, syncer, cfg.ClassifyBatchSize)
	advice := service.NewAdviceService(
		classifier,
		db.Catalog,
		db.Containers,
		costSource,
		db.Advice,
		service.WithSolver(service.NewSolver(service.WithMaxIterations(cfg.MaxIterations))),
	)

	return &ServiceComponents{
		Advice:   advice,
		Tags:     service.NewTagApplierService(db.Advice, tagger, cfg.TagPrefix),
		Feedback: service.NewFeedbackService(db.Advice),
	}
}
