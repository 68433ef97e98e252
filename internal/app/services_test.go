//go:build !integration

package app

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/pack-advice/config"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/guttosm/pack-advice/internal/repository"
	"github.com/guttosm/pack-advice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adviceByID serves a single stored advice; other methods are not used.
type adviceByID struct {
	repository.AdviceRepositoryInterface
	advice *model.PackagingAdviceResult
}

func (s *adviceByID) FindByID(_ context.Context, id string) (*model.PackagingAdviceResult, error) {
	if s.advice != nil && s.advice.ID == id {
		return s.advice, nil
	}
	return nil, nil
}

func testEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		MaxIterations:     20,
		ClassifyBatchSize: 5,
		TagPrefix:         "C-",
		Fields: config.FieldIDConfig{
			PotSize: 5768, Height: 5769, ProductType: 5770, Fragile: 5771, Mixable: 5772,
		},
	}
}

func TestInitializeServices(t *testing.T) {
	db := &DatabaseComponents{
		Advice: &adviceByID{},
	}

	t.Run("without order system", func(t *testing.T) {
		components := InitializeServices(testEngineConfig(), db, nil, nil)

		require.NotNil(t, components)
		assert.NotNil(t, components.Advice)
		assert.NotNil(t, components.Tags)
		assert.NotNil(t, components.Feedback)
	})

	t.Run("with order system and costs", func(t *testing.T) {
		orders := ordersystem.NewClient(ordersystem.Config{BaseURL: "http://orders.invalid"}, nil)
		costComponents := InitializeCosts(config.CostStoreConfig{TTL: time.Minute}, config.CircuitBreakerConfig{}, nil)

		components := InitializeServices(testEngineConfig(), db, costComponents, orders)

		require.NotNil(t, components)
		assert.NotNil(t, components.Advice)
	})
}

func TestInitializeServices_TagsWithoutOrderSystem(t *testing.T) {
	db := &DatabaseComponents{
		Advice: &adviceByID{advice: &model.PackagingAdviceResult{
			ID:          "adv-1",
			OrderID:     42,
			Confidence:  model.ConfidenceFullMatch,
			AdviceBoxes: []model.AdviceBox{{ContainerID: "c1"}},
		}},
	}

	components := InitializeServices(testEngineConfig(), db, nil, nil)

	_, err := components.Tags.Apply(context.Background(), "adv-1")
	assert.ErrorIs(t, err, service.ErrOrderSystemNotConfigured)
}
