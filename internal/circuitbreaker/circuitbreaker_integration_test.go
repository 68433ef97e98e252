//go:build integration

package circuitbreaker_test

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/repository"
	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerWithMongoDB_Integration(t *testing.T) {
	ctx := context.Background()

	mongoContainer, err := testutil.SetupMongoDB(ctx)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, mongoContainer.Cleanup(ctx))
	}()

	db, err := repository.NewMongoDB(mongoContainer.URI, "test_pack_advice")
	require.NoError(t, err)
	defer func() {
		_ = db.Close(ctx)
	}()

	newBreaker := func(name string) *circuitbreaker.CircuitBreaker {
		return circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 2,
			SuccessThreshold: 1,
			Timeout:          100 * time.Millisecond,
			Name:             name,
		})
	}

	t.Run("circuit breaker protects advice repository", func(t *testing.T) {
		cb := newBreaker("test-advice")
		repo := repository.NewAdviceRepositoryWithCircuitBreaker(repository.NewAdviceRepository(db), cb)

		fp := "fp-cb"
		advice := &model.PackagingAdviceResult{
			ID:                    "cb-advice-1",
			OrderID:               9001,
			Status:                model.StatusCalculated,
			Confidence:            model.ConfidenceNoMatch,
			AdviceBoxes:           []model.AdviceBox{},
			DetectedShippingUnits: []model.ShippingUnitEntry{},
			UnclassifiedProducts:  []string{},
			TagsWritten:           []string{},
			Fingerprint:           &fp,
			Active:                true,
			CalculatedAt:          time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, repo.Insert(ctx, advice))

		latest, err := repo.LatestActive(ctx, 9001)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "cb-advice-1", latest.ID)

		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
		assert.True(t, cb.GetStats().IsHealthy)
	})

	t.Run("circuit breaker stays closed on duplicate active advice", func(t *testing.T) {
		cb := newBreaker("test-advice-conflict")
		repo := repository.NewAdviceRepositoryWithCircuitBreaker(repository.NewAdviceRepository(db), cb)

		for i, id := range []string{"cb-dup-1", "cb-dup-2", "cb-dup-3"} {
			fp := "fp-" + id
			err := repo.Insert(ctx, &model.PackagingAdviceResult{
				ID:           id,
				OrderID:      9002,
				Status:       model.StatusCalculated,
				Confidence:   model.ConfidenceNoMatch,
				Fingerprint:  &fp,
				Active:       true,
				CalculatedAt: time.Now().UTC(),
			})
			if i == 0 {
				require.NoError(t, err)
				continue
			}
			assert.ErrorIs(t, err, repository.ErrActiveAdviceExists)
		}
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	})

	t.Run("circuit breaker opens on a closed connection", func(t *testing.T) {
		closed, err := repository.NewMongoDB(mongoContainer.URI, "test_pack_advice_closed")
		require.NoError(t, err)
		require.NoError(t, closed.Close(ctx))

		cb := newBreaker("test-closed")
		repo := repository.NewAdviceRepositoryWithCircuitBreaker(repository.NewAdviceRepository(closed), cb)

		for i := 0; i < 2; i++ {
			_, err := repo.FindByID(ctx, "missing")
			assert.Error(t, err)
		}
		assert.True(t, cb.IsOpen())

		_, err = repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	})
}
