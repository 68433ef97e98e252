//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const createPublishedCosts = `
CREATE TABLE published_box_costs (
	box_sku           TEXT NOT NULL,
	country_code      TEXT NOT NULL,
	price_tier        TEXT NOT NULL,
	carrier           TEXT,
	tariff_class      TEXT,
	weight_bracket    TEXT,
	is_pallet         BOOLEAN,
	box_material_cost DOUBLE PRECISION,
	box_pick_cost     DOUBLE PRECISION,
	box_pack_cost     DOUBLE PRECISION,
	transport_cost    DOUBLE PRECISION,
	total_cost        DOUBLE PRECISION
)`

func TestCostStore_LoadCosts_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := testutil.SetupPostgres(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Cleanup(ctx)
	})

	db, err := ConnectCostDB(container.DSN)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, err = db.ExecContext(ctx, createPublishedCosts)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `
INSERT INTO published_box_costs
	(box_sku, country_code, price_tier, carrier, weight_bracket, is_pallet, box_material_cost, box_pick_cost, transport_cost, total_cost)
VALUES
	('BOX-S', 'nl', 'standard', 'PostNL', '0-5kg', false, 0.8, 0.2, 6.0, 7.0),
	('BOX-S', 'NL', 'standard', 'PostNL', '', false, 0.8, 0.2, 9.0, 10.0),
	('BOX-L', 'BE', 'standard', 'DHL', NULL, false, 1.5, 0.3, 8.0, NULL),
	('BOX-S', 'NL', 'premium', 'PostNL', '0-5kg', false, 0.8, 0.2, 4.0, 5.0)`)
	require.NoError(t, err)

	t.Run("reads the configured price tier", func(t *testing.T) {
		store := NewCostStore(db, "")

		entries, err := store.LoadCosts(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, "BOX-S", e.BoxSKU)
			assert.Equal(t, "NL", e.CountryCode)
		}
	})

	t.Run("rows without total cost are skipped", func(t *testing.T) {
		store := NewCostStore(db, DefaultPriceTier)

		entries, err := store.LoadCosts(ctx)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotEqual(t, "BOX-L", e.BoxSKU)
		}
	})

	t.Run("other tier", func(t *testing.T) {
		store := NewCostStore(db, "premium")

		entries, err := store.LoadCosts(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 5.0, entries[0].TotalCost)
		require.NotNil(t, entries[0].WeightBracket)
	})

	t.Run("health check", func(t *testing.T) {
		assert.NoError(t, NewCostStore(db, "").HealthCheck(ctx))
	})
}
