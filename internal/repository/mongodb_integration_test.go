//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoDB_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	uri := testutil.SharedMongoURI(t)
	dbName := testutil.UniqueDatabaseName(t)

	db, err := NewMongoDB(uri, dbName)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	t.Run("connection successful", func(t *testing.T) {
		assert.NotNil(t, db.Client)
		assert.NotNil(t, db.Database)
		assert.NotNil(t, db.Containers)
		assert.NotNil(t, db.CompartmentRules)
		assert.NotNil(t, db.ProductAttributes)
		assert.NotNil(t, db.CompositionParts)
		assert.NotNil(t, db.ShippingUnits)
		assert.NotNil(t, db.Advice)
	})

	t.Run("health check", func(t *testing.T) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		assert.NoError(t, db.HealthCheck(pingCtx))
	})

	t.Run("active advice index is partial and unique", func(t *testing.T) {
		cursor, err := db.Advice.Indexes().List(ctx)
		require.NoError(t, err)
		var indexes []bson.M
		require.NoError(t, cursor.All(ctx, &indexes))

		var found bson.M
		for _, idx := range indexes {
			if idx["name"] == "order_id_active_unique" {
				found = idx
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, true, found["unique"])
		assert.NotNil(t, found["partialFilterExpression"])
	})

	t.Run("reconnecting keeps existing indexes", func(t *testing.T) {
		again, err := NewMongoDB(uri, dbName)
		require.NoError(t, err)
		require.NoError(t, again.Close(ctx))
	})
}
