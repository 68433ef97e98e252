//go:build integration

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/middleware"
	"github.com/guttosm/pack-advice/internal/repository"
	"github.com/guttosm/pack-advice/internal/service"
	"github.com/guttosm/pack-advice/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, ctx context.Context, db *repository.MongoDB) {
	t.Helper()
	weight := 600
	unitID := "su-12"

	_, err := db.ShippingUnits.InsertOne(ctx, model.ShippingUnit{ID: unitID, Name: "Pot 12", ProductType: "Kamerplant", Active: true})
	require.NoError(t, err)
	_, err = db.Containers.InsertOne(ctx, model.Container{ID: "box-s", ExternalID: 42, Name: "Box S", Active: true, UseInAdvice: true})
	require.NoError(t, err)
	_, err = db.CompartmentRules.InsertOne(ctx, model.CompartmentRule{
		ID: "rule-1", ContainerID: "box-s", RuleGroup: 1, ShippingUnitID: unitID, Quantity: 2, Operator: model.OperatorAnd, Active: true,
	})
	require.NoError(t, err)
	_, err = db.ProductAttributes.InsertOne(ctx, model.ProductAttributes{
		ProductID:            1001,
		ProductCode:          "PLANT-12",
		WeightGrams:          &weight,
		IsMixable:            true,
		ShippingUnitID:       &unitID,
		ClassificationStatus: model.ClassificationClassified,
	})
	require.NoError(t, err)
}

func TestAdviceHandler_Integration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	db, err := repository.NewMongoDB(testutil.SharedMongoURI(t), testutil.UniqueDatabaseName(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(ctx) })
	seedCatalog(t, ctx, db)

	catalog := repository.NewCatalogRepository(db)
	containers := repository.NewContainerRepository(db)
	store := repository.NewAdviceRepository(db)
	advice := service.NewAdviceService(service.NewClassifier(catalog, nil, 0), catalog, containers, nil, store)

	router := gin.New()
	router.Use(middleware.RequestID())
	NewAdviceRoutes(NewAdviceHandler(advice, service.NewTagApplierService(store, nil, ""), service.NewFeedbackService(store))).
		Register(router.Group("/api"))

	body := `{"orderId": 555, "countryCode": "NL", "products": [{"productId": 1001, "productCode": "PLANT-12", "quantity": 2}]}`

	w := doJSON(router, http.MethodPost, "/api/advice/calculate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var first struct {
		Data model.PackagingAdviceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, model.ConfidenceFullMatch, first.Data.Confidence)
	require.Len(t, first.Data.AdviceBoxes, 1)
	assert.Equal(t, "box-s", first.Data.AdviceBoxes[0].ContainerID)

	t.Run("unchanged order returns the stored advice", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/advice/calculate", body)
		require.Equal(t, http.StatusOK, w.Code)
		var again struct {
			Data model.PackagingAdviceResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
		assert.Equal(t, first.Data.ID, again.Data.ID)
	})

	t.Run("order lookup", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/orders/555/advice", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), first.Data.ID)
	})

	t.Run("outcome and pending filter", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/advice?outcome=pending", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), first.Data.ID)

		w = doJSON(router, http.MethodPost, "/api/advice/"+first.Data.ID+"/outcome", `{"actualBoxes": [{"externalContainerId": 42}]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"outcome":"followed"`)

		w = doJSON(router, http.MethodGet, "/api/advice?outcome=followed", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), first.Data.ID)

		w = doJSON(router, http.MethodGet, "/api/advice?outcome=pending", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), first.Data.ID)
	})

	t.Run("tags need an order system", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/advice/"+first.Data.ID+"/apply-tags", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
