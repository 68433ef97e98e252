package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/circuitbreaker"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/guttosm/pack-advice/internal/domain/model"
	"github.com/guttosm/pack-advice/internal/middleware"
	"github.com/guttosm/pack-advice/internal/ordersystem"
	"github.com/guttosm/pack-advice/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adviceMocks struct {
	advice   *mockAdviceService
	tags     *mockTagApplier
	feedback *mockFeedbackService
}

func setupAdviceRouter(opts ...AdviceHandlerOption) (*gin.Engine, adviceMocks) {
	gin.SetMode(gin.TestMode)
	m := adviceMocks{
		advice:   new(mockAdviceService),
		tags:     new(mockTagApplier),
		feedback: new(mockFeedbackService),
	}
	router := gin.New()
	router.Use(middleware.RequestID())
	NewAdviceRoutes(NewAdviceHandler(m.advice, m.tags, m.feedback, opts...)).Register(router.Group("/api"))
	return router, m
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAdviceHandler_Calculate(t *testing.T) {
	advice := &model.PackagingAdviceResult{ID: "adv-1", OrderID: 12345, Confidence: model.ConfidenceFullMatch}

	tests := []struct {
		name           string
		body           string
		setup          func(*mockAdviceService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "valid request",
			body: `{"orderId": 12345, "countryCode": "nl", "products": [{"productId": 1001, "productCode": "PLANT-12", "quantity": 2}]}`,
			setup: func(m *mockAdviceService) {
				m.On("Calculate", mock.Anything, service.AdviceRequest{
					OrderID:     12345,
					CountryCode: "NL",
					Products:    []model.OrderProduct{{ProductID: 1001, ProductCode: "PLANT-12", Quantity: 2}},
				}).Return(advice, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed JSON",
			body:           `{"orderId": }`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
		},
		{
			name:           "missing order id",
			body:           `{"products": [{"productId": 1, "productCode": "A", "quantity": 1}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
		},
		{
			name:           "empty product list",
			body:           `{"orderId": 1, "products": []}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
		},
		{
			name:           "zero quantity",
			body:           `{"orderId": 1, "products": [{"productId": 1, "productCode": "A", "quantity": 0}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
		},
		{
			name:           "unsupported country",
			body:           `{"orderId": 1, "countryCode": "US", "products": [{"productId": 1, "productCode": "A", "quantity": 1}]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  dto.ErrCodeInvalidRequest,
		},
		{
			name: "concurrent replacement",
			body: `{"orderId": 1, "products": [{"productId": 1, "productCode": "A", "quantity": 1}]}`,
			setup: func(m *mockAdviceService) {
				m.On("Calculate", mock.Anything, mock.Anything).Return(nil, service.ErrAdviceConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedError:  dto.ErrCodeConflict,
		},
		{
			name: "store failure",
			body: `{"orderId": 1, "products": [{"productId": 1, "productCode": "A", "quantity": 1}]}`,
			setup: func(m *mockAdviceService) {
				m.On("Calculate", mock.Anything, mock.Anything).Return(nil, errors.New("store advice: timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupAdviceRouter()
			if tt.setup != nil {
				tt.setup(m.advice)
			}

			w := doJSON(router, http.MethodPost, "/api/advice/calculate", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w).Error)
				return
			}
			assert.Contains(t, w.Body.String(), `"confidence":"full_match"`)
			m.advice.AssertExpectations(t)
		})
	}
}

func TestAdviceHandler_Calculate_AllowedCountries(t *testing.T) {
	router, m := setupAdviceRouter(WithAllowedCountries([]string{"US"}))
	m.advice.On("Calculate", mock.Anything, mock.MatchedBy(func(r service.AdviceRequest) bool {
		return r.CountryCode == "US"
	})).Return(&model.PackagingAdviceResult{ID: "adv-us"}, nil)

	w := doJSON(router, http.MethodPost, "/api/advice/calculate",
		`{"orderId": 1, "countryCode": "us", "products": [{"productId": 1, "productCode": "A", "quantity": 1}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdviceHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedFilter model.AdviceFilter
		expectedStatus int
	}{
		{
			name:           "defaults",
			query:          "",
			expectedFilter: model.AdviceFilter{Limit: model.DefaultAdviceLogLimit},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "filters and paging",
			query:          "?confidence=partial_match&outcome=pending&limit=500&offset=40",
			expectedFilter: model.AdviceFilter{Confidence: "partial_match", Outcome: "pending", Limit: model.MaxAdviceLogLimit, Offset: 40},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "non-numeric limit",
			query:          "?limit=ten",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupAdviceRouter()
			m.advice.On("List", mock.Anything, tt.expectedFilter).
				Return([]model.PackagingAdviceResult{{ID: "adv-1"}}, int64(41), nil).Maybe()

			w := doJSON(router, http.MethodGet, "/api/advice"+tt.query, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				m.advice.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
				return
			}
			var resp struct {
				Data dto.AdviceLogResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, int64(41), resp.Data.Total)
			assert.Equal(t, tt.expectedFilter.Limit, resp.Data.Limit)
			assert.Len(t, resp.Data.Items, 1)
		})
	}
}

func TestAdviceHandler_Get(t *testing.T) {
	router, m := setupAdviceRouter()
	m.advice.On("Get", mock.Anything, "adv-1").Return(&model.PackagingAdviceResult{ID: "adv-1"}, nil)
	m.advice.On("Get", mock.Anything, "missing").Return(nil, service.ErrAdviceNotFound)

	w := doJSON(router, http.MethodGet, "/api/advice/adv-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"adv-1"`)

	w = doJSON(router, http.MethodGet, "/api/advice/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Error)
}

func TestAdviceHandler_LatestForOrder(t *testing.T) {
	tests := []struct {
		name           string
		orderID        string
		setup          func(*mockAdviceService)
		expectedStatus int
	}{
		{
			name:    "active advice",
			orderID: "777",
			setup: func(m *mockAdviceService) {
				m.On("LatestForOrder", mock.Anything, int64(777)).Return(&model.PackagingAdviceResult{ID: "adv-7", OrderID: 777}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "no advice",
			orderID: "778",
			setup: func(m *mockAdviceService) {
				m.On("LatestForOrder", mock.Anything, int64(778)).Return(nil, service.ErrAdviceNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{name: "non-numeric id", orderID: "abc", expectedStatus: http.StatusBadRequest},
		{name: "negative id", orderID: "-4", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupAdviceRouter()
			if tt.setup != nil {
				tt.setup(m.advice)
			}

			w := doJSON(router, http.MethodGet, "/api/orders/"+tt.orderID+"/advice", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAdviceHandler_ApplyTags(t *testing.T) {
	tests := []struct {
		name           string
		result         []string
		err            error
		expectedStatus int
	}{
		{name: "tags written", result: []string{"C-Box S"}, expectedStatus: http.StatusOK},
		{name: "unknown advice", err: service.ErrAdviceNotFound, expectedStatus: http.StatusNotFound},
		{name: "order system error status", err: fmt.Errorf("read order tags: %w", &ordersystem.StatusError{Method: http.MethodGet, Path: "/orders/1/tags", Status: http.StatusInternalServerError}), expectedStatus: http.StatusBadGateway},
		{name: "order system rate limited", err: ordersystem.ErrRateLimited, expectedStatus: http.StatusBadGateway},
		{name: "order system circuit open", err: circuitbreaker.ErrCircuitOpen, expectedStatus: http.StatusServiceUnavailable},
		{name: "order system not configured", err: service.ErrOrderSystemNotConfigured, expectedStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupAdviceRouter()
			if tt.err != nil {
				m.tags.On("Apply", mock.Anything, "adv-1").Return(nil, tt.err)
			} else {
				m.tags.On("Apply", mock.Anything, "adv-1").Return(tt.result, nil)
			}

			w := doJSON(router, http.MethodPost, "/api/advice/adv-1/apply-tags", "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.err == nil {
				var resp struct {
					Data dto.ApplyTagsResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "adv-1", resp.Data.AdviceID)
				assert.Equal(t, tt.result, resp.Data.TagsWritten)
			}
		})
	}
}

func TestAdviceHandler_RecordOutcome(t *testing.T) {
	t.Run("records the outcome", func(t *testing.T) {
		router, m := setupAdviceRouter()
		m.feedback.On("RecordOutcome", mock.Anything, "adv-1", []model.ActualBox{{ExternalContainerID: 42}}).
			Return(&model.OutcomeRecord{Outcome: model.OutcomeFollowed, Deviation: model.DeviationNone}, nil)

		w := doJSON(router, http.MethodPost, "/api/advice/adv-1/outcome", `{"actualBoxes": [{"externalContainerId": 42}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"outcome":"followed"`)
	})

	t.Run("box without container id", func(t *testing.T) {
		router, m := setupAdviceRouter()

		w := doJSON(router, http.MethodPost, "/api/advice/adv-1/outcome", `{"actualBoxes": [{"name": "Box S"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.feedback.AssertNotCalled(t, "RecordOutcome", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown advice", func(t *testing.T) {
		router, m := setupAdviceRouter()
		m.feedback.On("RecordOutcome", mock.Anything, "missing", mock.Anything).Return(nil, service.ErrAdviceNotFound)

		w := doJSON(router, http.MethodPost, "/api/advice/missing/outcome", `{"actualBoxes": []}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
