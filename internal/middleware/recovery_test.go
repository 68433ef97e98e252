package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/pack-advice/internal/domain/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   string
		wantLogged bool
	}{
		{
			name:       "panic becomes internal error",
			handler:    func(*gin.Context) { panic("solver exploded") },
			wantStatus: http.StatusInternalServerError,
			wantLogged: true,
		},
		{
			name: "panic after write keeps the response",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "partial")
				panic("late failure")
			},
			wantStatus: http.StatusOK,
			wantBody:   "partial",
			wantLogged: true,
		},
		{
			name:       "no panic passes through",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)

			router := gin.New()
			router.Use(RequestID(), Recovery())
			router.POST("/api/advice/calculate", tt.handler)

			req := httptest.NewRequest(http.MethodPost, "/api/advice/calculate", nil)
			req.Header.Set(RequestIDHeader, "req-panic-1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
			if tt.wantStatus == http.StatusInternalServerError {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrCodeInternal, resp.Error)
				assert.Equal(t, "req-panic-1", resp.RequestID)
			}
			if tt.wantLogged {
				assert.Contains(t, logs.String(), "PANIC recovered")
				assert.Contains(t, logs.String(), `"request_id":"req-panic-1"`)
				assert.Contains(t, logs.String(), `"stack"`)
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}
