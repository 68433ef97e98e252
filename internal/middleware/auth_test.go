package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]bool{"warehouse-eu": true, "packing-station": true}

	tests := []struct {
		name       string
		keys       map[string]bool
		header     string
		query      string
		language   string
		wantStatus int
		wantBody   string
		wantClient bool
	}{
		{name: "header key", keys: keys, header: "warehouse-eu", wantStatus: http.StatusOK, wantClient: true},
		{name: "query key", keys: keys, query: "packing-station", wantStatus: http.StatusOK, wantClient: true},
		{name: "header wins over query", keys: keys, header: "warehouse-eu", query: "wrong", wantStatus: http.StatusOK, wantClient: true},
		{name: "missing key", keys: keys, wantStatus: http.StatusUnauthorized, wantBody: "API key is required"},
		{name: "unknown key", keys: keys, header: "stolen", wantStatus: http.StatusUnauthorized, wantBody: "Invalid API key"},
		{name: "unknown key in dutch", keys: keys, header: "stolen", language: "nl", wantStatus: http.StatusUnauthorized, wantBody: "Ongeldige API-sleutel"},
		{name: "disabled with nil keys", keys: nil, wantStatus: http.StatusOK},
		{name: "disabled with empty keys", keys: map[string]bool{}, header: "anything", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var client string
			router := gin.New()
			router.Use(RequestID(), APIKeyAuth(tt.keys))
			router.GET("/api/advice", func(c *gin.Context) {
				client = c.GetString(APIClientKey)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/advice", nil)
			if tt.header != "" {
				req.Header.Set(APIKeyHeader, tt.header)
			}
			if tt.query != "" {
				req.URL.RawQuery = APIKeyQuery + "=" + tt.query
			}
			if tt.language != "" {
				req.Header.Set("Accept-Language", tt.language)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
				assert.Contains(t, w.Body.String(), `"error":"unauthorized"`)
			}
			if tt.wantClient {
				presented := tt.header
				if presented == "" {
					presented = tt.query
				}
				require.NotEmpty(t, presented)
				assert.NotEmpty(t, client)
				assert.NotContains(t, client, presented, "client id must not leak the key")
			}
		})
	}
}

func TestClientID_StablePerKey(t *testing.T) {
	assert.Equal(t, clientID("warehouse-eu"), clientID("warehouse-eu"))
	assert.NotEqual(t, clientID("warehouse-eu"), clientID("packing-station"))
}
