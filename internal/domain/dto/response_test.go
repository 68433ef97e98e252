package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrCodeFromStatus(t *testing.T) {
	tests := map[int]string{
		http.StatusBadRequest:          ErrCodeInvalidRequest,
		http.StatusUnprocessableEntity: ErrCodeInvalidRequest,
		http.StatusUnauthorized:        ErrCodeUnauthorized,
		http.StatusForbidden:           ErrCodeInternal,
		http.StatusNotFound:            ErrCodeNotFound,
		http.StatusMethodNotAllowed:    ErrCodeMethodNotAllowed,
		http.StatusConflict:            ErrCodeConflict,
		http.StatusTooManyRequests:     ErrCodeRateLimit,
		http.StatusInternalServerError: ErrCodeInternal,
		http.StatusBadGateway:          ErrCodeUnavailable,
		http.StatusServiceUnavailable:  ErrCodeUnavailable,
		http.StatusGatewayTimeout:      ErrCodeTimeout,
	}
	for status, want := range tests {
		t.Run(http.StatusText(status), func(t *testing.T) {
			assert.Equal(t, want, ErrCodeFromStatus(status))
		})
	}
}

func TestErrorResponse_JSON(t *testing.T) {
	resp := NewError(ErrCodeNotFound, "Packaging advice not found").WithRequestID("req-1")
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Second)
	assert.Equal(t, time.UTC, resp.Timestamp.Location())

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "not_found", fields["error"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.NotContains(t, fields, "details", "empty details are omitted")
}

func TestErrorResponse_WithRequestIDCopies(t *testing.T) {
	base := NewError(ErrCodeConflict, "busy")
	tagged := base.WithRequestID("req-2")

	assert.Empty(t, base.RequestID)
	assert.Equal(t, "req-2", tagged.RequestID)
}
