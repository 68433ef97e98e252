//go:build !integration

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	var buf bytes.Buffer
	InitWithWriter(level, false, &buf)
	return &buf
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestInit_StampsServiceAndFiltersLevel(t *testing.T) {
	buf := captureLogs(t, "warn")

	log.Info().Msg("solver iteration")
	assert.Zero(t, buf.Len(), "info must be filtered at warn level")

	log.Warn().Int("iteration", 3).Msg("allocation stopped")
	entry := lastLine(t, buf)
	assert.Equal(t, ServiceName, entry["service"])
	assert.Equal(t, "allocation stopped", entry["message"])
	assert.EqualValues(t, 3, entry["iteration"])
}

func TestInit_Pretty(t *testing.T) {
	prevLogger := log.Logger
	defer func() { log.Logger = prevLogger }()

	var buf bytes.Buffer
	InitWithWriter("info", true, &buf)
	log.Info().Msg("server starting")

	assert.Contains(t, buf.String(), "server starting")
	assert.NotContains(t, buf.String(), `"message"`)
}

func TestComponent(t *testing.T) {
	buf := captureLogs(t, "info")

	l := Component("cost_provider")
	l.Warn().Str("cost_sku", "BOX-S").Msg("Container cost SKU not found in cost table")

	entry := lastLine(t, buf)
	assert.Equal(t, "cost_provider", entry["component"])
	assert.Equal(t, "BOX-S", entry["cost_sku"])
}

func TestFromContext(t *testing.T) {
	buf := captureLogs(t, "info")

	t.Run("request logger", func(t *testing.T) {
		ctx := WithRequestID(context.Background(), "req-42")
		FromContext(ctx).Info().Msg("advice calculated")

		entry := lastLine(t, buf)
		assert.Equal(t, "req-42", entry["request_id"])
		assert.Equal(t, ServiceName, entry["service"])
	})

	t.Run("falls back to global logger", func(t *testing.T) {
		FromContext(context.Background()).Info().Msg("no request")

		entry := lastLine(t, buf)
		assert.NotContains(t, entry, "request_id")
		assert.Equal(t, "no request", entry["message"])
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck // nil is accepted on purpose
		assert.NotNil(t, FromContext(nil))
	})
}
