// internal/pkg/logger/logger_test.go
package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestContextHandler_EnrichesFromContext(t *testing.T) {
	var buf bytes.Buffer
	handler := NewContextHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	tenantID := uuid.New()
	ctx := context.WithValue(context.Background(), ContextKeyTenantID, tenantID)
	ctx = context.WithValue(ctx, ContextKeyRequestID, "req-123")
	ctx = context.WithValue(ctx, ContextKeyDeviceID, "tablet-1")

	log.InfoContext(ctx, "replay finished")

	record := captureJSON(t, &buf)
	assert.Equal(t, tenantID.String(), record["tenant_id"])
	assert.Equal(t, "req-123", record["request_id"])
	assert.Equal(t, "tablet-1", record["device_id"])
}

func TestContextHandler_PlainContextPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	handler := NewContextHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	log.Info("no scope", slog.String("key", "value"))

	record := captureJSON(t, &buf)
	assert.Equal(t, "value", record["key"])
	assert.NotContains(t, record, "tenant_id")
}

func TestSanitizationHandler(t *testing.T) {
	tests := []struct {
		name     string
		attrs    []any
		wantKey  string
		wantVal  string
	}{
		{
			name:    "redacts_blacklisted_key",
			attrs:   []any{slog.String("db_password", "hunter2")},
			wantKey: "db_password",
			wantVal: "***REDACTED***",
		},
		{
			name:    "redacts_token_key",
			attrs:   []any{slog.String("api_key", "sk-live-abc")},
			wantKey: "api_key",
			wantVal: "***REDACTED***",
		},
		{
			name:    "keeps_ordinary_fields",
			attrs:   []any{slog.String("entity_type", "product")},
			wantKey: "entity_type",
			wantVal: "product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
			log := slog.New(handler)

			log.Info("test", tt.attrs...)

			record := captureJSON(t, &buf)
			assert.Equal(t, tt.wantVal, record[tt.wantKey])
		})
	}
}

func TestSanitizationHandler_MasksMessageSecrets(t *testing.T) {
	var buf bytes.Buffer
	handler := NewSanitizationHandler(slog.NewJSONHandler(&buf, nil))
	log := slog.New(handler)

	log.Info("connecting with password=supersecret")

	record := captureJSON(t, &buf)
	msg := record["msg"].(string)
	assert.NotContains(t, msg, "supersecret")
	assert.Contains(t, msg, "***REDACTED***")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var first, second bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&first, nil),
		slog.NewJSONHandler(&second, nil),
	)
	log := slog.New(handler)

	log.Info("fan out")

	assert.Contains(t, first.String(), "fan out")
	assert.Contains(t, second.String(), "fan out")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Leveler
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.input), "level %q", tt.input)
	}
}

func TestNewLogger_JSONSeverityKey(t *testing.T) {
	// The JSON format renames "level" to "severity" for log aggregators.
	// NewLogger writes to stdout, so exercise replaceAttr directly.
	cfg := &LogConfig{Format: "json"}
	attr := replaceAttr(cfg, nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	assert.Equal(t, "severity", attr.Key)

	cfg = &LogConfig{Format: "text"}
	attr = replaceAttr(cfg, nil, slog.Any(slog.LevelKey, slog.LevelInfo))
	assert.Equal(t, slog.LevelKey, attr.Key)
}
