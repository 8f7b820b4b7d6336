// internal/pkg/logger/elk.go
package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"
)

// ELKConfig holds configuration for shipping logs to Elasticsearch
type ELKConfig struct {
	ElasticsearchURL string        `json:"elasticsearch_url"`
	IndexPattern     string        `json:"index_pattern"`
	BatchSize        int           `json:"batch_size"`
	FlushInterval    time.Duration `json:"flush_interval"`
	Username         string        `json:"username"`
	Password         string        `json:"password"`
	EnableBatching   bool          `json:"enable_batching"`
}

// ELKHandler mirrors records to Elasticsearch through the bulk API while
// delegating local output to the wrapped handler. Shipping is best-effort;
// a dead Elasticsearch never blocks or fails request handling.
type ELKHandler struct {
	client      *http.Client
	config      ELKConfig
	buffer      []LogEntry
	mu          sync.Mutex
	baseHandler slog.Handler
}

// LogEntry is the indexed document shape. Tenant and device ids are
// first-class fields so sync traffic can be filtered per tenant in Kibana.
type LogEntry struct {
	Timestamp   time.Time              `json:"@timestamp"`
	Level       string                 `json:"level"`
	Message     string                 `json:"message"`
	Service     string                 `json:"service"`
	Environment string                 `json:"environment"`
	Version     string                 `json:"version"`
	RequestID   string                 `json:"request_id,omitempty"`
	TenantID    string                 `json:"tenant_id,omitempty"`
	UserID      string                 `json:"user_id,omitempty"`
	DeviceID    string                 `json:"device_id,omitempty"`
	ClientIP    string                 `json:"client_ip,omitempty"`
	Fields      map[string]interface{} `json:"fields,omitempty"`
	Error       *ErrorInfo             `json:"error,omitempty"`
}

// ErrorInfo carries structured error details alongside the message
type ErrorInfo struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	StackTrace string `json:"stack_trace,omitempty"`
}

// NewELKHandler creates a handler shipping to the given cluster
func NewELKHandler(cfg ELKConfig, baseHandler slog.Handler) *ELKHandler {
	h := &ELKHandler{
		client:      &http.Client{Timeout: 10 * time.Second},
		config:      cfg,
		buffer:      make([]LogEntry, 0, cfg.BatchSize),
		baseHandler: baseHandler,
	}
	if cfg.EnableBatching {
		go h.flushLoop()
	}
	return h
}

func (h *ELKHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func (h *ELKHandler) Handle(ctx context.Context, record slog.Record) error {
	if err := h.baseHandler.Handle(ctx, record); err != nil {
		return err
	}

	entry := h.buildEntry(ctx, record)

	if !h.config.EnableBatching {
		go h.ship([]LogEntry{entry})
		return nil
	}

	h.mu.Lock()
	h.buffer = append(h.buffer, entry)
	full := len(h.buffer) >= h.config.BatchSize
	h.mu.Unlock()
	if full {
		go h.flush()
	}
	return nil
}

func (h *ELKHandler) buildEntry(ctx context.Context, record slog.Record) LogEntry {
	entry := LogEntry{
		Timestamp:   record.Time,
		Level:       record.Level.String(),
		Message:     record.Message,
		Service:     getContextString(ctx, ContextKeyService),
		Environment: getContextString(ctx, ContextKeyEnvironment),
		Version:     getContextString(ctx, ContextKeyVersion),
		RequestID:   getContextString(ctx, ContextKeyRequestID),
		TenantID:    getContextString(ctx, ContextKeyTenantID),
		UserID:      getContextString(ctx, ContextKeyUserID),
		DeviceID:    getContextString(ctx, ContextKeyDeviceID),
		ClientIP:    getContextString(ctx, ContextKeyClientIP),
		Fields:      make(map[string]interface{}),
	}

	record.Attrs(func(a slog.Attr) bool {
		entry.Fields[a.Key] = a.Value.Any()

		switch a.Key {
		case "error", "err":
			if err, ok := a.Value.Any().(error); ok {
				entry.Error = &ErrorInfo{
					Type:    fmt.Sprintf("%T", err),
					Message: err.Error(),
				}
			}
		case "stack", "stacktrace":
			if stack, ok := a.Value.Any().(string); ok && entry.Error != nil {
				entry.Error.StackTrace = stack
			}
		}
		return true
	})

	return entry
}

// ship posts one bulk request. Failures go to stderr only.
func (h *ELKHandler) ship(entries []LogEntry) {
	if len(entries) == 0 {
		return
	}

	index := fmt.Sprintf("%s-%s", h.config.IndexPattern, time.Now().Format("2006.01.02"))
	action, _ := json.Marshal(map[string]interface{}{
		"index": map[string]string{"_index": index},
	})

	var body bytes.Buffer
	for _, entry := range entries {
		doc, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		body.Write(action)
		body.WriteByte('\n')
		body.Write(doc)
		body.WriteByte('\n')
	}

	req, err := http.NewRequest(http.MethodPost, h.config.ElasticsearchURL+"/_bulk", &body)
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-ndjson")
	if h.config.Username != "" && h.config.Password != "" {
		req.SetBasicAuth(h.config.Username, h.config.Password)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to ship logs to Elasticsearch: %v\n", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		fmt.Fprintf(os.Stderr, "Elasticsearch bulk request returned %d\n", resp.StatusCode)
	}
}

func (h *ELKHandler) flush() {
	h.mu.Lock()
	if len(h.buffer) == 0 {
		h.mu.Unlock()
		return
	}
	entries := make([]LogEntry, len(h.buffer))
	copy(entries, h.buffer)
	h.buffer = h.buffer[:0]
	h.mu.Unlock()

	h.ship(entries)
}

func (h *ELKHandler) flushLoop() {
	ticker := time.NewTicker(h.config.FlushInterval)
	defer ticker.Stop()
	for range ticker.C {
		h.flush()
	}
}

func (h *ELKHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ELKHandler{
		client:      h.client,
		config:      h.config,
		buffer:      h.buffer,
		baseHandler: h.baseHandler.WithAttrs(attrs),
	}
}

func (h *ELKHandler) WithGroup(name string) slog.Handler {
	return &ELKHandler{
		client:      h.client,
		config:      h.config,
		buffer:      h.buffer,
		baseHandler: h.baseHandler.WithGroup(name),
	}
}

// getContextString reads a scope value from the context, accepting both
// plain strings and Stringer values like uuid.UUID.
func getContextString(ctx context.Context, key ContextKey) string {
	switch v := ctx.Value(key).(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
