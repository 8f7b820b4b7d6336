// internal/workers/notify_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/pkg/config"
)

// NotifyProcessor handles sync:notify tasks. Actual transport (email, push,
// webhooks) is a tenant-channel concern outside this service; the processor
// renders the notice and records delivery in the log stream.
type NotifyProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewNotifyProcessor creates a new notify processor
func NewNotifyProcessor(cfg *config.Config, logger *slog.Logger) *NotifyProcessor {
	return &NotifyProcessor{
		config: cfg,
		logger: logger.With(slog.String("processor", "notify")),
	}
}

// ProcessNotify delivers one sync outcome notice
func (p *NotifyProcessor) ProcessNotify(ctx context.Context, t *asynq.Task) error {
	var payload NotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal notify payload: %v: %w", err, asynq.SkipRetry)
	}

	subject := renderSubject(payload.Kind)

	p.logger.InfoContext(ctx, "sync notice delivered",
		slog.String("tenant_id", payload.TenantID.String()),
		slog.String("kind", payload.Kind),
		slog.String("subject", subject),
		slog.Any("details", payload.Details))

	return nil
}

// renderSubject maps a notice kind to its human summary line
func renderSubject(kind string) string {
	switch kind {
	case ports.NotifyJobFailures:
		return "Some offline changes could not be applied"
	case ports.NotifyConflicts:
		return "Offline changes were applied over newer server data"
	default:
		return "Sync notice: " + kind
	}
}
