// internal/adapters/queue/enqueuer.go
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/workers"
)

// Enqueuer schedules sync background tasks on asynq. It implements both the
// TaskEnqueuer and Notifier ports; notifications are just low-priority tasks.
type Enqueuer struct {
	client *asynq.Client
	logger *slog.Logger
}

var (
	_ ports.TaskEnqueuer = (*Enqueuer)(nil)
	_ ports.Notifier     = (*Enqueuer)(nil)
)

// NewEnqueuer creates a new task enqueuer
func NewEnqueuer(client *asynq.Client, logger *slog.Logger) *Enqueuer {
	return &Enqueuer{
		client: client,
		logger: logger.With(slog.String("component", "enqueuer")),
	}
}

// EnqueueReplay schedules replay of an uploaded job. The task id is the job
// id, so re-admitting the same job never double-enqueues.
func (e *Enqueuer) EnqueueReplay(ctx context.Context, tenantID, jobID uuid.UUID) error {
	payload, err := json.Marshal(workers.ReplayPayload{TenantID: tenantID, JobID: jobID})
	if err != nil {
		return fmt.Errorf("failed to encode replay payload: %w", err)
	}

	task := asynq.NewTask(workers.TypeSyncReplay, payload)
	info, err := e.client.EnqueueContext(ctx, task,
		asynq.TaskID(jobID.String()),
		asynq.Queue("critical"),
		asynq.MaxRetry(5),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			e.logger.InfoContext(ctx, "replay task already enqueued",
				slog.String("job_id", jobID.String()))
			return nil
		}
		return fmt.Errorf("failed to enqueue replay task: %w", err)
	}

	e.logger.InfoContext(ctx, "replay task enqueued",
		slog.String("job_id", jobID.String()),
		slog.String("task_id", info.ID),
		slog.String("queue", info.Queue))

	return nil
}

// Notify schedules delivery of a sync outcome notice
func (e *Enqueuer) Notify(ctx context.Context, tenantID uuid.UUID, kind string, details map[string]interface{}) error {
	payload, err := json.Marshal(workers.NotifyPayload{TenantID: tenantID, Kind: kind, Details: details})
	if err != nil {
		return fmt.Errorf("failed to encode notify payload: %w", err)
	}

	task := asynq.NewTask(workers.TypeSyncNotify, payload)
	if _, err := e.client.EnqueueContext(ctx, task,
		asynq.Queue("low"),
		asynq.MaxRetry(3),
	); err != nil {
		return fmt.Errorf("failed to enqueue notify task: %w", err)
	}
	return nil
}
