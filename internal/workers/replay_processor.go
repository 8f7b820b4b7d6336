// internal/workers/replay_processor.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/mkarlin/stocksync-be/internal/adapters/redis_adapter"
	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// replayLockTTL bounds how long a crashed worker can hold a job lock
const replayLockTTL = 15 * time.Minute

// ReplayProcessor handles sync:replay tasks
type ReplayProcessor struct {
	replay ports.ReplayService
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewReplayProcessor creates a new replay processor
func NewReplayProcessor(replay ports.ReplayService, cache ports.CacheRepository, logger *slog.Logger) *ReplayProcessor {
	return &ReplayProcessor{
		replay: replay,
		cache:  cache,
		logger: logger.With(slog.String("processor", "replay")),
	}
}

// ProcessReplay replays one sync job. A Redis lock keeps concurrent workers
// off the same job; the replay itself is idempotent, so a lost lock only
// costs duplicate reads, never duplicate writes.
func (p *ReplayProcessor) ProcessReplay(ctx context.Context, t *asynq.Task) error {
	var payload ReplayPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal replay payload: %v: %w", err, asynq.SkipRetry)
	}

	lockKey := redis_a.ReplayLockKey(payload.JobID)
	locked, err := p.cache.SetNX(ctx, lockKey, "1", replayLockTTL)
	if err != nil {
		p.logger.WarnContext(ctx, "replay lock unavailable, proceeding",
			slog.String("job_id", payload.JobID.String()),
			slog.String("error", err.Error()))
	} else if !locked {
		p.logger.InfoContext(ctx, "replay already in progress, skipping",
			slog.String("job_id", payload.JobID.String()))
		return nil
	} else {
		defer func() {
			if err := p.cache.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
				p.logger.WarnContext(ctx, "failed to release replay lock",
					slog.String("key", lockKey),
					slog.String("error", err.Error()))
			}
		}()
	}

	summary, err := p.replay.ProcessJob(ctx, payload.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return fmt.Errorf("job %s not found: %w", payload.JobID, asynq.SkipRetry)
		}
		// Infrastructure errors surface to asynq for retry with backoff
		return fmt.Errorf("replay of job %s failed: %w", payload.JobID, err)
	}

	if summary != nil {
		p.logger.InfoContext(ctx, "replay task finished",
			slog.String("job_id", payload.JobID.String()),
			slog.Int("succeeded", summary.Succeeded),
			slog.Int("failed", summary.Failed),
			slog.Int("conflicts", summary.Conflicts))
	}
	return nil
}
