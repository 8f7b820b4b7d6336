// internal/workers/maintenance_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mkarlin/stocksync-be/internal/adapters/db"
	"github.com/mkarlin/stocksync-be/internal/adapters/storage"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/pkg/config"
)

// MaintenanceProcessor handles the background tasks that keep the sync
// tables bounded: ledger archival and terminal job pruning.
type MaintenanceProcessor struct {
	db      *db.Database
	ledger  ports.LedgerRepository
	jobs    ports.SyncJobRepository
	archive *storage.LedgerArchive
	config  *config.Config
	logger  *slog.Logger
}

// NewMaintenanceProcessor creates a new maintenance processor
func NewMaintenanceProcessor(
	database *db.Database,
	ledger ports.LedgerRepository,
	jobs ports.SyncJobRepository,
	archive *storage.LedgerArchive,
	cfg *config.Config,
	logger *slog.Logger,
) *MaintenanceProcessor {
	return &MaintenanceProcessor{
		db:      database,
		ledger:  ledger,
		jobs:    jobs,
		archive: archive,
		config:  cfg,
		logger:  logger.With(slog.String("processor", "maintenance")),
	}
}

// ArchiveLedger moves ledger rows past the retention window to object
// storage, then prunes them. Devices that have not synced within the window
// lose their incremental cursor and must resync from zero.
func (p *MaintenanceProcessor) ArchiveLedger(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-p.config.Sync.LedgerRetention)

	entries, err := p.ledger.ListOlderThan(ctx, p.db, cutoff)
	if err != nil {
		return fmt.Errorf("failed to collect archivable ledger rows: %w", err)
	}
	if len(entries) == 0 {
		p.logger.InfoContext(ctx, "no ledger rows past retention")
		return nil
	}

	// Archive first: the segment must be durable before rows are pruned
	key, err := p.archive.WriteSegment(ctx, entries)
	if err != nil {
		return fmt.Errorf("failed to archive ledger segment: %w", err)
	}

	deleted, err := p.ledger.DeleteOlderThan(ctx, p.db, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune ledger after archive: %w", err)
	}

	p.logger.InfoContext(ctx, "ledger archived and pruned",
		slog.String("segment_key", key),
		slog.Int("archived", len(entries)),
		slog.Int64("pruned", deleted))

	return nil
}

// CleanupJobs prunes terminal sync jobs past the retention window
func (p *MaintenanceProcessor) CleanupJobs(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-p.config.Sync.JobRetention)

	deleted, err := p.jobs.DeleteTerminalBefore(ctx, p.db, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune terminal jobs: %w", err)
	}

	p.logger.InfoContext(ctx, "terminal jobs pruned",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))

	return nil
}
