// internal/core/ports/repositories.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
)

// DeviceRepository defines the persistence port for the device registry
type DeviceRepository interface {
	Upsert(ctx context.Context, q Querier, device *domain.Device) error
	FindByDeviceID(ctx context.Context, q Querier, tenantID uuid.UUID, deviceID string) (*domain.Device, error)
	List(ctx context.Context, q Querier, tenantID uuid.UUID) ([]domain.Device, error)
	TouchLastSeen(ctx context.Context, q Querier, tenantID uuid.UUID, deviceID string) error
}

// SyncJobRepository defines the persistence port for jobs and their operations
type SyncJobRepository interface {
	Create(ctx context.Context, q Querier, job *domain.SyncJob) error
	InsertOperations(ctx context.Context, q Querier, ops []domain.SyncOperation) error
	FindByID(ctx context.Context, q Querier, jobID uuid.UUID) (*domain.SyncJob, error)
	ListOperations(ctx context.Context, q Querier, jobID uuid.UUID) ([]domain.SyncOperation, error)
	MarkStarted(ctx context.Context, q Querier, jobID uuid.UUID) (bool, error)
	MarkCompleted(ctx context.Context, q Querier, jobID uuid.UUID, summary *domain.JobSummary) error
	MarkFailed(ctx context.Context, q Querier, jobID uuid.UUID, reason string) error
	MarkOperationProcessed(ctx context.Context, q Querier, opID uuid.UUID, success bool, opError string) error
	SaveTempIDMap(ctx context.Context, q Querier, jobID uuid.UUID, tempMap map[string]int64) error
	DeleteTerminalBefore(ctx context.Context, q Querier, cutoff time.Time) (int64, error)
}

// LedgerRepository defines the persistence port for the change ledger
type LedgerRepository interface {
	Append(ctx context.Context, q Querier, entry *domain.ChangeEntry) (int64, error)
	ListSince(ctx context.Context, q Querier, tenantID uuid.UUID, since int64, limit int) ([]domain.ChangeEntry, error)
	ListOlderThan(ctx context.Context, q Querier, cutoff time.Time) ([]domain.ChangeEntry, error)
	DeleteOlderThan(ctx context.Context, q Querier, cutoff time.Time) (int64, error)
}

// CursorRepository defines the persistence port for per-device sync cursors.
// Advance must never move a cursor backwards.
type CursorRepository interface {
	Get(ctx context.Context, q Querier, tenantID, deviceID uuid.UUID) (*domain.SyncCursor, error)
	Advance(ctx context.Context, q Querier, tenantID, deviceID uuid.UUID, version int64) error
}

// ConflictRepository defines the persistence port for replay conflicts
type ConflictRepository interface {
	Create(ctx context.Context, q Querier, conflict *domain.SyncConflict) error
	ListByOperation(ctx context.Context, q Querier, operationID uuid.UUID) ([]domain.SyncConflict, error)
}
