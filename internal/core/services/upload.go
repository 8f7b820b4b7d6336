// internal/core/services/upload.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

// SyncDB combines the query and transaction capabilities the sync services
// need. *db.Database satisfies it.
type SyncDB interface {
	ports.Querier
	ports.Transactor
}

// UploadService admits batches of client operations as sync jobs
type UploadService struct {
	db        SyncDB
	devices   ports.DeviceRepository
	jobs      ports.SyncJobRepository
	preflight *Preflight
	enqueuer  ports.TaskEnqueuer
	maxBatch  int
	logger    *slog.Logger
}

var _ ports.UploadService = (*UploadService)(nil)

// NewUploadService creates a new upload service
func NewUploadService(
	database SyncDB,
	devices ports.DeviceRepository,
	jobs ports.SyncJobRepository,
	preflight *Preflight,
	enqueuer ports.TaskEnqueuer,
	maxBatch int,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		db:        database,
		devices:   devices,
		jobs:      jobs,
		preflight: preflight,
		enqueuer:  enqueuer,
		maxBatch:  maxBatch,
		logger:    logger.With(slog.String("service", "upload")),
	}
}

// Upload validates a batch end to end, persists it as a pending job with its
// operations, and enqueues replay. Admission is all-or-nothing: any invalid
// operation rejects the whole batch before anything is written.
func (s *UploadService) Upload(ctx context.Context, tenantID, userID uuid.UUID, req ports.UploadRequest) (*ports.UploadResult, error) {
	if req.DeviceID == "" {
		return nil, &domain.ValidationError{Field: "device_id", Reason: "required"}
	}
	if len(req.Operations) == 0 {
		return nil, &domain.ValidationError{Field: "operations", Reason: "at least one operation is required"}
	}
	if s.maxBatch > 0 && len(req.Operations) > s.maxBatch {
		return nil, &domain.ValidationError{
			Field:  "operations",
			Reason: fmt.Sprintf("batch exceeds %d operations", s.maxBatch),
		}
	}

	device := &domain.Device{
		TenantID: tenantID,
		UserID:   userID,
		DeviceID: req.DeviceID,
		Name:     req.DeviceName,
	}
	if err := device.Validate(); err != nil {
		return nil, &domain.ValidationError{Field: "device_id", Reason: err.Error()}
	}
	if err := s.devices.Upsert(ctx, s.db, device); err != nil {
		return nil, &domain.InfrastructureError{Op: "device upsert", Err: err}
	}

	job := &domain.SyncJob{
		TenantID:    tenantID,
		SubmittedBy: userID,
		DeviceID:    &device.ID,
	}
	job.PrepareForStorage()

	ops, err := s.admitOperations(ctx, tenantID, job, req.Operations)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(ctx, func(tx pgx.Tx) error {
		if err := s.jobs.Create(ctx, tx, job); err != nil {
			return fmt.Errorf("create job: %w", err)
		}
		if err := s.jobs.InsertOperations(ctx, tx, ops); err != nil {
			return fmt.Errorf("insert operations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "persist job", Err: err}
	}

	if err := s.enqueuer.EnqueueReplay(ctx, tenantID, job.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue replay task",
			slog.String("job_id", job.ID.String()),
			slog.String("error", err.Error()))
		if markErr := s.jobs.MarkFailed(ctx, s.db, job.ID, "enqueue_failed: "+err.Error()); markErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark job failed after enqueue error",
				slog.String("job_id", job.ID.String()),
				slog.String("error", markErr.Error()))
		}
		return nil, &domain.InfrastructureError{Op: "enqueue replay", Err: err}
	}

	s.logger.InfoContext(ctx, "sync job admitted",
		slog.String("job_id", job.ID.String()),
		slog.String("device_id", req.DeviceID),
		slog.Int("operations", len(ops)))

	return &ports.UploadResult{JobID: job.ID, Status: job.Status}, nil
}

// admitOperations preflights every operation in order, tracking temporary ids
// of earlier creates so later operations may reference them. No-op matches
// against existing rows are bound into the job's temp-id map immediately.
func (s *UploadService) admitOperations(ctx context.Context, tenantID uuid.UUID, job *domain.SyncJob, clientOps []ports.ClientOperation) ([]domain.SyncOperation, error) {
	seen := make(map[string]bool, len(clientOps))
	pendingTmp := make(map[string]bool)
	ops := make([]domain.SyncOperation, 0, len(clientOps))

	for i, op := range clientOps {
		if op.ClientChangeID == "" {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("operations[%d].client_change_id", i),
				Reason: "required",
			}
		}
		if seen[op.ClientChangeID] {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("operations[%d].client_change_id", i),
				Reason: fmt.Sprintf("duplicate %q in batch", op.ClientChangeID),
			}
		}
		seen[op.ClientChangeID] = true

		if !domain.ValidAction(op.Action) {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("operations[%d].action", i),
				Reason: fmt.Sprintf("unknown action %q", op.Action),
			}
		}
		if op.Payload == nil {
			return nil, &domain.ValidationError{
				Field:  fmt.Sprintf("operations[%d].payload", i),
				Reason: "required",
			}
		}

		action := domain.OpAction(op.Action)
		check, err := s.preflight.Check(ctx, s.db, tenantID, op.EntityType, action, op.Payload, job.TempIDMap, pendingTmp)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s) rejected: %w", i, op.ClientChangeID, err)
		}

		if action == domain.ActionCreate {
			key := tempKey(op.ClientChangeID, op.Payload)
			if check.ExistingID != nil {
				job.TempIDMap[key] = *check.ExistingID
			} else {
				pendingTmp[key] = true
			}
		}

		ops = append(ops, domain.SyncOperation{
			ID:             uuid.New(),
			JobID:          job.ID,
			ClientChangeID: op.ClientChangeID,
			EntityType:     op.EntityType,
			Action:         action,
			Payload:        op.Payload,
		})
	}

	return ops, nil
}

// Job returns a tenant's job by id
func (s *UploadService) Job(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.SyncJob, error) {
	job, err := s.jobs.FindByID(ctx, s.db, jobID)
	if err != nil {
		return nil, err
	}
	if job.TenantID != tenantID {
		return nil, domain.ErrJobNotFound
	}
	return job, nil
}

// tempKey returns the temporary id a create binds on success: the payload's
// own tmp_id when present, the client change id otherwise.
func tempKey(clientChangeID string, payload map[string]interface{}) string {
	if tmp, ok := registry.StringField(payload, "tmp_id"); ok && tmp != "" {
		return tmp
	}
	return clientChangeID
}
