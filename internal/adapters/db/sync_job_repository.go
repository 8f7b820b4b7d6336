// internal/adapters/db/sync_job_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// syncJobRepository implements ports.SyncJobRepository
type syncJobRepository struct {
	logger *slog.Logger
}

// NewSyncJobRepository creates a new sync job repository
func NewSyncJobRepository(logger *slog.Logger) ports.SyncJobRepository {
	return &syncJobRepository{
		logger: logger.With(slog.String("repository", "sync_job")),
	}
}

// Create inserts a pending job
func (r *syncJobRepository) Create(ctx context.Context, q ports.Querier, job *domain.SyncJob) error {
	tempMap, err := json.Marshal(job.TempIDMap)
	if err != nil {
		return fmt.Errorf("failed to encode temp id map: %w", err)
	}

	query := `
		INSERT INTO sync_jobs (id, tenant_id, submitted_by, device_id, status, created_at, temp_id_map)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = q.Exec(ctx, query,
		job.ID, job.TenantID, job.SubmittedBy, job.DeviceID,
		job.Status, job.CreatedAt, tempMap,
	)
	if err != nil {
		return fmt.Errorf("failed to create sync job: %w", err)
	}

	r.logger.DebugContext(ctx, "sync job created",
		slog.String("job_id", job.ID.String()),
		slog.String("tenant_id", job.TenantID.String()))

	return nil
}

// InsertOperations bulk-inserts a job's operations. Seq is assigned by the
// database in insertion order.
func (r *syncJobRepository) InsertOperations(ctx context.Context, q ports.Querier, ops []domain.SyncOperation) error {
	if len(ops) == 0 {
		return nil
	}

	query := `
		INSERT INTO sync_operations (id, job_id, client_change_id, entity_type, action, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING seq`

	batch := &pgx.Batch{}
	payloads := make([][]byte, len(ops))
	for i := range ops {
		payload, err := json.Marshal(ops[i].Payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload for operation %d: %w", i, err)
		}
		payloads[i] = payload
		batch.Queue(query,
			ops[i].ID, ops[i].JobID, ops[i].ClientChangeID,
			ops[i].EntityType, ops[i].Action, payloads[i],
		)
	}

	br := q.SendBatch(ctx, batch)
	defer br.Close()

	for i := range ops {
		if err := br.QueryRow().Scan(&ops[i].Seq); err != nil {
			return fmt.Errorf("failed to insert operation %d: %w", i, err)
		}
	}
	return nil
}

// FindByID loads a job with its summary and temp-id map
func (r *syncJobRepository) FindByID(ctx context.Context, q ports.Querier, jobID uuid.UUID) (*domain.SyncJob, error) {
	query := `
		SELECT id, tenant_id, submitted_by, device_id, status, error,
		       created_at, started_at, completed_at, result, temp_id_map
		FROM sync_jobs
		WHERE id = $1`

	var job domain.SyncJob
	var result, tempMap []byte
	var jobError *string
	err := q.QueryRow(ctx, query, jobID).Scan(
		&job.ID, &job.TenantID, &job.SubmittedBy, &job.DeviceID,
		&job.Status, &jobError, &job.CreatedAt, &job.StartedAt,
		&job.CompletedAt, &result, &tempMap,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to find sync job: %w", err)
	}

	if jobError != nil {
		job.Error = *jobError
	}
	if len(result) > 0 {
		job.Result = &domain.JobSummary{}
		if err := json.Unmarshal(result, job.Result); err != nil {
			return nil, fmt.Errorf("failed to decode job result: %w", err)
		}
	}
	job.TempIDMap = make(map[string]int64)
	if len(tempMap) > 0 {
		if err := json.Unmarshal(tempMap, &job.TempIDMap); err != nil {
			return nil, fmt.Errorf("failed to decode temp id map: %w", err)
		}
	}
	return &job, nil
}

// ListOperations returns a job's operations in replay order
func (r *syncJobRepository) ListOperations(ctx context.Context, q ports.Querier, jobID uuid.UUID) ([]domain.SyncOperation, error) {
	query := `
		SELECT id, job_id, seq, client_change_id, entity_type, action,
		       payload, processed, processed_at, success, error
		FROM sync_operations
		WHERE job_id = $1
		ORDER BY seq ASC`

	rows, err := q.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []domain.SyncOperation
	for rows.Next() {
		var op domain.SyncOperation
		var payload []byte
		var opError *string
		err := rows.Scan(
			&op.ID, &op.JobID, &op.Seq, &op.ClientChangeID, &op.EntityType,
			&op.Action, &payload, &op.Processed, &op.ProcessedAt,
			&op.Success, &opError,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &op.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode operation payload: %w", err)
			}
		}
		if opError != nil {
			op.Error = *opError
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// MarkStarted moves a non-terminal job into processing. Returns false when
// the job was already terminal.
func (r *syncJobRepository) MarkStarted(ctx context.Context, q ports.Querier, jobID uuid.UUID) (bool, error) {
	query := `
		UPDATE sync_jobs
		SET status = $2, started_at = COALESCE(started_at, NOW())
		WHERE id = $1 AND status IN ($3, $2)`

	tag, err := q.Exec(ctx, query, jobID, domain.JobStatusProcessing, domain.JobStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to mark job started: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkCompleted records the terminal summary and moves the job to done
func (r *syncJobRepository) MarkCompleted(ctx context.Context, q ports.Querier, jobID uuid.UUID, summary *domain.JobSummary) error {
	result, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode job summary: %w", err)
	}

	query := `
		UPDATE sync_jobs
		SET status = $2, completed_at = NOW(), result = $3
		WHERE id = $1`

	if _, err := q.Exec(ctx, query, jobID, domain.JobStatusDone, result); err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

// MarkFailed moves a job to failed with a machine-readable reason. Reserved
// for infrastructure-level problems.
func (r *syncJobRepository) MarkFailed(ctx context.Context, q ports.Querier, jobID uuid.UUID, reason string) error {
	query := `
		UPDATE sync_jobs
		SET status = $2, completed_at = NOW(), error = $3
		WHERE id = $1`

	if _, err := q.Exec(ctx, query, jobID, domain.JobStatusFailed, reason); err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

// MarkOperationProcessed records an operation's replay outcome
func (r *syncJobRepository) MarkOperationProcessed(ctx context.Context, q ports.Querier, opID uuid.UUID, success bool, opError string) error {
	query := `
		UPDATE sync_operations
		SET processed = TRUE, processed_at = NOW(), success = $2, error = NULLIF($3, '')
		WHERE id = $1`

	if _, err := q.Exec(ctx, query, opID, success, opError); err != nil {
		return fmt.Errorf("failed to mark operation processed: %w", err)
	}
	return nil
}

// SaveTempIDMap persists the job's temp-id bindings
func (r *syncJobRepository) SaveTempIDMap(ctx context.Context, q ports.Querier, jobID uuid.UUID, tempMap map[string]int64) error {
	encoded, err := json.Marshal(tempMap)
	if err != nil {
		return fmt.Errorf("failed to encode temp id map: %w", err)
	}

	query := `UPDATE sync_jobs SET temp_id_map = $2 WHERE id = $1`
	if _, err := q.Exec(ctx, query, jobID, encoded); err != nil {
		return fmt.Errorf("failed to save temp id map: %w", err)
	}
	return nil
}

// DeleteTerminalBefore prunes done and failed jobs older than the cutoff.
// Operations and conflicts go with them via cascading deletes.
func (r *syncJobRepository) DeleteTerminalBefore(ctx context.Context, q ports.Querier, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sync_jobs
		WHERE status IN ($1, $2) AND created_at < $3`

	tag, err := q.Exec(ctx, query, domain.JobStatusDone, domain.JobStatusFailed, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune terminal jobs: %w", err)
	}
	return tag.RowsAffected(), nil
}

// conflictRepository implements ports.ConflictRepository
type conflictRepository struct {
	logger *slog.Logger
}

// NewConflictRepository creates a new conflict repository
func NewConflictRepository(logger *slog.Logger) ports.ConflictRepository {
	return &conflictRepository{
		logger: logger.With(slog.String("repository", "sync_conflict")),
	}
}

// Create persists a detected conflict
func (r *conflictRepository) Create(ctx context.Context, q ports.Querier, conflict *domain.SyncConflict) error {
	snapshot, err := marshalJSONB(conflict.ServerSnapshot)
	if err != nil {
		return fmt.Errorf("failed to encode server snapshot: %w", err)
	}
	payload, err := marshalJSONB(conflict.ClientPayload)
	if err != nil {
		return fmt.Errorf("failed to encode client payload: %w", err)
	}

	query := `
		INSERT INTO sync_conflicts (id, operation_id, server_snapshot, client_payload, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = q.Exec(ctx, query,
		conflict.ID, conflict.OperationID, snapshot, payload,
		conflict.Resolved, conflict.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sync conflict: %w", err)
	}
	return nil
}

// ListByOperation returns the conflicts recorded for one operation
func (r *conflictRepository) ListByOperation(ctx context.Context, q ports.Querier, operationID uuid.UUID) ([]domain.SyncConflict, error) {
	query := `
		SELECT id, operation_id, server_snapshot, client_payload, resolved, resolution, created_at
		FROM sync_conflicts
		WHERE operation_id = $1
		ORDER BY created_at ASC`

	rows, err := q.Query(ctx, query, operationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []domain.SyncConflict
	for rows.Next() {
		var c domain.SyncConflict
		var snapshot, payload, resolution []byte
		err := rows.Scan(&c.ID, &c.OperationID, &snapshot, &payload, &c.Resolved, &resolution, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		if len(snapshot) > 0 {
			if err := json.Unmarshal(snapshot, &c.ServerSnapshot); err != nil {
				return nil, fmt.Errorf("failed to decode server snapshot: %w", err)
			}
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &c.ClientPayload); err != nil {
				return nil, fmt.Errorf("failed to decode client payload: %w", err)
			}
		}
		if len(resolution) > 0 {
			if err := json.Unmarshal(resolution, &c.Resolution); err != nil {
				return nil, fmt.Errorf("failed to decode resolution: %w", err)
			}
		}
		conflicts = append(conflicts, c)
	}
	return conflicts, rows.Err()
}
