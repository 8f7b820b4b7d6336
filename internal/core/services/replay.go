// internal/core/services/replay.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

var errRowNotFound = errors.New("row not found")

// ReplayService applies a job's operations in order, each inside its own
// transaction, so one bad operation never poisons the rest of the batch.
type ReplayService struct {
	db        SyncDB
	jobs      ports.SyncJobRepository
	conflicts ports.ConflictRepository
	ledger    ports.LedgerRepository
	preflight *Preflight
	registry  *registry.Registry
	notifier  ports.Notifier
	cache     ports.CacheRepository
	logger    *slog.Logger
}

var _ ports.ReplayService = (*ReplayService)(nil)

// NewReplayService creates a new replay service
func NewReplayService(
	database SyncDB,
	jobs ports.SyncJobRepository,
	conflicts ports.ConflictRepository,
	ledger ports.LedgerRepository,
	preflight *Preflight,
	reg *registry.Registry,
	notifier ports.Notifier,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *ReplayService {
	return &ReplayService{
		db:        database,
		jobs:      jobs,
		conflicts: conflicts,
		ledger:    ledger,
		preflight: preflight,
		registry:  reg,
		notifier:  notifier,
		cache:     cache,
		logger:    logger.With(slog.String("service", "replay")),
	}
}

// opOutcome is the per-operation result folded into the job summary
type opOutcome struct {
	success  bool
	conflict bool
	errMsg   string
}

// ProcessJob replays every unprocessed operation of the job. Re-running a
// terminal job returns its stored summary without touching state; re-running
// an interrupted job resumes after the last processed operation. Returned
// errors are infrastructure-level and signal the caller to retry.
func (s *ReplayService) ProcessJob(ctx context.Context, jobID uuid.UUID) (*domain.JobSummary, error) {
	job, err := s.jobs.FindByID(ctx, s.db, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, err
		}
		return nil, &domain.InfrastructureError{Op: "load job", Err: err}
	}
	if job.Status.IsTerminal() {
		s.logger.InfoContext(ctx, "job already terminal, skipping replay",
			slog.String("job_id", jobID.String()),
			slog.String("status", string(job.Status)))
		return job.Result, nil
	}

	if _, err := s.jobs.MarkStarted(ctx, s.db, jobID); err != nil {
		return nil, &domain.InfrastructureError{Op: "mark job started", Err: err}
	}

	ops, err := s.jobs.ListOperations(ctx, s.db, jobID)
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "list operations", Err: err}
	}

	tempMap := job.TempIDMap
	if tempMap == nil {
		tempMap = make(map[string]int64)
	}

	summary := &domain.JobSummary{}
	for i := range ops {
		op := &ops[i]
		summary.Processed++

		if op.Processed {
			if op.Success != nil && *op.Success {
				summary.Succeeded++
			} else {
				summary.Failed++
				summary.Errors = append(summary.Errors, domain.OperationError{
					ClientChangeID: op.ClientChangeID,
					Error:          op.Error,
				})
			}
			continue
		}

		outcome, err := s.applyOperation(ctx, job, op, tempMap)
		if err != nil {
			// Infrastructure problem: leave the job processing so a retry
			// resumes from this operation.
			return nil, err
		}
		if outcome.success {
			summary.Succeeded++
		} else {
			summary.Failed++
			summary.Errors = append(summary.Errors, domain.OperationError{
				ClientChangeID: op.ClientChangeID,
				Error:          outcome.errMsg,
			})
		}
		if outcome.conflict {
			summary.Conflicts++
		}
	}

	if err := s.jobs.MarkCompleted(ctx, s.db, jobID, summary); err != nil {
		return nil, &domain.InfrastructureError{Op: "mark job completed", Err: err}
	}

	s.logger.InfoContext(ctx, "sync job replayed",
		slog.String("job_id", jobID.String()),
		slog.Int("processed", summary.Processed),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
		slog.Int("conflicts", summary.Conflicts))

	// Cached download deltas for the tenant are stale once new ledger rows
	// exist.
	if s.cache != nil && summary.Succeeded > 0 {
		pattern := fmt.Sprintf("sync:delta:%s:*", job.TenantID)
		if err := s.cache.DeletePattern(ctx, pattern); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate delta cache",
				slog.String("pattern", pattern),
				slog.String("error", err.Error()))
		}
	}

	s.notifyOutcome(ctx, job, summary)
	return summary, nil
}

// applyOperation replays a single operation inside its own transaction.
// Payload-level problems produce a failed outcome; only platform problems
// return an error.
func (s *ReplayService) applyOperation(ctx context.Context, job *domain.SyncJob, op *domain.SyncOperation, tempMap map[string]int64) (opOutcome, error) {
	check, err := s.preflight.Check(ctx, s.db, job.TenantID, op.EntityType, op.Action, op.Payload, tempMap, nil)
	if err != nil {
		if domain.IsInfrastructure(err) {
			return opOutcome{}, err
		}
		// Validation, unknown-type, and pending-dependency errors all fail
		// just this operation.
		return s.finishOp(ctx, op, false, err.Error(), false)
	}

	handler, ok := s.registry.Lookup(op.EntityType)
	if !ok {
		return s.finishOp(ctx, op, false, fmt.Sprintf("unknown entity type %q", op.EntityType), false)
	}

	switch op.Action {
	case domain.ActionCreate:
		return s.applyCreate(ctx, job, op, handler, check, tempMap)
	case domain.ActionUpdate:
		return s.applyUpdate(ctx, job, op, handler, check)
	case domain.ActionDelete:
		return s.applyDelete(ctx, job, op, handler, check)
	}
	return s.finishOp(ctx, op, false, fmt.Sprintf("unknown action %q", op.Action), false)
}

func (s *ReplayService) applyCreate(ctx context.Context, job *domain.SyncJob, op *domain.SyncOperation, handler registry.EntityHandler, check *PreflightResult, tempMap map[string]int64) (opOutcome, error) {
	key := tempKey(op.ClientChangeID, op.Payload)

	// A matching row already exists: bind the temporary id to it and record
	// the mapping in the ledger instead of creating a duplicate.
	if check.ExistingID != nil {
		id := *check.ExistingID
		err := s.db.Transaction(ctx, func(tx pgx.Tx) error {
			tempMap[key] = id
			if err := s.jobs.SaveTempIDMap(ctx, tx, job.ID, tempMap); err != nil {
				return err
			}
			entry := &domain.ChangeEntry{
				TenantID:   job.TenantID,
				EntityType: op.EntityType,
				EntityID:   &id,
				Action:     domain.LedgerActionNoopMapExisting,
				Payload:    map[string]interface{}{"temp_id": key},
			}
			if _, err := s.ledger.Append(ctx, tx, entry); err != nil {
				return err
			}
			return s.jobs.MarkOperationProcessed(ctx, tx, op.ID, true, "")
		})
		if err != nil {
			delete(tempMap, key)
			return opOutcome{}, &domain.InfrastructureError{Op: "map existing row", Err: err}
		}
		return opOutcome{success: true}, nil
	}

	var newID int64
	txErr := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		id, err := handler.ApplyCreate(ctx, tx, job.TenantID, check.Payload)
		if err != nil {
			return err
		}
		newID = id
		tempMap[key] = id
		if err := s.jobs.SaveTempIDMap(ctx, tx, job.ID, tempMap); err != nil {
			return err
		}
		entry := &domain.ChangeEntry{
			TenantID:   job.TenantID,
			EntityType: op.EntityType,
			EntityID:   &newID,
			Action:     string(domain.ActionCreate),
			Payload:    withID(check.Payload, newID),
		}
		if _, err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
		return s.jobs.MarkOperationProcessed(ctx, tx, op.ID, true, "")
	})
	if txErr == nil {
		return opOutcome{success: true}, nil
	}
	delete(tempMap, key)

	var integrity *domain.IntegrityViolationError
	if errors.As(txErr, &integrity) && integrity.UniqueViolation {
		// Lost a create race: another writer inserted the row between
		// preflight and apply. Record a conflict, not a hard failure.
		s.recordCreateConflict(ctx, job, op, handler, check.Payload)
		return s.finishOp(ctx, op, false, "conflict: "+integrity.Error(), true)
	}
	if msg, ok := payloadFault(txErr); ok {
		return s.finishOp(ctx, op, false, msg, false)
	}
	return opOutcome{}, &domain.InfrastructureError{Op: "apply create", Err: txErr}
}

func (s *ReplayService) applyUpdate(ctx context.Context, job *domain.SyncJob, op *domain.SyncOperation, handler registry.EntityHandler, check *PreflightResult) (opOutcome, error) {
	id, _ := registry.Int64Field(check.Payload, "id")
	clientBase := clientBaseTime(op.Payload)

	conflictDetected := false
	txErr := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		snapshot, updatedAt, found, err := handler.GetForUpdate(ctx, tx, job.TenantID, id)
		if err != nil {
			return err
		}
		if !found {
			return errRowNotFound
		}

		// The server row moved past the client's base version. Last write
		// wins: the update is still applied, the divergence is preserved as
		// a conflict record.
		if !clientBase.IsZero() && updatedAt.After(clientBase) {
			conflictDetected = true
			conflict := &domain.SyncConflict{
				ID:             uuid.New(),
				OperationID:    op.ID,
				ServerSnapshot: snapshot,
				ClientPayload:  op.Payload,
				CreatedAt:      time.Now(),
			}
			if err := s.conflicts.Create(ctx, tx, conflict); err != nil {
				return err
			}
		}

		if err := handler.ApplyUpdate(ctx, tx, job.TenantID, id, check.Payload); err != nil {
			return err
		}
		entry := &domain.ChangeEntry{
			TenantID:   job.TenantID,
			EntityType: op.EntityType,
			EntityID:   &id,
			Action:     string(domain.ActionUpdate),
			Payload:    withID(check.Payload, id),
		}
		if _, err := s.ledger.Append(ctx, tx, entry); err != nil {
			return err
		}
		return s.jobs.MarkOperationProcessed(ctx, tx, op.ID, true, "")
	})
	if txErr == nil {
		return opOutcome{success: true, conflict: conflictDetected}, nil
	}
	if errors.Is(txErr, errRowNotFound) {
		return s.finishOp(ctx, op, false, "not_found", false)
	}
	if msg, ok := payloadFault(txErr); ok {
		return s.finishOp(ctx, op, false, msg, false)
	}
	return opOutcome{}, &domain.InfrastructureError{Op: "apply update", Err: txErr}
}

func (s *ReplayService) applyDelete(ctx context.Context, job *domain.SyncJob, op *domain.SyncOperation, handler registry.EntityHandler, check *PreflightResult) (opOutcome, error) {
	id, _ := registry.Int64Field(check.Payload, "id")

	txErr := s.db.Transaction(ctx, func(tx pgx.Tx) error {
		found, err := handler.ApplyDelete(ctx, tx, job.TenantID, id)
		if err != nil {
			return err
		}
		// Deleting a row that is already gone is a success: the desired end
		// state holds. The ledger only records deletes that removed a row.
		if found {
			entry := &domain.ChangeEntry{
				TenantID:   job.TenantID,
				EntityType: op.EntityType,
				EntityID:   &id,
				Action:     string(domain.ActionDelete),
			}
			if _, err := s.ledger.Append(ctx, tx, entry); err != nil {
				return err
			}
		}
		return s.jobs.MarkOperationProcessed(ctx, tx, op.ID, true, "")
	})
	if txErr == nil {
		return opOutcome{success: true}, nil
	}
	if msg, ok := payloadFault(txErr); ok {
		return s.finishOp(ctx, op, false, msg, false)
	}
	return opOutcome{}, &domain.InfrastructureError{Op: "apply delete", Err: txErr}
}

// finishOp marks a payload-level operation result outside any transaction
func (s *ReplayService) finishOp(ctx context.Context, op *domain.SyncOperation, success bool, errMsg string, conflict bool) (opOutcome, error) {
	if err := s.jobs.MarkOperationProcessed(ctx, s.db, op.ID, success, errMsg); err != nil {
		return opOutcome{}, &domain.InfrastructureError{Op: "mark operation processed", Err: err}
	}
	return opOutcome{success: success, conflict: conflict, errMsg: errMsg}, nil
}

// recordCreateConflict captures the winning row after a unique-violation
// race. The apply transaction already rolled back, so this writes through
// the pool. Failures here are logged, never fatal.
func (s *ReplayService) recordCreateConflict(ctx context.Context, job *domain.SyncJob, op *domain.SyncOperation, handler registry.EntityHandler, payload map[string]interface{}) {
	var snapshot map[string]interface{}
	if id, found, err := handler.FindByUnique(ctx, s.db, job.TenantID, payload); err == nil && found {
		if rows, err := handler.LoadByIDs(ctx, s.db, job.TenantID, []int64{id}); err == nil && len(rows) > 0 {
			snapshot = rows[0]
		}
	}
	conflict := &domain.SyncConflict{
		ID:             uuid.New(),
		OperationID:    op.ID,
		ServerSnapshot: snapshot,
		ClientPayload:  op.Payload,
		CreatedAt:      time.Now(),
	}
	if err := s.conflicts.Create(ctx, s.db, conflict); err != nil {
		s.logger.WarnContext(ctx, "failed to record create conflict",
			slog.String("operation_id", op.ID.String()),
			slog.String("error", err.Error()))
	}
}

// notifyOutcome emits failure and conflict notices; delivery problems are
// logged and do not affect the job.
func (s *ReplayService) notifyOutcome(ctx context.Context, job *domain.SyncJob, summary *domain.JobSummary) {
	if summary.Failed > 0 {
		details := map[string]interface{}{
			"job_id": job.ID.String(),
			"failed": summary.Failed,
			"errors": summary.Errors,
		}
		if err := s.notifier.Notify(ctx, job.TenantID, ports.NotifyJobFailures, details); err != nil {
			s.logger.WarnContext(ctx, "failed to send failure notice",
				slog.String("job_id", job.ID.String()),
				slog.String("error", err.Error()))
		}
	}
	if summary.Conflicts > 0 {
		details := map[string]interface{}{
			"job_id":    job.ID.String(),
			"conflicts": summary.Conflicts,
		}
		if err := s.notifier.Notify(ctx, job.TenantID, ports.NotifyConflicts, details); err != nil {
			s.logger.WarnContext(ctx, "failed to send conflict notice",
				slog.String("job_id", job.ID.String()),
				slog.String("error", err.Error()))
		}
	}
}

// payloadFault reports whether a transaction error was caused by the
// operation's payload (constraint or validation) rather than the platform
func payloadFault(err error) (string, bool) {
	var integrity *domain.IntegrityViolationError
	if errors.As(err, &integrity) {
		return integrity.Error(), true
	}
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return validation.Error(), true
	}
	return "", false
}

// withID copies a payload and stamps the server id into it
func withID(payload map[string]interface{}, id int64) map[string]interface{} {
	out := make(map[string]interface{}, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	out["id"] = id
	return out
}

// clientBaseTime extracts the client's base version timestamp from a payload
func clientBaseTime(payload map[string]interface{}) time.Time {
	for _, key := range []string{"client_updated_at", "updated_at"} {
		if s, ok := registry.StringField(payload, key); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
