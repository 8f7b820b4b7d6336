// internal/adapters/db/ledger_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// ledgerRepository implements ports.LedgerRepository over the append-only
// change_ledger table. Rows are never updated; version is the bigserial
// primary key and is the server version clients cursor on.
type ledgerRepository struct {
	logger *slog.Logger
}

// NewLedgerRepository creates a new change ledger repository
func NewLedgerRepository(logger *slog.Logger) ports.LedgerRepository {
	return &ledgerRepository{
		logger: logger.With(slog.String("repository", "change_ledger")),
	}
}

// Append writes one ledger row and returns its assigned version
func (r *ledgerRepository) Append(ctx context.Context, q ports.Querier, entry *domain.ChangeEntry) (int64, error) {
	payload, err := marshalJSONB(entry.Payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode ledger payload: %w", err)
	}

	query := `
		INSERT INTO change_ledger (tenant_id, entity_type, entity_id, action, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING version, created_at`

	err = q.QueryRow(ctx, query,
		entry.TenantID, entry.EntityType, entry.EntityID, entry.Action, payload,
	).Scan(&entry.Version, &entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	r.logger.DebugContext(ctx, "ledger entry appended",
		slog.Int64("version", entry.Version),
		slog.String("entity_type", entry.EntityType),
		slog.String("action", entry.Action))

	return entry.Version, nil
}

// ListSince returns a tenant's ledger rows after the given version, oldest
// first. limit <= 0 means unbounded.
func (r *ledgerRepository) ListSince(ctx context.Context, q ports.Querier, tenantID uuid.UUID, since int64, limit int) ([]domain.ChangeEntry, error) {
	builder := squirrel.
		Select("version", "tenant_id", "entity_type", "entity_id", "action", "payload", "created_at").
		From("change_ledger").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Gt{"version": since}).
		OrderBy("version ASC").
		PlaceholderFormat(squirrel.Dollar)
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger query: %w", err)
	}
	return r.list(ctx, q, query, args...)
}

// ListOlderThan returns ledger rows created before the cutoff, across all
// tenants, oldest first. Used by the archive maintenance pass.
func (r *ledgerRepository) ListOlderThan(ctx context.Context, q ports.Querier, cutoff time.Time) ([]domain.ChangeEntry, error) {
	query := `
		SELECT version, tenant_id, entity_type, entity_id, action, payload, created_at
		FROM change_ledger
		WHERE created_at < $1
		ORDER BY version ASC`
	return r.list(ctx, q, query, cutoff)
}

// DeleteOlderThan prunes ledger rows created before the cutoff
func (r *ledgerRepository) DeleteOlderThan(ctx context.Context, q ports.Querier, cutoff time.Time) (int64, error) {
	tag, err := q.Exec(ctx, `DELETE FROM change_ledger WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune ledger: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ledgerRepository) list(ctx context.Context, q ports.Querier, query string, args ...interface{}) ([]domain.ChangeEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}
	defer rows.Close()

	var entries []domain.ChangeEntry
	for rows.Next() {
		var entry domain.ChangeEntry
		var payload []byte
		err := rows.Scan(
			&entry.Version, &entry.TenantID, &entry.EntityType,
			&entry.EntityID, &entry.Action, &payload, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode ledger payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// cursorRepository implements ports.CursorRepository
type cursorRepository struct {
	logger *slog.Logger
}

// NewCursorRepository creates a new sync cursor repository
func NewCursorRepository(logger *slog.Logger) ports.CursorRepository {
	return &cursorRepository{
		logger: logger.With(slog.String("repository", "sync_cursor")),
	}
}

// Get returns the device's cursor, zero-valued when it has never synced
func (r *cursorRepository) Get(ctx context.Context, q ports.Querier, tenantID, deviceID uuid.UUID) (*domain.SyncCursor, error) {
	query := `
		SELECT tenant_id, device_id, last_server_version, updated_at
		FROM sync_cursors
		WHERE tenant_id = $1 AND device_id = $2`

	var cursor domain.SyncCursor
	err := q.QueryRow(ctx, query, tenantID, deviceID).Scan(
		&cursor.TenantID, &cursor.DeviceID, &cursor.LastServerVersion, &cursor.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.SyncCursor{TenantID: tenantID, DeviceID: deviceID}, nil
		}
		return nil, fmt.Errorf("failed to get sync cursor: %w", err)
	}
	return &cursor, nil
}

// Advance moves the cursor forward. GREATEST guards against concurrent
// downloads racing the cursor backwards.
func (r *cursorRepository) Advance(ctx context.Context, q ports.Querier, tenantID, deviceID uuid.UUID, version int64) error {
	query := `
		INSERT INTO sync_cursors (tenant_id, device_id, last_server_version, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant_id, device_id) DO UPDATE SET
			last_server_version = GREATEST(sync_cursors.last_server_version, EXCLUDED.last_server_version),
			updated_at          = NOW()`

	if _, err := q.Exec(ctx, query, tenantID, deviceID, version); err != nil {
		return fmt.Errorf("failed to advance sync cursor: %w", err)
	}
	return nil
}
