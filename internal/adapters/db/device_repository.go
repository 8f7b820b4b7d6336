// internal/adapters/db/device_repository.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// deviceRepository implements ports.DeviceRepository
type deviceRepository struct {
	logger *slog.Logger
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(logger *slog.Logger) ports.DeviceRepository {
	return &deviceRepository{
		logger: logger.With(slog.String("repository", "device")),
	}
}

// Upsert registers a device or refreshes an existing registration. The
// (tenant_id, device_id) pair is the identity; re-registration reassigns the
// owner, keeps the previous name when none is given, and bumps last_seen.
func (r *deviceRepository) Upsert(ctx context.Context, q ports.Querier, device *domain.Device) error {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}

	metadata, err := marshalJSONB(device.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode device metadata: %w", err)
	}

	query := `
		INSERT INTO devices (id, tenant_id, user_id, device_id, name, last_seen, metadata)
		VALUES ($1, $2, $3, $4, $5, NOW(), COALESCE($6, '{}'::jsonb))
		ON CONFLICT (tenant_id, device_id) DO UPDATE SET
			user_id   = EXCLUDED.user_id,
			name      = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE devices.name END,
			last_seen = NOW(),
			metadata  = CASE WHEN $6::jsonb IS NOT NULL THEN EXCLUDED.metadata ELSE devices.metadata END
		RETURNING id, name, last_seen`

	err = q.QueryRow(ctx, query,
		device.ID, device.TenantID, device.UserID, device.DeviceID, device.Name, metadata,
	).Scan(&device.ID, &device.Name, &device.LastSeen)
	if err != nil {
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	r.logger.DebugContext(ctx, "device upserted",
		slog.String("device_id", device.DeviceID),
		slog.String("tenant_id", device.TenantID.String()))

	return nil
}

// FindByDeviceID returns a tenant's device by its client-chosen identifier
func (r *deviceRepository) FindByDeviceID(ctx context.Context, q ports.Querier, tenantID uuid.UUID, deviceID string) (*domain.Device, error) {
	query := `
		SELECT id, tenant_id, user_id, device_id, name, last_seen, metadata
		FROM devices
		WHERE tenant_id = $1 AND device_id = $2`

	device, err := scanDevice(q.QueryRow(ctx, query, tenantID, deviceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to find device: %w", err)
	}
	return device, nil
}

// List returns all of a tenant's devices, most recently seen first
func (r *deviceRepository) List(ctx context.Context, q ports.Querier, tenantID uuid.UUID) ([]domain.Device, error) {
	query := `
		SELECT id, tenant_id, user_id, device_id, name, last_seen, metadata
		FROM devices
		WHERE tenant_id = $1
		ORDER BY last_seen DESC`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, *device)
	}
	return devices, rows.Err()
}

// TouchLastSeen records a sync contact from the device
func (r *deviceRepository) TouchLastSeen(ctx context.Context, q ports.Querier, tenantID uuid.UUID, deviceID string) error {
	query := `UPDATE devices SET last_seen = NOW() WHERE tenant_id = $1 AND device_id = $2`
	if _, err := q.Exec(ctx, query, tenantID, deviceID); err != nil {
		return fmt.Errorf("failed to touch device last_seen: %w", err)
	}
	return nil
}

// scanDevice scans one device row
func scanDevice(row pgx.Row) (*domain.Device, error) {
	var device domain.Device
	var metadata []byte
	err := row.Scan(
		&device.ID, &device.TenantID, &device.UserID,
		&device.DeviceID, &device.Name, &device.LastSeen, &metadata,
	)
	if err != nil {
		return nil, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &device.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode device metadata: %w", err)
		}
	}
	return &device, nil
}

// marshalJSONB encodes a map for a jsonb column, passing NULL for nil maps
func marshalJSONB(m map[string]interface{}) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}
