// internal/core/services/device.go
package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// DeviceService manages the device registry surface
type DeviceService struct {
	db      SyncDB
	devices ports.DeviceRepository
	logger  *slog.Logger
}

var _ ports.DeviceService = (*DeviceService)(nil)

// NewDeviceService creates a new device service
func NewDeviceService(database SyncDB, devices ports.DeviceRepository, logger *slog.Logger) *DeviceService {
	return &DeviceService{
		db:      database,
		devices: devices,
		logger:  logger.With(slog.String("service", "device")),
	}
}

// Register upserts a device under the calling tenant. Re-registering an
// existing device updates its name, owner and metadata and bumps last_seen.
func (s *DeviceService) Register(ctx context.Context, tenantID, userID uuid.UUID, deviceID, name string, metadata map[string]interface{}) (*domain.Device, error) {
	device := &domain.Device{
		TenantID: tenantID,
		UserID:   userID,
		DeviceID: deviceID,
		Name:     name,
		Metadata: metadata,
	}
	if err := device.Validate(); err != nil {
		return nil, &domain.ValidationError{Field: "device_id", Reason: err.Error()}
	}
	if err := s.devices.Upsert(ctx, s.db, device); err != nil {
		return nil, &domain.InfrastructureError{Op: "device upsert", Err: err}
	}

	s.logger.InfoContext(ctx, "device registered",
		slog.String("device_id", deviceID),
		slog.String("tenant_id", tenantID.String()))

	return device, nil
}

// List returns all devices registered under the tenant
func (s *DeviceService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Device, error) {
	return s.devices.List(ctx, s.db, tenantID)
}
