// internal/core/services/download.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

// DownloadService serves incremental deltas keyed to the change-ledger
// version. Reads never mutate the ledger, so repeating a call with the same
// cursor returns the same delta.
type DownloadService struct {
	db        SyncDB
	devices   ports.DeviceRepository
	cursors   ports.CursorRepository
	ledger    ports.LedgerRepository
	registry  *registry.Registry
	cache     ports.CacheRepository
	cacheTTL  time.Duration
	pageLimit int
	logger    *slog.Logger
}

var _ ports.DownloadService = (*DownloadService)(nil)

// NewDownloadService creates a new download service
func NewDownloadService(
	database SyncDB,
	devices ports.DeviceRepository,
	cursors ports.CursorRepository,
	ledger ports.LedgerRepository,
	reg *registry.Registry,
	cache ports.CacheRepository,
	cacheTTL time.Duration,
	pageLimit int,
	logger *slog.Logger,
) *DownloadService {
	return &DownloadService{
		db:        database,
		devices:   devices,
		cursors:   cursors,
		ledger:    ledger,
		registry:  reg,
		cache:     cache,
		cacheTTL:  cacheTTL,
		pageLimit: pageLimit,
		logger:    logger.With(slog.String("service", "download")),
	}
}

// entityState folds consecutive ledger rows for one row into its final state
type entityState struct {
	deleted bool
}

// Download computes the delta for a device since the given ledger version
func (s *DownloadService) Download(ctx context.Context, tenantID uuid.UUID, deviceID string, since int64) (*ports.DownloadResult, error) {
	device, err := s.devices.FindByDeviceID(ctx, s.db, tenantID, deviceID)
	if err != nil {
		return nil, err
	}

	// Always bump last_seen; a cached delta is still a sync contact.
	if err := s.devices.TouchLastSeen(ctx, s.db, tenantID, deviceID); err != nil {
		s.logger.WarnContext(ctx, "failed to bump device last_seen",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()))
	}

	cacheKey := deltaCacheKey(tenantID, deviceID, since)
	if s.cache != nil {
		var cached ports.DownloadResult
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	entries, err := s.ledger.ListSince(ctx, s.db, tenantID, since, s.pageLimit)
	if err != nil {
		return nil, &domain.InfrastructureError{Op: "read ledger", Err: err}
	}

	result := &ports.DownloadResult{
		DeviceID: deviceID,
		Since:    since,
		Cursor:   since,
		Data:     make(map[string][]map[string]interface{}),
		Deleted:  make(map[string][]int64),
	}

	// Fold rows to the final state per entity, keeping first-seen order per
	// type so the output is deterministic.
	states := make(map[string]map[int64]*entityState)
	order := make(map[string][]int64)
	for _, entry := range entries {
		if entry.Version > result.Cursor {
			result.Cursor = entry.Version
		}
		if entry.EntityID == nil || entry.Action == domain.LedgerActionNoopMapExisting {
			continue
		}
		id := *entry.EntityID
		byID := states[entry.EntityType]
		if byID == nil {
			byID = make(map[int64]*entityState)
			states[entry.EntityType] = byID
		}
		state := byID[id]
		if state == nil {
			state = &entityState{}
			byID[id] = state
			order[entry.EntityType] = append(order[entry.EntityType], id)
		}
		state.deleted = entry.Action == string(domain.ActionDelete)
	}

	for entityType, ids := range order {
		handler, ok := s.registry.Lookup(entityType)
		if !ok {
			s.logger.WarnContext(ctx, "ledger references unregistered entity type",
				slog.String("entity_type", entityType))
			continue
		}

		var changed []int64
		for _, id := range ids {
			if states[entityType][id].deleted {
				result.Deleted[entityType] = append(result.Deleted[entityType], id)
			} else {
				changed = append(changed, id)
			}
		}
		if len(changed) == 0 {
			continue
		}
		rows, err := handler.LoadByIDs(ctx, s.db, tenantID, changed)
		if err != nil {
			return nil, &domain.InfrastructureError{Op: "load " + entityType + " rows", Err: err}
		}
		result.Data[entityType] = rows
	}

	if err := s.cursors.Advance(ctx, s.db, tenantID, device.ID, result.Cursor); err != nil {
		return nil, &domain.InfrastructureError{Op: "advance cursor", Err: err}
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetWithTTL(ctx, cacheKey, result, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to cache delta",
				slog.String("key", cacheKey),
				slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// deltaCacheKey builds the cache key for one (tenant, device, cursor) delta
func deltaCacheKey(tenantID uuid.UUID, deviceID string, since int64) string {
	return fmt.Sprintf("sync:delta:%s:%s:%d", tenantID, deviceID, since)
}
