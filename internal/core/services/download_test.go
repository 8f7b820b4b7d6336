// internal/core/services/download_test.go
package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
	"github.com/mkarlin/stocksync-be/internal/core/services"
	"github.com/mkarlin/stocksync-be/test/helpers"
	"github.com/mkarlin/stocksync-be/test/mocks"
)

type downloadMocks struct {
	db      *mocks.MockSyncDB
	devices *mocks.MockDeviceRepository
	cursors *mocks.MockCursorRepository
	ledger  *mocks.MockLedgerRepository
	cache   *mocks.MockCacheRepository
	handler *mocks.MockEntityHandler
}

func newDownloadService(t *testing.T, ctrl *gomock.Controller) (*services.DownloadService, *downloadMocks) {
	t.Helper()

	m := &downloadMocks{
		db:      mocks.NewMockSyncDB(ctrl),
		devices: mocks.NewMockDeviceRepository(ctrl),
		cursors: mocks.NewMockCursorRepository(ctrl),
		ledger:  mocks.NewMockLedgerRepository(ctrl),
		cache:   mocks.NewMockCacheRepository(ctrl),
		handler: mocks.NewMockEntityHandler(ctrl),
	}

	m.handler.EXPECT().Name().Return("product").AnyTimes()
	m.handler.EXPECT().Schema().Return(productSchema()).AnyTimes()

	reg := registry.New()
	reg.Register(m.handler)

	svc := services.NewDownloadService(
		m.db, m.devices, m.cursors, m.ledger, reg,
		m.cache, 30*time.Second, 5000,
		helpers.TestLogger(),
	)
	return svc, m
}

func TestDownloadService_Download_UnknownDevice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newDownloadService(t, ctrl)
	tenantID := uuid.New()

	m.devices.EXPECT().
		FindByDeviceID(gomock.Any(), gomock.Any(), tenantID, "ghost").
		Return(nil, domain.ErrDeviceNotFound)

	_, err := svc.Download(context.Background(), tenantID, "ghost", 0)
	require.ErrorIs(t, err, domain.ErrDeviceNotFound)
}

func TestDownloadService_Download_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newDownloadService(t, ctrl)
	tenantID := uuid.New()
	device := helpers.CreateTestDevice(func(d *domain.Device) {
		d.TenantID = tenantID
		d.DeviceID = "tablet-1"
	})

	m.devices.EXPECT().
		FindByDeviceID(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(device, nil)
	m.devices.EXPECT().
		TouchLastSeen(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(nil)

	cached := ports.DownloadResult{DeviceID: "tablet-1", Since: 10, Cursor: 25}
	m.cache.EXPECT().
		Get(gomock.Any(), fmt.Sprintf("sync:delta:%s:%s:%d", tenantID, "tablet-1", 10), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}) error {
			*dest.(*ports.DownloadResult) = cached
			return nil
		})

	result, err := svc.Download(context.Background(), tenantID, "tablet-1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), result.Cursor)
}

func TestDownloadService_Download_FoldsLedgerToDelta(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newDownloadService(t, ctrl)
	tenantID := uuid.New()
	device := helpers.CreateTestDevice(func(d *domain.Device) {
		d.TenantID = tenantID
		d.DeviceID = "tablet-1"
	})

	m.devices.EXPECT().
		FindByDeviceID(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(device, nil)
	m.devices.EXPECT().
		TouchLastSeen(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(nil)
	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	// Row 1 is created then updated, row 2 is created then deleted, row 3 is a
	// noop mapping and row 4 has no entity id; only row 1 survives as data.
	entries := []domain.ChangeEntry{
		helpers.CreateTestChangeEntry(tenantID, 11),
		helpers.CreateTestChangeEntry(tenantID, 12, func(e *domain.ChangeEntry) {
			id := int64(11)
			e.EntityID = &id
			e.Action = string(domain.ActionUpdate)
		}),
		helpers.CreateTestChangeEntry(tenantID, 13, func(e *domain.ChangeEntry) {
			id := int64(2)
			e.EntityID = &id
		}),
		helpers.CreateTestChangeEntry(tenantID, 14, func(e *domain.ChangeEntry) {
			id := int64(2)
			e.EntityID = &id
			e.Action = string(domain.ActionDelete)
		}),
		helpers.CreateTestChangeEntry(tenantID, 15, func(e *domain.ChangeEntry) {
			e.Action = domain.LedgerActionNoopMapExisting
		}),
		helpers.CreateTestChangeEntry(tenantID, 16, func(e *domain.ChangeEntry) {
			e.EntityID = nil
		}),
	}
	m.ledger.EXPECT().
		ListSince(gomock.Any(), gomock.Any(), tenantID, int64(10), 5000).
		Return(entries, nil)

	m.handler.EXPECT().
		LoadByIDs(gomock.Any(), gomock.Any(), tenantID, []int64{11}).
		Return([]map[string]interface{}{{"id": int64(11), "name": "Widget 11"}}, nil)

	m.cursors.EXPECT().
		Advance(gomock.Any(), gomock.Any(), tenantID, device.ID, int64(16)).
		Return(nil)
	m.cache.EXPECT().
		SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), 30*time.Second).
		Return(nil)

	result, err := svc.Download(context.Background(), tenantID, "tablet-1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.Since)
	assert.Equal(t, int64(16), result.Cursor)
	require.Len(t, result.Data["product"], 1)
	assert.Equal(t, "Widget 11", result.Data["product"][0]["name"])
	assert.Equal(t, []int64{2}, result.Deleted["product"])
}

func TestDownloadService_Download_SkipsUnregisteredEntityType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newDownloadService(t, ctrl)
	tenantID := uuid.New()
	device := helpers.CreateTestDevice(func(d *domain.Device) {
		d.TenantID = tenantID
		d.DeviceID = "tablet-1"
	})

	m.devices.EXPECT().
		FindByDeviceID(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(device, nil)
	m.devices.EXPECT().
		TouchLastSeen(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
		Return(nil)
	m.cache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss"))

	entries := []domain.ChangeEntry{
		helpers.CreateTestChangeEntry(tenantID, 5, func(e *domain.ChangeEntry) {
			e.EntityType = "retired_type"
		}),
	}
	m.ledger.EXPECT().
		ListSince(gomock.Any(), gomock.Any(), tenantID, int64(0), 5000).
		Return(entries, nil)

	m.cursors.EXPECT().
		Advance(gomock.Any(), gomock.Any(), tenantID, device.ID, int64(5)).
		Return(nil)
	m.cache.EXPECT().
		SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)

	result, err := svc.Download(context.Background(), tenantID, "tablet-1", 0)
	require.NoError(t, err)
	assert.Empty(t, result.Data)
	assert.Equal(t, int64(5), result.Cursor)
}

func TestDownloadService_Download_InfrastructureFailures(t *testing.T) {
	tenantID := uuid.New()
	device := helpers.CreateTestDevice(func(d *domain.Device) {
		d.TenantID = tenantID
		d.DeviceID = "tablet-1"
	})

	tests := []struct {
		name       string
		setupMocks func(*downloadMocks)
		opContains string
	}{
		{
			name: "ledger_read_fails",
			setupMocks: func(m *downloadMocks) {
				m.ledger.EXPECT().
					ListSince(gomock.Any(), gomock.Any(), tenantID, int64(0), 5000).
					Return(nil, errors.New("timeout"))
			},
			opContains: "read ledger",
		},
		{
			name: "cursor_advance_fails",
			setupMocks: func(m *downloadMocks) {
				m.ledger.EXPECT().
					ListSince(gomock.Any(), gomock.Any(), tenantID, int64(0), 5000).
					Return([]domain.ChangeEntry{helpers.CreateTestChangeEntry(tenantID, 3)}, nil)
				m.handler.EXPECT().
					LoadByIDs(gomock.Any(), gomock.Any(), tenantID, []int64{3}).
					Return([]map[string]interface{}{{"id": int64(3)}}, nil)
				m.cursors.EXPECT().
					Advance(gomock.Any(), gomock.Any(), tenantID, device.ID, int64(3)).
					Return(errors.New("timeout"))
			},
			opContains: "advance cursor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newDownloadService(t, ctrl)

			m.devices.EXPECT().
				FindByDeviceID(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
				Return(device, nil)
			m.devices.EXPECT().
				TouchLastSeen(gomock.Any(), gomock.Any(), tenantID, "tablet-1").
				Return(nil)
			m.cache.EXPECT().
				Get(gomock.Any(), gomock.Any(), gomock.Any()).
				Return(errors.New("cache miss"))
			tt.setupMocks(m)

			_, err := svc.Download(context.Background(), tenantID, "tablet-1", 0)
			require.Error(t, err)
			assert.True(t, domain.IsInfrastructure(err))
			assert.Contains(t, err.Error(), tt.opContains)
		})
	}
}
