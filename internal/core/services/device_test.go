// internal/core/services/device_test.go
package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/services"
	"github.com/mkarlin/stocksync-be/test/helpers"
	"github.com/mkarlin/stocksync-be/test/mocks"
)

func TestDeviceService_Register(t *testing.T) {
	tests := []struct {
		name          string
		deviceID      string
		deviceName    string
		setupMocks    func(*mocks.MockDeviceRepository)
		errorContains string
	}{
		{
			name:       "successful_registration",
			deviceID:   "tablet-1",
			deviceName: "Warehouse Tablet",
			setupMocks: func(m *mocks.MockDeviceRepository) {
				m.EXPECT().
					Upsert(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:          "missing_device_id",
			deviceID:      "",
			setupMocks:    func(m *mocks.MockDeviceRepository) {},
			errorContains: "device_id is required",
		},
		{
			name:          "device_id_too_long",
			deviceID:      strings.Repeat("x", 129),
			setupMocks:    func(m *mocks.MockDeviceRepository) {},
			errorContains: "device_id exceeds 128 characters",
		},
		{
			name:          "name_too_long",
			deviceID:      "tablet-1",
			deviceName:    strings.Repeat("x", 151),
			setupMocks:    func(m *mocks.MockDeviceRepository) {},
			errorContains: "name exceeds 150 characters",
		},
		{
			name:     "upsert_failure",
			deviceID: "tablet-1",
			setupMocks: func(m *mocks.MockDeviceRepository) {
				m.EXPECT().
					Upsert(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			errorContains: "device upsert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			devices := mocks.NewMockDeviceRepository(ctrl)
			tt.setupMocks(devices)

			svc := services.NewDeviceService(mocks.NewMockSyncDB(ctrl), devices, helpers.TestLogger())

			tenantID := uuid.New()
			device, err := svc.Register(context.Background(), tenantID, uuid.New(),
				tt.deviceID, tt.deviceName, map[string]interface{}{"platform": "ios"})

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenantID, device.TenantID)
			assert.Equal(t, tt.deviceID, device.DeviceID)
		})
	}
}

func TestDeviceService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	devices := mocks.NewMockDeviceRepository(ctrl)
	svc := services.NewDeviceService(mocks.NewMockSyncDB(ctrl), devices, helpers.TestLogger())

	tenantID := uuid.New()
	registered := []domain.Device{
		*helpers.CreateTestDevice(func(d *domain.Device) { d.TenantID = tenantID }),
		*helpers.CreateTestDevice(func(d *domain.Device) { d.TenantID = tenantID }),
	}
	devices.EXPECT().
		List(gomock.Any(), gomock.Any(), tenantID).
		Return(registered, nil)

	got, err := svc.List(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
