// internal/core/domain/sync_test.go
package domain_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
)

func TestJobStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   domain.JobStatus
		terminal bool
	}{
		{domain.JobStatusPending, false},
		{domain.JobStatusProcessing, false},
		{domain.JobStatusDone, true},
		{domain.JobStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestValidAction(t *testing.T) {
	assert.True(t, domain.ValidAction("create"))
	assert.True(t, domain.ValidAction("update"))
	assert.True(t, domain.ValidAction("delete"))
	assert.False(t, domain.ValidAction("upsert"))
	assert.False(t, domain.ValidAction(""))
	assert.False(t, domain.ValidAction("CREATE"))
}

func TestDevice_Validate(t *testing.T) {
	tests := []struct {
		name          string
		device        domain.Device
		errorContains string
	}{
		{
			name:   "valid_device",
			device: domain.Device{DeviceID: "tablet-1", Name: "Warehouse Tablet"},
		},
		{
			name:          "missing_device_id",
			device:        domain.Device{},
			errorContains: "device_id is required",
		},
		{
			name:          "device_id_too_long",
			device:        domain.Device{DeviceID: strings.Repeat("x", 129)},
			errorContains: "device_id exceeds 128 characters",
		},
		{
			name:          "name_too_long",
			device:        domain.Device{DeviceID: "tablet-1", Name: strings.Repeat("x", 151)},
			errorContains: "name exceeds 150 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.device.Validate()
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSyncJob_PrepareForStorage(t *testing.T) {
	job := &domain.SyncJob{TenantID: uuid.New()}
	job.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, domain.JobStatusPending, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
	assert.NotNil(t, job.TempIDMap)
}

func TestSyncJob_PrepareForStorage_PreservesExistingFields(t *testing.T) {
	id := uuid.New()
	job := &domain.SyncJob{
		ID:        id,
		Status:    domain.JobStatusProcessing,
		TempIDMap: map[string]int64{"tmp-1": 5},
	}
	job.PrepareForStorage()

	assert.Equal(t, id, job.ID)
	assert.Equal(t, domain.JobStatusProcessing, job.Status)
	assert.Equal(t, int64(5), job.TempIDMap["tmp-1"])
}

func TestErrors_Formatting(t *testing.T) {
	assert.Equal(t, `unknown entity type "warehouse"`,
		(&domain.UnknownEntityTypeError{EntityType: "warehouse"}).Error())

	assert.Equal(t, "device_id: required",
		(&domain.ValidationError{Field: "device_id", Reason: "required"}).Error())
	assert.Equal(t, "bad payload",
		(&domain.ValidationError{Reason: "bad payload"}).Error())

	one := &domain.PendingDependencyError{
		Refs: []domain.PendingRef{{Field: "category_id", TempID: "tmp-1"}},
	}
	assert.Equal(t, "pending_fk: unresolved reference category_id=tmp-1", one.Error())

	many := &domain.PendingDependencyError{
		Refs: []domain.PendingRef{
			{Field: "category_id", TempID: "tmp-1"},
			{Field: "supplier_id", TempID: "tmp-2"},
		},
	}
	assert.Equal(t, "pending_fk: 2 unresolved references", many.Error())
}

func TestIsInfrastructure(t *testing.T) {
	infra := &domain.InfrastructureError{Op: "persist job", Err: fmt.Errorf("timeout")}
	assert.True(t, domain.IsInfrastructure(infra))
	assert.True(t, domain.IsInfrastructure(fmt.Errorf("wrapped: %w", infra)))
	assert.False(t, domain.IsInfrastructure(fmt.Errorf("plain failure")))
	assert.False(t, domain.IsInfrastructure(&domain.ValidationError{Reason: "bad"}))
}
