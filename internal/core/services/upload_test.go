// internal/core/services/upload_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

type uploadMocks struct {
	db       *mocks.MockSyncDB
	devices  *mocks.MockDeviceRepository
	jobs     *mocks.MockSyncJobRepository
	enqueuer *mocks.MockTaskEnqueuer
	handler  *mocks.MockEntityHandler
}

func productSchema() registry.Schema {
	return registry.Schema{
		TextFields: []registry.FieldSpec{
			{Name: "name", MaxLen: 150},
			{Name: "sku", MaxLen: 100},
		},
		References: []registry.RefSpec{
			{Field: "category_id", Required: false},
		},
		UniqueFields: []string{"sku"},
	}
}

func newUploadService(t *testing.T, ctrl *gomock.Controller, maxBatch int) (*services.UploadService, *uploadMocks) {
	t.Helper()

	m := &uploadMocks{
		db:       mocks.NewMockSyncDB(ctrl),
		devices:  mocks.NewMockDeviceRepository(ctrl),
		jobs:     mocks.NewMockSyncJobRepository(ctrl),
		enqueuer: mocks.NewMockTaskEnqueuer(ctrl),
		handler:  mocks.NewMockEntityHandler(ctrl),
	}

	m.handler.EXPECT().Name().Return("product").AnyTimes()
	m.handler.EXPECT().Schema().Return(productSchema()).AnyTimes()

	reg := registry.New()
	reg.Register(m.handler)

	svc := services.NewUploadService(
		m.db, m.devices, m.jobs,
		services.NewPreflight(reg),
		m.enqueuer, maxBatch,
		helpers.TestLogger(),
	)
	return svc, m
}

func passthroughTransaction(m *uploadMocks) {
	m.db.EXPECT().
		Transaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(pgx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()
}

func TestUploadService_Upload_Validation(t *testing.T) {
	tests := []struct {
		name          string
		req           ports.UploadRequest
		setupMocks    func(*uploadMocks)
		errorContains string
	}{
		{
			name: "missing_device_id",
			req: ports.UploadRequest{
				Operations: helpers.CreateTestClientOperations(1),
			},
			setupMocks:    func(m *uploadMocks) {},
			errorContains: "device_id: required",
		},
		{
			name:          "empty_operations",
			req:           ports.UploadRequest{DeviceID: "tablet-1"},
			setupMocks:    func(m *uploadMocks) {},
			errorContains: "at least one operation is required",
		},
		{
			name: "batch_exceeds_limit",
			req: ports.UploadRequest{
				DeviceID:   "tablet-1",
				Operations: helpers.CreateTestClientOperations(3),
			},
			setupMocks:    func(m *uploadMocks) {},
			errorContains: "batch exceeds 2 operations",
		},
		{
			name: "missing_client_change_id",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{EntityType: "product", Action: "create", Payload: map[string]interface{}{}},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: "operations[0].client_change_id: required",
		},
		{
			name: "duplicate_client_change_id",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{ClientChangeID: "chg-1", EntityType: "product", Action: "delete", Payload: map[string]interface{}{"id": float64(7)}},
					{ClientChangeID: "chg-1", EntityType: "product", Action: "delete", Payload: map[string]interface{}{"id": float64(8)}},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: `duplicate "chg-1" in batch`,
		},
		{
			name: "unknown_action",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{ClientChangeID: "chg-1", EntityType: "product", Action: "upsert", Payload: map[string]interface{}{}},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: `unknown action "upsert"`,
		},
		{
			name: "missing_payload",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{ClientChangeID: "chg-1", EntityType: "product", Action: "create"},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: "operations[0].payload: required",
		},
		{
			name: "unknown_entity_type",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{ClientChangeID: "chg-1", EntityType: "warehouse", Action: "create", Payload: map[string]interface{}{}},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: `unknown entity type "warehouse"`,
		},
		{
			name: "update_without_id",
			req: ports.UploadRequest{
				DeviceID: "tablet-1",
				Operations: []ports.ClientOperation{
					{ClientChangeID: "chg-1", EntityType: "product", Action: "update", Payload: map[string]interface{}{"name": "X"}},
				},
			},
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
			errorContains: "id: required for update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newUploadService(t, ctrl, 2)
			tt.setupMocks(m)

			result, err := svc.Upload(context.Background(), uuid.New(), uuid.New(), tt.req)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestUploadService_Upload_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newUploadService(t, ctrl, 10)
	tenantID := uuid.New()
	userID := uuid.New()

	m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		Return(int64(0), false, nil).
		Times(2)

	passthroughTransaction(m)

	var persisted *domain.SyncJob
	m.jobs.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Querier, job *domain.SyncJob) error {
			persisted = job
			return nil
		})
	m.jobs.EXPECT().
		InsertOperations(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Querier, ops []domain.SyncOperation) error {
			assert.Len(t, ops, 2)
			assert.Equal(t, "chg-001", ops[0].ClientChangeID)
			assert.Equal(t, domain.ActionCreate, ops[0].Action)
			return nil
		})
	m.enqueuer.EXPECT().EnqueueReplay(gomock.Any(), tenantID, gomock.Any()).Return(nil)

	req := ports.UploadRequest{
		DeviceID:   "tablet-1",
		DeviceName: "Warehouse Tablet",
		Operations: helpers.CreateTestClientOperations(2),
	}

	result, err := svc.Upload(context.Background(), tenantID, userID, req)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.JobStatusPending, result.Status)
	require.NotNil(t, persisted)
	assert.Equal(t, persisted.ID, result.JobID)
	assert.Equal(t, tenantID, persisted.TenantID)
	assert.Equal(t, userID, persisted.SubmittedBy)
}

func TestUploadService_Upload_CreateMatchesExistingRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newUploadService(t, ctrl, 10)
	tenantID := uuid.New()

	m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		Return(int64(42), true, nil)

	passthroughTransaction(m)

	var persisted *domain.SyncJob
	m.jobs.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ ports.Querier, job *domain.SyncJob) error {
			persisted = job
			return nil
		})
	m.jobs.EXPECT().InsertOperations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.enqueuer.EXPECT().EnqueueReplay(gomock.Any(), tenantID, gomock.Any()).Return(nil)

	req := ports.UploadRequest{
		DeviceID: "tablet-1",
		Operations: []ports.ClientOperation{
			{
				ClientChangeID: "chg-1",
				EntityType:     "product",
				Action:         "create",
				Payload: map[string]interface{}{
					"tmp_id": "tmp-widget",
					"name":   "Widget",
					"sku":    "SKU-0001",
				},
			},
		},
	}

	_, err := svc.Upload(context.Background(), tenantID, uuid.New(), req)
	require.NoError(t, err)
	require.NotNil(t, persisted)

	// The matching row binds the payload's temporary id up front.
	assert.Equal(t, int64(42), persisted.TempIDMap["tmp-widget"])
}

func TestUploadService_Upload_ChainedTempReference(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newUploadService(t, ctrl, 10)
	tenantID := uuid.New()

	m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		Return(int64(0), false, nil).
		Times(2)

	passthroughTransaction(m)
	m.jobs.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.jobs.EXPECT().InsertOperations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.enqueuer.EXPECT().EnqueueReplay(gomock.Any(), tenantID, gomock.Any()).Return(nil)

	// The second create references the first by its temporary id; both are
	// admitted because the target is pending within the same batch.
	req := ports.UploadRequest{
		DeviceID: "tablet-1",
		Operations: []ports.ClientOperation{
			{
				ClientChangeID: "chg-1",
				EntityType:     "product",
				Action:         "create",
				Payload:        map[string]interface{}{"tmp_id": "tmp-parent", "name": "Parent", "sku": "SKU-P"},
			},
			{
				ClientChangeID: "chg-2",
				EntityType:     "product",
				Action:         "create",
				Payload:        map[string]interface{}{"name": "Child", "sku": "SKU-C", "category_tmp_id": "tmp-parent"},
			},
		},
	}

	_, err := svc.Upload(context.Background(), tenantID, uuid.New(), req)
	require.NoError(t, err)
}

func TestUploadService_Upload_UnresolvedTempReferenceAdmitted(t *testing.T) {
	// A reference that does not resolve at intake never rejects the batch:
	// the target may be a later operation in the same upload or arrive in a
	// later one. A reference that still cannot resolve fails only its own
	// operation at replay.
	tests := []struct {
		name string
		ops  []ports.ClientOperation
	}{
		{
			name: "dependency_created_later_in_batch",
			ops: []ports.ClientOperation{
				{
					ClientChangeID: "chg-1",
					EntityType:     "product",
					Action:         "create",
					Payload:        map[string]interface{}{"name": "Child", "sku": "SKU-C", "category_tmp_id": "tmp-parent"},
				},
				{
					ClientChangeID: "chg-2",
					EntityType:     "product",
					Action:         "create",
					Payload:        map[string]interface{}{"tmp_id": "tmp-parent", "name": "Parent", "sku": "SKU-P"},
				},
			},
		},
		{
			name: "dependency_missing_from_batch",
			ops: []ports.ClientOperation{
				{
					ClientChangeID: "chg-1",
					EntityType:     "product",
					Action:         "create",
					Payload:        map[string]interface{}{"name": "Child", "sku": "SKU-C", "category_tmp_id": "tmp-ghost"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newUploadService(t, ctrl, 10)
			tenantID := uuid.New()

			m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			m.handler.EXPECT().
				FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
				Return(int64(0), false, nil).
				Times(len(tt.ops))

			passthroughTransaction(m)
			m.jobs.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			m.jobs.EXPECT().
				InsertOperations(gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ ports.Querier, ops []domain.SyncOperation) error {
					assert.Len(t, ops, len(tt.ops))
					return nil
				})
			m.enqueuer.EXPECT().EnqueueReplay(gomock.Any(), tenantID, gomock.Any()).Return(nil)

			result, err := svc.Upload(context.Background(), tenantID, uuid.New(), ports.UploadRequest{
				DeviceID:   "tablet-1",
				Operations: tt.ops,
			})
			require.NoError(t, err)
			assert.Equal(t, domain.JobStatusPending, result.Status)
		})
	}
}

func TestUploadService_Upload_InfrastructureFailures(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name       string
		setupMocks func(*uploadMocks)
		opContains string
	}{
		{
			name: "device_upsert_fails",
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().
					Upsert(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("connection refused"))
			},
			opContains: "device upsert",
		},
		{
			name: "persist_job_fails",
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.handler.EXPECT().
					FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
					Return(int64(0), false, nil)
				m.db.EXPECT().
					Transaction(gomock.Any(), gomock.Any()).
					Return(errors.New("deadlock detected"))
			},
			opContains: "persist job",
		},
		{
			name: "enqueue_fails_and_job_marked_failed",
			setupMocks: func(m *uploadMocks) {
				m.devices.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.handler.EXPECT().
					FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
					Return(int64(0), false, nil)
				passthroughTransaction(m)
				m.jobs.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.jobs.EXPECT().InsertOperations(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.enqueuer.EXPECT().
					EnqueueReplay(gomock.Any(), tenantID, gomock.Any()).
					Return(errors.New("redis down"))
				m.jobs.EXPECT().
					MarkFailed(gomock.Any(), gomock.Any(), gomock.Any(), "enqueue_failed: redis down").
					Return(nil)
			},
			opContains: "enqueue replay",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newUploadService(t, ctrl, 10)
			tt.setupMocks(m)

			req := ports.UploadRequest{
				DeviceID:   "tablet-1",
				Operations: helpers.CreateTestClientOperations(1),
			}

			_, err := svc.Upload(context.Background(), tenantID, uuid.New(), req)
			require.Error(t, err)
			assert.True(t, domain.IsInfrastructure(err))
			assert.Contains(t, err.Error(), tt.opContains)
		})
	}
}

func TestUploadService_Job(t *testing.T) {
	tenantID := uuid.New()
	jobID := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func(*uploadMocks)
		expectedError error
	}{
		{
			name: "returns_own_job",
			setupMocks: func(m *uploadMocks) {
				m.jobs.EXPECT().
					FindByID(gomock.Any(), gomock.Any(), jobID).
					Return(&domain.SyncJob{ID: jobID, TenantID: tenantID}, nil)
			},
		},
		{
			name: "foreign_tenant_job_hidden",
			setupMocks: func(m *uploadMocks) {
				m.jobs.EXPECT().
					FindByID(gomock.Any(), gomock.Any(), jobID).
					Return(&domain.SyncJob{ID: jobID, TenantID: uuid.New()}, nil)
			},
			expectedError: domain.ErrJobNotFound,
		},
		{
			name: "missing_job",
			setupMocks: func(m *uploadMocks) {
				m.jobs.EXPECT().
					FindByID(gomock.Any(), gomock.Any(), jobID).
					Return(nil, domain.ErrJobNotFound)
			},
			expectedError: domain.ErrJobNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newUploadService(t, ctrl, 10)
			tt.setupMocks(m)

			job, err := svc.Job(context.Background(), tenantID, jobID)
			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, job)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, jobID, job.ID)
		})
	}
}
