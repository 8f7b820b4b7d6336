// internal/handlers/sync_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/handlers"
	"github.com/mkarlin/stocksync-be/internal/handlers/middleware"
	"github.com/mkarlin/stocksync-be/test/helpers"
	"github.com/mkarlin/stocksync-be/test/mocks"
)

type syncHandlerMocks struct {
	upload   *mocks.MockUploadService
	download *mocks.MockDownloadService
	devices  *mocks.MockDeviceService
	resolver *mocks.MockIdentityResolver
}

// newSyncRouter wires the handler behind the identity middleware the way the
// API server does, so tests exercise the full request path.
func newSyncRouter(t *testing.T, ctrl *gomock.Controller) (*http.ServeMux, *syncHandlerMocks) {
	t.Helper()

	m := &syncHandlerMocks{
		upload:   mocks.NewMockUploadService(ctrl),
		download: mocks.NewMockDownloadService(ctrl),
		devices:  mocks.NewMockDeviceService(ctrl),
		resolver: mocks.NewMockIdentityResolver(ctrl),
	}

	handler := handlers.NewSyncHandler(m.upload, m.download, m.devices, helpers.TestLogger())
	authed := middleware.Identity(m.resolver, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/sync/upload", authed(http.HandlerFunc(handler.Upload)))
	mux.Handle("GET /api/v1/sync/jobs/{id}", authed(http.HandlerFunc(handler.JobStatus)))
	mux.Handle("GET /api/v1/sync/download", authed(http.HandlerFunc(handler.Download)))
	mux.Handle("POST /api/v1/sync/devices", authed(http.HandlerFunc(handler.RegisterDevice)))
	mux.Handle("GET /api/v1/sync/devices", authed(http.HandlerFunc(handler.ListDevices)))

	return mux, m
}

func resolveAs(m *syncHandlerMocks, identity ports.Identity) {
	m.resolver.EXPECT().Resolve(gomock.Any()).Return(identity, nil)
}

func TestSyncHandler_Upload(t *testing.T) {
	identity := ports.Identity{TenantID: uuid.New(), UserID: uuid.New()}
	jobID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMocks     func(*syncHandlerMocks)
		expectedStatus int
		checkBody      func(*testing.T, map[string]interface{})
	}{
		{
			name: "accepted",
			body: `{"device_id":"tablet-1","operations":[{"client_change_id":"chg-1","entity_type":"product","action":"create","payload":{"name":"W"}}]}`,
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.upload.EXPECT().
					Upload(gomock.Any(), identity.TenantID, identity.UserID, gomock.Any()).
					Return(&ports.UploadResult{JobID: jobID, Status: domain.JobStatusPending}, nil)
			},
			expectedStatus: http.StatusAccepted,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, jobID.String(), body["job_id"])
				assert.Equal(t, "pending", body["status"])
			},
		},
		{
			name: "invalid_json",
			body: `{"device_id":`,
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation_error",
			body: `{"device_id":"","operations":[]}`,
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.upload.EXPECT().
					Upload(gomock.Any(), identity.TenantID, identity.UserID, gomock.Any()).
					Return(nil, &domain.ValidationError{Field: "device_id", Reason: "required"})
			},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "device_id: required", body["error"])
			},
		},
		{
			name: "pending_dependency_error",
			body: `{"device_id":"tablet-1","operations":[]}`,
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.upload.EXPECT().
					Upload(gomock.Any(), identity.TenantID, identity.UserID, gomock.Any()).
					Return(nil, &domain.PendingDependencyError{
						Refs: []domain.PendingRef{{Field: "category_id", TempID: "tmp-1"}},
					})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "infrastructure_error",
			body: `{"device_id":"tablet-1","operations":[]}`,
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.upload.EXPECT().
					Upload(gomock.Any(), identity.TenantID, identity.UserID, gomock.Any()).
					Return(nil, &domain.InfrastructureError{Op: "persist job", Err: errors.New("down")})
			},
			expectedStatus: http.StatusServiceUnavailable,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "Service temporarily unavailable", body["error"])
			},
		},
		{
			name: "unresolved_identity",
			body: `{}`,
			setupMocks: func(m *syncHandlerMocks) {
				m.resolver.EXPECT().
					Resolve(gomock.Any()).
					Return(ports.Identity{}, errors.New("missing header"))
			},
			expectedStatus: http.StatusUnauthorized,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, "unauthorized", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mux, m := newSyncRouter(t, ctrl)
			tt.setupMocks(m)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/upload",
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.checkBody(t, body)
			}
		})
	}
}

func TestSyncHandler_JobStatus(t *testing.T) {
	identity := ports.Identity{TenantID: uuid.New(), UserID: uuid.New()}
	jobID := uuid.New()

	t.Run("returns_job", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		started := time.Now().Add(-time.Minute)
		completed := time.Now()
		m.upload.EXPECT().
			Job(gomock.Any(), identity.TenantID, jobID).
			Return(&domain.SyncJob{
				ID:          jobID,
				TenantID:    identity.TenantID,
				Status:      domain.JobStatusDone,
				CreatedAt:   started,
				StartedAt:   &started,
				CompletedAt: &completed,
				Result:      &domain.JobSummary{Processed: 2, Succeeded: 2},
			}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs/"+jobID.String(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, jobID.String(), body["id"])
		assert.Equal(t, "done", body["status"])
		assert.NotEmpty(t, body["started_at"])
		assert.NotEmpty(t, body["completed_at"])

		result := body["result"].(map[string]interface{})
		assert.Equal(t, float64(2), result["succeeded"])
	})

	t.Run("invalid_job_id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("job_not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		m.upload.EXPECT().
			Job(gomock.Any(), identity.TenantID, jobID).
			Return(nil, domain.ErrJobNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/jobs/"+jobID.String(), nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestSyncHandler_Download(t *testing.T) {
	identity := ports.Identity{TenantID: uuid.New(), UserID: uuid.New()}

	tests := []struct {
		name           string
		target         string
		setupMocks     func(*syncHandlerMocks)
		expectedStatus int
	}{
		{
			name:   "delta_returned",
			target: "/api/v1/sync/download?device_id=tablet-1&since=42",
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.download.EXPECT().
					Download(gomock.Any(), identity.TenantID, "tablet-1", int64(42)).
					Return(&ports.DownloadResult{DeviceID: "tablet-1", Since: 42, Cursor: 50}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "missing_device_id",
			target: "/api/v1/sync/download",
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "negative_since",
			target: "/api/v1/sync/download?device_id=tablet-1&since=-3",
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown_device",
			target: "/api/v1/sync/download?device_id=ghost",
			setupMocks: func(m *syncHandlerMocks) {
				resolveAs(m, identity)
				m.download.EXPECT().
					Download(gomock.Any(), identity.TenantID, "ghost", int64(0)).
					Return(nil, domain.ErrDeviceNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mux, m := newSyncRouter(t, ctrl)
			tt.setupMocks(m)

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestSyncHandler_RegisterDevice(t *testing.T) {
	identity := ports.Identity{TenantID: uuid.New(), UserID: uuid.New()}

	t.Run("created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		device := helpers.CreateTestDevice(func(d *domain.Device) {
			d.TenantID = identity.TenantID
			d.DeviceID = "tablet-1"
		})
		m.devices.EXPECT().
			Register(gomock.Any(), identity.TenantID, identity.UserID, "tablet-1", "Warehouse Tablet", gomock.Any()).
			Return(device, nil)

		body := `{"device_id":"tablet-1","name":"Warehouse Tablet","metadata":{"platform":"android"}}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/devices",
			bytes.NewBufferString(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.Device
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "tablet-1", got.DeviceID)
	})

	t.Run("validation_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		m.devices.EXPECT().
			Register(gomock.Any(), identity.TenantID, identity.UserID, "", "", gomock.Any()).
			Return(nil, &domain.ValidationError{Field: "device_id", Reason: "device_id is required"})

		req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/devices",
			bytes.NewBufferString(`{}`))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSyncHandler_ListDevices(t *testing.T) {
	identity := ports.Identity{TenantID: uuid.New(), UserID: uuid.New()}

	t.Run("empty_list_serialized_as_array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		m.devices.EXPECT().
			List(gomock.Any(), identity.TenantID).
			Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/devices", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(0), body["count"])
		assert.NotNil(t, body["devices"])
	})

	t.Run("devices_returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mux, m := newSyncRouter(t, ctrl)
		resolveAs(m, identity)

		registered := []domain.Device{
			*helpers.CreateTestDevice(func(d *domain.Device) { d.TenantID = identity.TenantID }),
		}
		m.devices.EXPECT().
			List(gomock.Any(), identity.TenantID).
			Return(registered, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sync/devices", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(1), body["count"])
	})
}
