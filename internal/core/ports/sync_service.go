// internal/core/ports/sync_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
)

// ClientOperation is one queued mutation as submitted by a client
type ClientOperation struct {
	ClientChangeID string                 `json:"client_change_id"`
	EntityType     string                 `json:"entity_type"`
	Action         string                 `json:"action"`
	Payload        map[string]interface{} `json:"payload"`
}

// UploadRequest is a batch of client operations from one device
type UploadRequest struct {
	DeviceID   string            `json:"device_id"`
	DeviceName string            `json:"device_name,omitempty"`
	Operations []ClientOperation `json:"operations"`
}

// UploadResult is returned once a batch has been admitted
type UploadResult struct {
	JobID  uuid.UUID        `json:"job_id"`
	Status domain.JobStatus `json:"status"`
}

// UploadService admits operation batches and exposes job status
type UploadService interface {
	Upload(ctx context.Context, tenantID, userID uuid.UUID, req UploadRequest) (*UploadResult, error)
	Job(ctx context.Context, tenantID, jobID uuid.UUID) (*domain.SyncJob, error)
}

// ReplayService applies a job's operations against tenant state
type ReplayService interface {
	ProcessJob(ctx context.Context, jobID uuid.UUID) (*domain.JobSummary, error)
}

// DownloadResult is an incremental delta keyed to the change-ledger version
type DownloadResult struct {
	DeviceID string                              `json:"device_id"`
	Since    int64                               `json:"since"`
	Cursor   int64                               `json:"cursor"`
	Data     map[string][]map[string]interface{} `json:"data"`
	Deleted  map[string][]int64                  `json:"deleted"`
}

// DownloadService serves incremental deltas to devices
type DownloadService interface {
	Download(ctx context.Context, tenantID uuid.UUID, deviceID string, since int64) (*DownloadResult, error)
}

// DeviceService manages the device registry surface
type DeviceService interface {
	Register(ctx context.Context, tenantID, userID uuid.UUID, deviceID, name string, metadata map[string]interface{}) (*domain.Device, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Device, error)
}
