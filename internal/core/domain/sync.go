// internal/core/domain/sync.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a sync job
type JobStatus string

// Job status constants
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusDone       JobStatus = "done"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusFailed
}

// OpAction represents the kind of mutation a sync operation carries
type OpAction string

// Operation action constants
const (
	ActionCreate OpAction = "create"
	ActionUpdate OpAction = "update"
	ActionDelete OpAction = "delete"
)

// ValidAction reports whether the given string is a known operation action
func ValidAction(s string) bool {
	switch OpAction(s) {
	case ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Ledger actions include the operation actions plus the marker written when a
// create matched an existing row and was mapped instead of applied.
const LedgerActionNoopMapExisting = "noop_map_existing"

// Device represents a client installation registered for sync
type Device struct {
	ID       uuid.UUID              `json:"id"`
	TenantID uuid.UUID              `json:"tenant_id"`
	UserID   uuid.UUID              `json:"user_id"`
	DeviceID string                 `json:"device_id"`
	Name     string                 `json:"name,omitempty"`
	LastSeen time.Time              `json:"last_seen"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Validate performs domain validation on the device
func (d *Device) Validate() error {
	if d.DeviceID == "" {
		return fmt.Errorf("device_id is required")
	}
	if len(d.DeviceID) > 128 {
		return fmt.Errorf("device_id exceeds 128 characters")
	}
	if len(d.Name) > 150 {
		return fmt.Errorf("name exceeds 150 characters")
	}
	return nil
}

// OperationError describes a single failed operation in a job summary
type OperationError struct {
	ClientChangeID string `json:"client_change_id"`
	Error          string `json:"error"`
}

// JobSummary is the terminal result of a replay pass over a job
type JobSummary struct {
	Processed int              `json:"processed"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Conflicts int              `json:"conflicts"`
	Errors    []OperationError `json:"errors,omitempty"`
}

// SyncJob represents one uploaded batch of client operations
type SyncJob struct {
	ID          uuid.UUID        `json:"id"`
	TenantID    uuid.UUID        `json:"tenant_id"`
	SubmittedBy uuid.UUID        `json:"submitted_by"`
	DeviceID    *uuid.UUID       `json:"device_id,omitempty"`
	Status      JobStatus        `json:"status"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Result      *JobSummary      `json:"result,omitempty"`
	TempIDMap   map[string]int64 `json:"temp_id_map"`
}

// PrepareForStorage assigns identity and defaults before the first insert
func (j *SyncJob) PrepareForStorage() {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = JobStatusPending
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now()
	}
	if j.TempIDMap == nil {
		j.TempIDMap = make(map[string]int64)
	}
}

// SyncOperation is a single client mutation inside a job. Seq is assigned by
// the database and fixes the replay order; ClientChangeID is the client's
// idempotency key, unique within the job.
type SyncOperation struct {
	ID             uuid.UUID              `json:"id"`
	JobID          uuid.UUID              `json:"job_id"`
	Seq            int64                  `json:"seq"`
	ClientChangeID string                 `json:"client_change_id"`
	EntityType     string                 `json:"entity_type"`
	Action         OpAction               `json:"action"`
	Payload        map[string]interface{} `json:"payload"`
	Processed      bool                   `json:"processed"`
	ProcessedAt    *time.Time             `json:"processed_at,omitempty"`
	Success        *bool                  `json:"success,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// SyncConflict records a divergence detected during replay, preserving both
// sides so it can be inspected or resolved later.
type SyncConflict struct {
	ID             uuid.UUID              `json:"id"`
	OperationID    uuid.UUID              `json:"operation_id"`
	ServerSnapshot map[string]interface{} `json:"server_snapshot,omitempty"`
	ClientPayload  map[string]interface{} `json:"client_payload"`
	Resolved       bool                   `json:"resolved"`
	Resolution     map[string]interface{} `json:"resolution,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ChangeEntry is one immutable row of the per-tenant change ledger. Version is
// the bigserial primary key and doubles as the server version exposed to
// clients as their download cursor.
type ChangeEntry struct {
	Version    int64                  `json:"version"`
	TenantID   uuid.UUID              `json:"tenant_id"`
	EntityType string                 `json:"entity_type"`
	EntityID   *int64                 `json:"entity_id,omitempty"`
	Action     string                 `json:"action"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// SyncCursor tracks the last ledger version a device has downloaded
type SyncCursor struct {
	TenantID          uuid.UUID `json:"tenant_id"`
	DeviceID          uuid.UUID `json:"device_id"`
	LastServerVersion int64     `json:"last_server_version"`
	UpdatedAt         time.Time `json:"updated_at"`
}
