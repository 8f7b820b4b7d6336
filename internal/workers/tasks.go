// internal/workers/tasks.go
package workers

import (
	"github.com/google/uuid"
)

// Task type names routed through asynq
const (
	TypeSyncReplay    = "sync:replay"
	TypeSyncNotify    = "sync:notify"
	TypeLedgerArchive = "maintenance:ledger_archive"
	TypeCleanupJobs   = "maintenance:cleanup_jobs"
)

// ReplayPayload is the task payload for sync:replay
type ReplayPayload struct {
	TenantID uuid.UUID `json:"tenant_id"`
	JobID    uuid.UUID `json:"job_id"`
}

// NotifyPayload is the task payload for sync:notify
type NotifyPayload struct {
	TenantID uuid.UUID              `json:"tenant_id"`
	Kind     string                 `json:"kind"`
	Details  map[string]interface{} `json:"details,omitempty"`
}
