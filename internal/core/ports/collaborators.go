// internal/core/ports/collaborators.go
package ports

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TaskEnqueuer schedules background work for uploaded jobs
type TaskEnqueuer interface {
	EnqueueReplay(ctx context.Context, tenantID, jobID uuid.UUID) error
}

// Notifier delivers sync outcome notices to tenant channels. Delivery
// mechanics live behind this port; the replay engine only emits events.
type Notifier interface {
	Notify(ctx context.Context, tenantID uuid.UUID, kind string, details map[string]interface{}) error
}

// Notification kinds emitted by the replay engine
const (
	NotifyJobFailures = "sync_job_failures"
	NotifyConflicts   = "sync_conflicts"
)

// Identity is the resolved caller of an HTTP request
type Identity struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
}

// IdentityResolver extracts the authenticated tenant and user from a request.
// Authentication mechanics are out of scope; adapters implement this port.
type IdentityResolver interface {
	Resolve(r *http.Request) (Identity, error)
}
