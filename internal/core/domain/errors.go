// internal/core/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for lookups
var (
	ErrJobNotFound    = errors.New("sync job not found")
	ErrDeviceNotFound = errors.New("device not found")
)

// UnknownEntityTypeError indicates an operation referenced an entity type the
// registry does not know.
type UnknownEntityTypeError struct {
	EntityType string
}

func (e *UnknownEntityTypeError) Error() string {
	return fmt.Sprintf("unknown entity type %q", e.EntityType)
}

// ValidationError indicates a client payload failed an admission check
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// PendingRef names a reference field whose target has not been created yet
type PendingRef struct {
	Field  string `json:"field"`
	TempID string `json:"temp_id"`
}

// PendingDependencyError indicates an operation referenced a temporary id
// that cannot resolve against the job's temp-id map during replay.
type PendingDependencyError struct {
	Refs []PendingRef
}

func (e *PendingDependencyError) Error() string {
	if len(e.Refs) == 1 {
		return fmt.Sprintf("pending_fk: unresolved reference %s=%s", e.Refs[0].Field, e.Refs[0].TempID)
	}
	return fmt.Sprintf("pending_fk: %d unresolved references", len(e.Refs))
}

// IntegrityViolationError wraps a database constraint failure classified at
// the storage boundary. UniqueViolation distinguishes duplicate-key races,
// which replay treats as conflicts rather than hard failures.
type IntegrityViolationError struct {
	Constraint      string
	UniqueViolation bool
	Err             error
}

func (e *IntegrityViolationError) Error() string {
	return fmt.Sprintf("integrity violation on %s: %v", e.Constraint, e.Err)
}

func (e *IntegrityViolationError) Unwrap() error {
	return e.Err
}

// InfrastructureError marks failures of the platform rather than the payload.
// Jobs move to failed only on these; operation-level errors never do.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// IsInfrastructure reports whether err is an infrastructure-level failure
func IsInfrastructure(err error) bool {
	var infra *InfrastructureError
	return errors.As(err, &infra)
}
