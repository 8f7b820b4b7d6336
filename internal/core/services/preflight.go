// internal/core/services/preflight.go
package services

import (
	"fmt"
	"strings"

	"context"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/ports"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
)

const tmpSuffix = "_tmp_id"

// PreflightResult is the outcome of admission checks for one operation
type PreflightResult struct {
	// Payload is a normalized copy: tenant fields stripped, temporary
	// references resolved where the map allows, placeholder keys removed.
	Payload map[string]interface{}

	// PendingRefs lists references that were not resolvable yet. At intake
	// every unresolved reference is pending; it settles at replay, where a
	// reference that still cannot resolve fails its operation.
	PendingRefs []domain.PendingRef

	// ExistingID is set when a create matches an existing row on the
	// entity's unique fields; the operation should no-op and map to it.
	ExistingID *int64
}

// Preflight runs side-effect-free admission checks against an operation.
// It never writes; the same check runs at upload intake and again during
// replay.
type Preflight struct {
	registry *registry.Registry
}

// NewPreflight creates a preflight validator over the given registry
func NewPreflight(reg *registry.Registry) *Preflight {
	return &Preflight{registry: reg}
}

// Check validates a single operation. tempMap holds temporary ids already
// bound to server ids. A non-nil pendingTmp marks intake, where an unresolved
// reference is admitted as pending: its target may be another create in the
// batch or arrive in a later upload. During replay pendingTmp is nil and the
// temp map is final, so anything still unresolved is a hard
// pending-dependency failure.
func (p *Preflight) Check(
	ctx context.Context,
	q ports.Querier,
	tenantID uuid.UUID,
	entityType string,
	action domain.OpAction,
	payload map[string]interface{},
	tempMap map[string]int64,
	pendingTmp map[string]bool,
) (*PreflightResult, error) {
	handler, ok := p.registry.Lookup(entityType)
	if !ok {
		return nil, &domain.UnknownEntityTypeError{EntityType: entityType}
	}
	schema := handler.Schema()

	result := &PreflightResult{Payload: make(map[string]interface{}, len(payload))}

	// The payload's own temporary id, used to resolve updates and deletes
	// that target a row created earlier in the same batch.
	selfTmp, _ := registry.StringField(payload, "tmp_id")

	var unresolved []domain.PendingRef
	for key, value := range payload {
		switch key {
		case "tenant", "tenant_id", "tmp_id":
			// Never trust client tenant stamps; the authoritative tenant
			// comes from the resolved identity.
			continue
		}

		if strings.HasSuffix(key, tmpSuffix) {
			field := strings.TrimSuffix(key, tmpSuffix) + "_id"
			tmpVal, ok := value.(string)
			if !ok || tmpVal == "" {
				return nil, &domain.ValidationError{Field: key, Reason: "temporary id must be a non-empty string"}
			}
			if id, bound := tempMap[tmpVal]; bound {
				result.Payload[field] = id
				continue
			}
			ref := domain.PendingRef{Field: field, TempID: tmpVal}
			if pendingTmp != nil {
				result.PendingRefs = append(result.PendingRefs, ref)
				continue
			}
			// An update survives an optional reference that never resolved:
			// the field is simply not written.
			if action == domain.ActionUpdate {
				if spec, ok := schema.Reference(field); ok && !spec.Required {
					continue
				}
			}
			unresolved = append(unresolved, ref)
			continue
		}

		result.Payload[key] = value
	}
	if len(unresolved) > 0 {
		return nil, &domain.PendingDependencyError{Refs: unresolved}
	}

	for _, field := range schema.TextFields {
		s, ok := registry.StringField(result.Payload, field.Name)
		if ok && len(s) > field.MaxLen {
			return nil, &domain.ValidationError{
				Field:  field.Name,
				Reason: fmt.Sprintf("exceeds %d characters", field.MaxLen),
			}
		}
	}

	switch action {
	case domain.ActionCreate:
		if err := p.checkRequiredRefs(schema, result); err != nil {
			return nil, err
		}
		id, found, err := handler.FindByUnique(ctx, q, tenantID, result.Payload)
		if err != nil {
			return nil, &domain.InfrastructureError{Op: "preflight unique lookup", Err: err}
		}
		if found {
			result.ExistingID = &id
		}

	case domain.ActionUpdate, domain.ActionDelete:
		if _, ok := registry.Int64Field(result.Payload, "id"); ok {
			break
		}
		if selfTmp != "" {
			if id, bound := tempMap[selfTmp]; bound {
				result.Payload["id"] = id
				break
			}
			if pendingTmp != nil {
				result.PendingRefs = append(result.PendingRefs,
					domain.PendingRef{Field: "id", TempID: selfTmp})
				break
			}
			return nil, &domain.PendingDependencyError{
				Refs: []domain.PendingRef{{Field: "id", TempID: selfTmp}},
			}
		}
		return nil, &domain.ValidationError{Field: "id", Reason: "required for " + string(action)}

	default:
		return nil, &domain.ValidationError{Field: "action", Reason: fmt.Sprintf("unknown action %q", action)}
	}

	return result, nil
}

// checkRequiredRefs verifies every required reference is either resolved in
// the payload or pending within the batch.
func (p *Preflight) checkRequiredRefs(schema registry.Schema, result *PreflightResult) error {
	for _, ref := range schema.References {
		if !ref.Required {
			continue
		}
		if _, ok := registry.Int64Field(result.Payload, ref.Field); ok {
			continue
		}
		pending := false
		for _, pr := range result.PendingRefs {
			if pr.Field == ref.Field {
				pending = true
				break
			}
		}
		if !pending {
			return &domain.ValidationError{Field: ref.Field, Reason: "required reference missing"}
		}
	}
	return nil
}
