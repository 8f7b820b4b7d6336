// internal/core/registry/registry.go

// Package registry holds the typed entity registry: an explicit map from
// entity-type name to a handler that knows how to validate, apply, and load
// rows of that type. Handlers are registered at startup; lookups at request
// time never use reflection.
package registry

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// FieldSpec bounds a text field
type FieldSpec struct {
	Name   string
	MaxLen int
}

// RefSpec declares a reference field. Clients may submit it either as
// "<base>_id" with a server id or as "<base>_tmp_id" with a temporary id that
// resolves through the job's temp-id map.
type RefSpec struct {
	Field    string // resolved name, e.g. "category_id"
	Required bool
}

// Schema is the declarative shape of a syncable entity
type Schema struct {
	TextFields   []FieldSpec
	References   []RefSpec
	UniqueFields []string
}

// Reference looks up a reference by its resolved field name
func (s Schema) Reference(field string) (RefSpec, bool) {
	for _, ref := range s.References {
		if ref.Field == field {
			return ref, true
		}
	}
	return RefSpec{}, false
}

// EntityHandler is the per-type capability set the sync engine drives.
// All methods take an explicit tenant id; payloads never carry one.
type EntityHandler interface {
	Name() string
	Schema() Schema

	// FindByUnique looks up an existing row matching the payload's unique
	// fields. Returns (0, false, nil) when the payload does not carry all
	// unique fields or no row matches.
	FindByUnique(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, bool, error)

	// ApplyCreate inserts a row and returns its server id
	ApplyCreate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, payload map[string]interface{}) (int64, error)

	// GetForUpdate locks the row and returns its current snapshot and
	// updated_at. found is false when the row does not exist.
	GetForUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (snapshot map[string]interface{}, updatedAt time.Time, found bool, err error)

	// ApplyUpdate writes the payload's whitelisted fields to the locked row
	ApplyUpdate(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64, payload map[string]interface{}) error

	// ApplyDelete removes the row, reporting whether it existed
	ApplyDelete(ctx context.Context, q ports.Querier, tenantID uuid.UUID, id int64) (bool, error)

	// LoadByIDs returns serialized current rows for the given ids, skipping
	// ids that no longer exist.
	LoadByIDs(ctx context.Context, q ports.Querier, tenantID uuid.UUID, ids []int64) ([]map[string]interface{}, error)
}

// Registry maps entity-type names to handlers
type Registry struct {
	handlers map[string]EntityHandler
}

// New creates an empty registry
func New() *Registry {
	return &Registry{handlers: make(map[string]EntityHandler)}
}

// Register adds a handler under its declared name, replacing any previous
// registration. Not safe for concurrent use; call during startup only.
func (r *Registry) Register(h EntityHandler) {
	r.handlers[h.Name()] = h
}

// Lookup returns the handler for the given entity-type name
func (r *Registry) Lookup(name string) (EntityHandler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns the registered entity-type names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Int64Field extracts an integer id from a JSON-decoded payload value,
// tolerating the numeric types json.Unmarshal produces.
func Int64Field(payload map[string]interface{}, key string) (int64, bool) {
	v, ok := payload[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// StringField extracts a string value from a payload
func StringField(payload map[string]interface{}, key string) (string, bool) {
	v, ok := payload[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
