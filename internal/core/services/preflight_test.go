// internal/core/services/preflight_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkarlin/stocksync-be/internal/core/domain"
	"github.com/mkarlin/stocksync-be/internal/core/registry"
	"github.com/mkarlin/stocksync-be/internal/core/services"
	"github.com/mkarlin/stocksync-be/test/mocks"
)

func newPreflight(t *testing.T, ctrl *gomock.Controller, schema registry.Schema) (*services.Preflight, *mocks.MockEntityHandler, *mocks.MockSyncDB) {
	t.Helper()

	handler := mocks.NewMockEntityHandler(ctrl)
	handler.EXPECT().Name().Return("product").AnyTimes()
	handler.EXPECT().Schema().Return(schema).AnyTimes()

	reg := registry.New()
	reg.Register(handler)

	return services.NewPreflight(reg), handler, mocks.NewMockSyncDB(ctrl)
}

func TestPreflight_Check_UnknownEntityType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, _, db := newPreflight(t, ctrl, productSchema())

	_, err := p.Check(context.Background(), db, uuid.New(), "warehouse",
		domain.ActionCreate, map[string]interface{}{}, nil, nil)
	require.Error(t, err)

	var unknown *domain.UnknownEntityTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "warehouse", unknown.EntityType)
}

func TestPreflight_Check_StripsTenantStamps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, handler, db := newPreflight(t, ctrl, productSchema())
	tenantID := uuid.New()

	handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ interface{}, _ uuid.UUID, payload map[string]interface{}) (int64, bool, error) {
			assert.NotContains(t, payload, "tenant")
			assert.NotContains(t, payload, "tenant_id")
			assert.NotContains(t, payload, "tmp_id")
			return 0, false, nil
		})

	payload := map[string]interface{}{
		"tenant":    "spoofed",
		"tenant_id": uuid.New().String(),
		"tmp_id":    "tmp-1",
		"name":      "Widget",
		"sku":       "SKU-1",
	}

	result, err := p.Check(context.Background(), db, tenantID, "product",
		domain.ActionCreate, payload, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Widget", result.Payload["name"])
	assert.NotContains(t, result.Payload, "tenant_id")
}

func TestPreflight_Check_TempReferences(t *testing.T) {
	tests := []struct {
		name          string
		payload       map[string]interface{}
		tempMap       map[string]int64
		pendingTmp    map[string]bool
		wantResolved  int64
		wantPending   bool
		errorContains string
	}{
		{
			name:         "bound_reference_resolves_to_server_id",
			payload:      map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": "tmp-cat"},
			tempMap:      map[string]int64{"tmp-cat": 77},
			wantResolved: 77,
		},
		{
			name:        "pending_reference_deferred_to_replay",
			payload:     map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": "tmp-cat"},
			pendingTmp:  map[string]bool{"tmp-cat": true},
			wantPending: true,
		},
		{
			name:        "unknown_reference_pending_at_intake",
			payload:     map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": "tmp-cat"},
			pendingTmp:  map[string]bool{},
			wantPending: true,
		},
		{
			name:          "unresolved_reference_rejected_at_replay",
			payload:       map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": "tmp-ghost"},
			errorContains: "pending_fk: unresolved reference category_id=tmp-ghost",
		},
		{
			name:          "temporary_id_must_be_string",
			payload:       map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": float64(3)},
			errorContains: "temporary id must be a non-empty string",
		},
		{
			name:          "temporary_id_must_not_be_empty",
			payload:       map[string]interface{}{"name": "W", "sku": "S", "category_tmp_id": ""},
			errorContains: "temporary id must be a non-empty string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p, handler, db := newPreflight(t, ctrl, productSchema())
			tenantID := uuid.New()

			if tt.errorContains == "" {
				handler.EXPECT().
					FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
					Return(int64(0), false, nil)
			}

			result, err := p.Check(context.Background(), db, tenantID, "product",
				domain.ActionCreate, tt.payload, tt.tempMap, tt.pendingTmp)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.wantResolved != 0 {
				assert.Equal(t, tt.wantResolved, result.Payload["category_id"])
				assert.Empty(t, result.PendingRefs)
			}
			if tt.wantPending {
				require.Len(t, result.PendingRefs, 1)
				assert.Equal(t, "category_id", result.PendingRefs[0].Field)
				assert.Equal(t, "tmp-cat", result.PendingRefs[0].TempID)
				assert.NotContains(t, result.Payload, "category_id")
			}
		})
	}
}

func TestPreflight_Check_TextFieldLength(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	schema := registry.Schema{TextFields: []registry.FieldSpec{{Name: "name", MaxLen: 5}}}
	p, _, db := newPreflight(t, ctrl, schema)

	_, err := p.Check(context.Background(), db, uuid.New(), "product",
		domain.ActionCreate, map[string]interface{}{"name": "toolongname"}, nil, nil)
	require.Error(t, err)

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)
	assert.Contains(t, err.Error(), "exceeds 5 characters")
}

func TestPreflight_Check_RequiredReferences(t *testing.T) {
	schema := registry.Schema{
		References: []registry.RefSpec{{Field: "category_id", Required: true}},
	}

	tests := []struct {
		name          string
		payload       map[string]interface{}
		pendingTmp    map[string]bool
		findExpected  bool
		errorContains string
	}{
		{
			name:         "resolved_reference_accepted",
			payload:      map[string]interface{}{"category_id": float64(5)},
			findExpected: true,
		},
		{
			name:         "pending_reference_accepted",
			payload:      map[string]interface{}{"category_tmp_id": "tmp-cat"},
			pendingTmp:   map[string]bool{"tmp-cat": true},
			findExpected: true,
		},
		{
			name:          "missing_reference_rejected",
			payload:       map[string]interface{}{"name": "orphan"},
			errorContains: "category_id: required reference missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p, handler, db := newPreflight(t, ctrl, schema)
			tenantID := uuid.New()

			if tt.findExpected {
				handler.EXPECT().
					FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
					Return(int64(0), false, nil)
			}

			_, err := p.Check(context.Background(), db, tenantID, "product",
				domain.ActionCreate, tt.payload, nil, tt.pendingTmp)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPreflight_Check_UpdateWithUnresolvedReferenceAtReplay(t *testing.T) {
	requiredSchema := registry.Schema{
		References: []registry.RefSpec{{Field: "category_id", Required: true}},
	}

	tests := []struct {
		name          string
		schema        registry.Schema
		errorContains string
	}{
		{
			// An optional reference that never resolved is dropped and the
			// update proceeds without writing the field.
			name:   "optional_reference_dropped",
			schema: productSchema(),
		},
		{
			name:          "required_reference_fails_operation",
			schema:        requiredSchema,
			errorContains: "pending_fk: unresolved reference category_id=tmp-ghost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p, _, db := newPreflight(t, ctrl, tt.schema)

			payload := map[string]interface{}{
				"id":              float64(9),
				"name":            "Widget",
				"category_tmp_id": "tmp-ghost",
			}

			result, err := p.Check(context.Background(), db, uuid.New(), "product",
				domain.ActionUpdate, payload, nil, nil)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.NotContains(t, result.Payload, "category_id")
			assert.Empty(t, result.PendingRefs)
			assert.Equal(t, "Widget", result.Payload["name"])
		})
	}
}

func TestPreflight_Check_CreateMatchesExisting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, handler, db := newPreflight(t, ctrl, productSchema())
	tenantID := uuid.New()

	handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		Return(int64(42), true, nil)

	result, err := p.Check(context.Background(), db, tenantID, "product",
		domain.ActionCreate, map[string]interface{}{"name": "W", "sku": "SKU-1"}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, result.ExistingID)
	assert.Equal(t, int64(42), *result.ExistingID)
}

func TestPreflight_Check_UniqueLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p, handler, db := newPreflight(t, ctrl, productSchema())
	tenantID := uuid.New()

	handler.EXPECT().
		FindByUnique(gomock.Any(), gomock.Any(), tenantID, gomock.Any()).
		Return(int64(0), false, errors.New("connection reset"))

	_, err := p.Check(context.Background(), db, tenantID, "product",
		domain.ActionCreate, map[string]interface{}{"name": "W"}, nil, nil)
	require.Error(t, err)
	assert.True(t, domain.IsInfrastructure(err))
	assert.Contains(t, err.Error(), "preflight unique lookup")
}

func TestPreflight_Check_UpdateDeleteTargets(t *testing.T) {
	tests := []struct {
		name          string
		action        domain.OpAction
		payload       map[string]interface{}
		tempMap       map[string]int64
		pendingTmp    map[string]bool
		wantID        interface{}
		wantPendingID bool
		errorContains string
	}{
		{
			name:    "update_with_server_id",
			action:  domain.ActionUpdate,
			payload: map[string]interface{}{"id": float64(9), "name": "W"},
			wantID:  float64(9),
		},
		{
			name:    "update_self_tmp_bound",
			action:  domain.ActionUpdate,
			payload: map[string]interface{}{"tmp_id": "tmp-self", "name": "W"},
			tempMap: map[string]int64{"tmp-self": 13},
			wantID:  int64(13),
		},
		{
			name:          "update_self_tmp_pending",
			action:        domain.ActionUpdate,
			payload:       map[string]interface{}{"tmp_id": "tmp-self", "name": "W"},
			pendingTmp:    map[string]bool{"tmp-self": true},
			wantPendingID: true,
		},
		{
			name:          "update_self_tmp_unresolved",
			action:        domain.ActionUpdate,
			payload:       map[string]interface{}{"tmp_id": "tmp-ghost", "name": "W"},
			errorContains: "pending_fk: unresolved reference id=tmp-ghost",
		},
		{
			name:          "update_without_target",
			action:        domain.ActionUpdate,
			payload:       map[string]interface{}{"name": "W"},
			errorContains: "id: required for update",
		},
		{
			name:          "delete_without_target",
			action:        domain.ActionDelete,
			payload:       map[string]interface{}{},
			errorContains: "id: required for delete",
		},
		{
			name:    "delete_with_server_id",
			action:  domain.ActionDelete,
			payload: map[string]interface{}{"id": float64(4)},
			wantID:  float64(4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			p, _, db := newPreflight(t, ctrl, productSchema())

			result, err := p.Check(context.Background(), db, uuid.New(), "product",
				tt.action, tt.payload, tt.tempMap, tt.pendingTmp)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			if tt.wantID != nil {
				assert.Equal(t, tt.wantID, result.Payload["id"])
			}
			if tt.wantPendingID {
				require.Len(t, result.PendingRefs, 1)
				assert.Equal(t, "id", result.PendingRefs[0].Field)
				assert.Equal(t, "tmp-self", result.PendingRefs[0].TempID)
			}
		})
	}
}
