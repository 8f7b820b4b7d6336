// internal/adapters/identity/header_test.go
package identity_test

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlin/stocksync-be/internal/adapters/identity"
)

func TestHeaderResolver_Resolve(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name          string
		tenantHeader  string
		userHeader    string
		errorContains string
	}{
		{
			name:         "valid_headers",
			tenantHeader: tenantID.String(),
			userHeader:   userID.String(),
		},
		{
			name:          "missing_tenant_header",
			userHeader:    userID.String(),
			errorContains: identity.HeaderTenantID,
		},
		{
			name:          "missing_user_header",
			tenantHeader:  tenantID.String(),
			errorContains: identity.HeaderUserID,
		},
		{
			name:          "malformed_tenant_id",
			tenantHeader:  "not-a-uuid",
			userHeader:    userID.String(),
			errorContains: identity.HeaderTenantID,
		},
	}

	resolver := identity.NewHeaderResolver()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.tenantHeader != "" {
				req.Header.Set(identity.HeaderTenantID, tt.tenantHeader)
			}
			if tt.userHeader != "" {
				req.Header.Set(identity.HeaderUserID, tt.userHeader)
			}

			got, err := resolver.Resolve(req)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tenantID, got.TenantID)
			assert.Equal(t, userID, got.UserID)
		})
	}
}
