// internal/adapters/identity/header.go

// Package identity provides IdentityResolver adapters. Authentication itself
// happens upstream (gateway, reverse proxy); this service only consumes the
// result.
package identity

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mkarlin/stocksync-be/internal/core/ports"
)

// Header names populated by the upstream gateway
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
)

// HeaderResolver trusts tenant and user headers stamped by the gateway.
// Only usable behind infrastructure that strips these headers from outside
// traffic.
type HeaderResolver struct{}

var _ ports.IdentityResolver = (*HeaderResolver)(nil)

// NewHeaderResolver creates a trusted-header identity resolver
func NewHeaderResolver() *HeaderResolver {
	return &HeaderResolver{}
}

// Resolve extracts the identity from the trusted headers
func (hr *HeaderResolver) Resolve(r *http.Request) (ports.Identity, error) {
	tenantID, err := uuid.Parse(r.Header.Get(HeaderTenantID))
	if err != nil {
		return ports.Identity{}, fmt.Errorf("missing or invalid %s header", HeaderTenantID)
	}
	userID, err := uuid.Parse(r.Header.Get(HeaderUserID))
	if err != nil {
		return ports.Identity{}, fmt.Errorf("missing or invalid %s header", HeaderUserID)
	}
	return ports.Identity{TenantID: tenantID, UserID: userID}, nil
}
