package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
)

// Resolution failure modes. The gate maps these 1:1 to client-visible error
// codes, so the distinctions here are part of the external contract.
var (
	ErrNoDefaultOrganization = errors.New("user has no default organization")
	ErrInvalidTenantID       = errors.New("tenant id is empty")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrNotMember             = errors.New("not a member of the organization")
)

// Resolution is the outcome of a successful tenant resolution.
type Resolution struct {
	TenantID    string
	Role        models.Role
	UsedDefault bool
}

// Resolver determines the active organization for an authenticated user.
// It performs at most two bounded store queries per request and holds no
// state between requests.
type Resolver struct {
	memberships store.MembershipStore
}

// NewResolver creates a resolver backed by the given membership store.
func NewResolver(memberships store.MembershipStore) *Resolver {
	return &Resolver{
		memberships: memberships,
	}
}

// Resolve determines the active tenant for userID. explicit carries the raw
// X-Tenant-ID header value, or nil when the header was absent.
//
// Existence and membership are checked separately on the explicit path so
// that "tenant does not exist" (404) and "tenant exists but caller lacks
// access" (403) stay distinguishable.
func (r *Resolver) Resolve(ctx context.Context, userID string, explicit *string) (*Resolution, error) {
	if explicit == nil {
		orgID, err := r.memberships.FindDefaultOrganization(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNoDefaultOrganization) {
				return nil, ErrNoDefaultOrganization
			}
			return nil, fmt.Errorf("find default organization: %w", err)
		}
		return r.checkMembership(ctx, userID, orgID, true)
	}

	tenantID := strings.TrimSpace(*explicit)
	if tenantID == "" {
		return nil, ErrInvalidTenantID
	}

	exists, err := r.memberships.OrganizationExists(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("check organization exists: %w", err)
	}
	if !exists {
		return nil, ErrOrganizationNotFound
	}

	return r.checkMembership(ctx, userID, tenantID, false)
}

func (r *Resolver) checkMembership(ctx context.Context, userID, tenantID string, usedDefault bool) (*Resolution, error) {
	role, err := r.memberships.Membership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotMember) {
			return nil, ErrNotMember
		}
		return nil, fmt.Errorf("check membership: %w", err)
	}

	return &Resolution{
		TenantID:    tenantID,
		Role:        role,
		UsedDefault: usedDefault,
	}, nil
}
