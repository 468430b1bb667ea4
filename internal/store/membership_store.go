package store

import (
	"context"

	"github.com/wolfeidau/omnigate/internal/models"
)

// MembershipStore is the read-only query surface the authorization gate
// depends on. Each call is a single bounded query; implementations must not
// cache results so every request re-validates against current state.
type MembershipStore interface {
	// FindDefaultOrganization returns the organization id of the user's
	// default membership. Returns ErrNoDefaultOrganization if the user has
	// no membership with the default flag set.
	FindDefaultOrganization(ctx context.Context, userID string) (string, error)

	// OrganizationExists reports whether an organization with the given id
	// exists.
	OrganizationExists(ctx context.Context, orgID string) (bool, error)

	// Membership returns the role the user holds in the organization.
	// Returns ErrNotMember if no membership row exists.
	Membership(ctx context.Context, userID, orgID string) (models.Role, error)
}
