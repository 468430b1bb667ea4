package store

import (
	"context"
	"time"

	"github.com/wolfeidau/omnigate/internal/models"
)

// UserOrganization pairs an organization with the caller's membership
// attributes, for listing the organizations a user can switch between.
type UserOrganization struct {
	Organization models.Organization
	Role         models.Role
	IsDefault    bool
	JoinedAt     time.Time
}

// OrganizationStore defines organization reads used by the HTTP surface.
type OrganizationStore interface {
	// GetOrganization retrieves an organization by id.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	GetOrganization(ctx context.Context, orgID string) (*models.Organization, error)

	// ListForUser returns the organizations the user belongs to, ordered by
	// join time, newest first.
	ListForUser(ctx context.Context, userID string) ([]*UserOrganization, error)

	// SlugExists reports whether a slug is already taken.
	SlugExists(ctx context.Context, slug string) (bool, error)
}
