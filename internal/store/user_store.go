package store

import (
	"context"

	"github.com/wolfeidau/omnigate/internal/models"
)

// UserStore defines user persistence used by signup, login and profile reads.
type UserStore interface {
	// CreateUserWithOrganization atomically creates the organization, the
	// user and the owner membership produced by signup.
	// Returns ErrEmailAlreadyExists or ErrSlugAlreadyExists on conflicts.
	CreateUserWithOrganization(ctx context.Context, user *models.User, org *models.Organization, membership *models.Membership) error

	// Get retrieves a user by id.
	// Returns ErrUserNotFound if the user doesn't exist.
	Get(ctx context.Context, userID string) (*models.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
