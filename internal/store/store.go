package store

import "errors"

// Sentinel errors for store operations
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrSlugAlreadyExists     = errors.New("organization slug already exists")
	ErrNoDefaultOrganization = errors.New("user has no default organization")
	ErrNotMember             = errors.New("user is not a member of the organization")

	// ErrStoreUnavailable wraps connection-class and timeout failures. The
	// gate maps it to a 503 so a broken store can never look like a denial
	// or, worse, a success.
	ErrStoreUnavailable = errors.New("store unavailable")
)
