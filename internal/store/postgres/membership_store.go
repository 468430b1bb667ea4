package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
)

// MembershipStore implements store.MembershipStore using PostgreSQL.
// Every method is a single bounded query with no caching; the gate relies on
// each request re-validating membership against current state.
type MembershipStore struct {
	pool *pgxpool.Pool
}

// NewMembershipStore creates a new PostgreSQL-backed membership store.
// It shares the connection pool with other stores.
func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{
		pool: pool,
	}
}

// FindDefaultOrganization returns the user's default organization id.
func (s *MembershipStore) FindDefaultOrganization(ctx context.Context, userID string) (string, error) {
	query := `
		SELECT org_id
		FROM memberships
		WHERE user_id = $1 AND is_default
	`

	var orgID string
	err := s.pool.QueryRow(ctx, query, userID).Scan(&orgID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrNoDefaultOrganization
		}
		return "", fmt.Errorf("failed to find default organization: %w", mapPostgresError(err))
	}

	return orgID, nil
}

// OrganizationExists reports whether an organization with the given id exists.
func (s *MembershipStore) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM organizations WHERE org_id = $1)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, orgID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check organization exists: %w", mapPostgresError(err))
	}

	return exists, nil
}

// Membership returns the role the user holds in the organization.
func (s *MembershipStore) Membership(ctx context.Context, userID, orgID string) (models.Role, error) {
	query := `
		SELECT role
		FROM memberships
		WHERE user_id = $1 AND org_id = $2
	`

	var role models.Role
	err := s.pool.QueryRow(ctx, query, userID, orgID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", store.ErrNotMember
		}
		return "", fmt.Errorf("failed to check membership: %w", mapPostgresError(err))
	}

	return role, nil
}
