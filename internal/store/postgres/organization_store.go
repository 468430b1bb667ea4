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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// GetOrganization retrieves an organization by id.
func (s *OrganizationStore) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	query := `
		SELECT org_id, name, slug, COALESCE(description, ''), is_active, created_at
		FROM organizations
		WHERE org_id = $1
	`

	var org models.Organization
	err := s.pool.QueryRow(ctx, query, orgID).Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&org.Description,
		&org.IsActive,
		&org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", mapPostgresError(err))
	}

	return &org, nil
}

// ListForUser returns the organizations the user belongs to, newest first.
func (s *OrganizationStore) ListForUser(ctx context.Context, userID string) ([]*store.UserOrganization, error) {
	query := `
		SELECT o.org_id, o.name, o.slug, COALESCE(o.description, ''), o.is_active, o.created_at,
		       m.role, m.is_default, m.joined_at
		FROM memberships m
		JOIN organizations o ON o.org_id = m.org_id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", mapPostgresError(err))
	}
	defer rows.Close()

	var result []*store.UserOrganization
	for rows.Next() {
		var uo store.UserOrganization
		err := rows.Scan(
			&uo.Organization.ID,
			&uo.Organization.Name,
			&uo.Organization.Slug,
			&uo.Organization.Description,
			&uo.Organization.IsActive,
			&uo.Organization.CreatedAt,
			&uo.Role,
			&uo.IsDefault,
			&uo.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		result = append(result, &uo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", mapPostgresError(err))
	}

	return result, nil
}

// SlugExists reports whether a slug is already taken.
func (s *OrganizationStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM organizations WHERE slug = $1)`

	var exists bool
	err := s.pool.QueryRow(ctx, query, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", mapPostgresError(err))
	}

	return exists, nil
}
