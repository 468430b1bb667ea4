package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
)

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
// It shares the connection pool with other stores.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// CreateUserWithOrganization creates the organization, the user and the
// owner membership inside one transaction.
func (s *UserStore) CreateUserWithOrganization(ctx context.Context, user *models.User, org *models.Organization, membership *models.Membership) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", mapPostgresError(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (org_id, name, slug, description, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, org.ID, org.Name, org.Slug, nullable(org.Description), org.IsActive, org.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", mapPostgresError(err))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (user_id, email, hashed_password, created_at)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Email, user.HashedPassword, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapPostgresError(err))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (user_id, org_id, role, is_default, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, membership.UserID, membership.OrganizationID, membership.Role, membership.IsDefault, membership.JoinedAt)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", mapPostgresError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit signup transaction: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("user_id", user.ID).
		Str("org_id", org.ID).
		Msg("Created user with organization")

	return nil
}

// Get retrieves a user by id.
func (s *UserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT user_id, email, hashed_password, created_at
		FROM users
		WHERE user_id = $1
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", mapPostgresError(err))
	}

	return &user, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT user_id, email, hashed_password, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", mapPostgresError(err))
	}

	return &user, nil
}

// nullable converts an empty string to NULL for optional text columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
