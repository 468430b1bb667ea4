//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*pgxpool.Pool, func()) {
	// Start postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{ConnString: connString})
	require.NoError(t, err)

	err = RunMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return pool, cleanup
}

func signupFixture(t *testing.T, ctx context.Context, users *UserStore, email, slug string) (*models.User, *models.Organization) {
	t.Helper()

	now := time.Now().UTC()
	user := &models.User{
		ID:             models.NewUserID(),
		Email:          email,
		HashedPassword: "not-a-real-hash",
		CreatedAt:      now,
	}
	org := &models.Organization{
		ID:        models.NewOrganizationID(),
		Name:      slug,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
	}
	membership := &models.Membership{
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           models.RoleOwner,
		IsDefault:      true,
		JoinedAt:       now,
	}

	err := users.CreateUserWithOrganization(ctx, user, org, membership)
	require.NoError(t, err)

	return user, org
}

func TestIntegration_SignupAndResolution(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	users := NewUserStore(pool)
	orgs := NewOrganizationStore(pool)
	memberships := NewMembershipStore(pool)

	user, org := signupFixture(t, ctx, users, "jane@example.com", "acme")

	t.Run("get user by email", func(t *testing.T) {
		got, err := users.GetByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
	})

	t.Run("default organization resolves", func(t *testing.T) {
		orgID, err := memberships.FindDefaultOrganization(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, org.ID, orgID)
	})

	t.Run("membership role", func(t *testing.T) {
		role, err := memberships.Membership(ctx, user.ID, org.ID)
		require.NoError(t, err)
		require.Equal(t, models.RoleOwner, role)
	})

	t.Run("organization exists", func(t *testing.T) {
		exists, err := memberships.OrganizationExists(ctx, org.ID)
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = memberships.OrganizationExists(ctx, "org_missing")
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("list organizations for user", func(t *testing.T) {
		list, err := orgs.ListForUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, org.ID, list[0].Organization.ID)
		require.True(t, list[0].IsDefault)
	})

	t.Run("duplicate email maps to sentinel", func(t *testing.T) {
		dup, dupOrg := &models.User{
			ID:             models.NewUserID(),
			Email:          "jane@example.com",
			HashedPassword: "x",
			CreatedAt:      time.Now().UTC(),
		}, &models.Organization{
			ID:        models.NewOrganizationID(),
			Name:      "other",
			Slug:      "other",
			IsActive:  true,
			CreatedAt: time.Now().UTC(),
		}
		err := users.CreateUserWithOrganization(ctx, dup, dupOrg, &models.Membership{
			UserID:         dup.ID,
			OrganizationID: dupOrg.ID,
			Role:           models.RoleOwner,
			IsDefault:      true,
			JoinedAt:       time.Now().UTC(),
		})
		require.ErrorIs(t, err, store.ErrEmailAlreadyExists)
	})

	t.Run("second default membership rejected by index", func(t *testing.T) {
		_, other := signupFixture(t, ctx, users, "john@example.com", "johns-org")

		// jane already has a default org; inserting another default row for
		// her must violate idx_memberships_one_default
		_, err := pool.Exec(ctx, `
			INSERT INTO memberships (user_id, org_id, role, is_default, joined_at)
			VALUES ($1, $2, 'member', TRUE, now())
		`, user.ID, other.ID)
		require.Error(t, err)
	})

	t.Run("membership query honours context timeout", func(t *testing.T) {
		timeoutCtx, cancel := context.WithTimeout(ctx, time.Nanosecond)
		defer cancel()

		_, err := memberships.Membership(timeoutCtx, user.ID, org.ID)
		require.ErrorIs(t, err, store.ErrStoreUnavailable)
	})
}
