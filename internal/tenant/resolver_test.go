package tenant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
	"github.com/wolfeidau/omnigate/internal/store/memory"
)

func ptr(s string) *string { return &s }

// fixture: usr_1 has default org org_1 (owner), usr_2 is a member of org_2
// only, org_3 exists with no members.
func newFixture(t *testing.T) *memory.Store {
	t.Helper()

	st := memory.NewStore()
	for _, orgID := range []string{"org_1", "org_2", "org_3"} {
		st.AddOrganization(&models.Organization{
			ID:        orgID,
			Name:      orgID,
			Slug:      orgID,
			IsActive:  true,
			CreatedAt: time.Now(),
		})
	}
	st.AddMembership(&models.Membership{
		UserID:         "usr_1",
		OrganizationID: "org_1",
		Role:           models.RoleOwner,
		IsDefault:      true,
		JoinedAt:       time.Now(),
	})
	st.AddMembership(&models.Membership{
		UserID:         "usr_2",
		OrganizationID: "org_2",
		Role:           models.RoleMember,
		IsDefault:      true,
		JoinedAt:       time.Now(),
	})

	return st
}

func TestResolveDefaultPath(t *testing.T) {
	resolver := NewResolver(newFixture(t))
	ctx := context.Background()

	t.Run("falls back to default organization", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, "usr_1", nil)
		require.NoError(t, err)
		require.Equal(t, "org_1", res.TenantID)
		require.Equal(t, models.RoleOwner, res.Role)
		require.True(t, res.UsedDefault)
	})

	t.Run("no default organization", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "usr_nobody", nil)
		require.ErrorIs(t, err, ErrNoDefaultOrganization)
	})
}

func TestResolveExplicitPath(t *testing.T) {
	resolver := NewResolver(newFixture(t))
	ctx := context.Background()

	t.Run("explicit tenant the user belongs to", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, "usr_1", ptr("org_1"))
		require.NoError(t, err)
		require.Equal(t, "org_1", res.TenantID)
		require.False(t, res.UsedDefault)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		res, err := resolver.Resolve(ctx, "usr_1", ptr("  org_1  "))
		require.NoError(t, err)
		require.Equal(t, "org_1", res.TenantID)
	})

	t.Run("empty tenant id", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "usr_1", ptr(""))
		require.ErrorIs(t, err, ErrInvalidTenantID)
	})

	t.Run("whitespace-only tenant id", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "usr_1", ptr("   "))
		require.ErrorIs(t, err, ErrInvalidTenantID)
	})

	t.Run("organization does not exist", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "usr_1", ptr("org_missing"))
		require.ErrorIs(t, err, ErrOrganizationNotFound)
	})

	t.Run("organization exists but user is not a member", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "usr_2", ptr("org_1"))
		require.ErrorIs(t, err, ErrNotMember)
	})

	t.Run("memberless organization is found but denied", func(t *testing.T) {
		// org_3 exists: the caller gets a membership denial, not a 404-class
		// error, so legitimate users can diagnose typos
		_, err := resolver.Resolve(ctx, "usr_1", ptr("org_3"))
		require.ErrorIs(t, err, ErrNotMember)
	})
}

func TestResolveStoreFailure(t *testing.T) {
	resolver := NewResolver(failingMembershipStore{})

	_, err := resolver.Resolve(context.Background(), "usr_1", nil)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)
	require.NotErrorIs(t, err, ErrNoDefaultOrganization)
}

type failingMembershipStore struct{}

func (failingMembershipStore) FindDefaultOrganization(ctx context.Context, userID string) (string, error) {
	return "", store.ErrStoreUnavailable
}

func (failingMembershipStore) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	return false, store.ErrStoreUnavailable
}

func (failingMembershipStore) Membership(ctx context.Context, userID, orgID string) (models.Role, error) {
	return "", store.ErrStoreUnavailable
}
