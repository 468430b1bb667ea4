package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/omnigate/internal/auth"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
	"github.com/wolfeidau/omnigate/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()

	codec, err := auth.NewCodec(auth.Config{Secret: []byte("test-signing-secret-min-32-bytes-long")})
	require.NoError(t, err)

	st := memory.NewStore()
	return NewService(st, st, codec), st
}

func TestSignup(t *testing.T) {
	t.Run("creates user, org and default owner membership", func(t *testing.T) {
		svc, st := newTestService(t)
		ctx := context.Background()

		user, org, err := svc.Signup(ctx, "Jane@Example.com", "s3cret-password", "Acme, Inc.")
		require.NoError(t, err)
		require.True(t, models.IsUserID(user.ID))
		require.True(t, models.IsOrganizationID(org.ID))
		require.Equal(t, "jane@example.com", user.Email)
		require.Equal(t, "acme-inc", org.Slug)
		require.NotEqual(t, "s3cret-password", user.HashedPassword)

		defaultOrg, err := st.FindDefaultOrganization(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, org.ID, defaultOrg)

		role, err := st.Membership(ctx, user.ID, org.ID)
		require.NoError(t, err)
		require.Equal(t, models.RoleOwner, role)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _ := newTestService(t)
		ctx := context.Background()

		_, _, err := svc.Signup(ctx, "jane@example.com", "pw-one-long-enough", "Acme")
		require.NoError(t, err)

		_, _, err = svc.Signup(ctx, "jane@example.com", "pw-two-long-enough", "Other")
		require.ErrorIs(t, err, store.ErrEmailAlreadyExists)
	})

	t.Run("colliding org names get suffixed slugs", func(t *testing.T) {
		svc, _ := newTestService(t)
		ctx := context.Background()

		_, first, err := svc.Signup(ctx, "a@example.com", "password-one", "Acme")
		require.NoError(t, err)
		require.Equal(t, "acme", first.Slug)

		_, second, err := svc.Signup(ctx, "b@example.com", "password-two", "Acme")
		require.NoError(t, err)
		require.Equal(t, "acme-1", second.Slug)

		_, third, err := svc.Signup(ctx, "c@example.com", "password-three", "Acme")
		require.NoError(t, err)
		require.Equal(t, "acme-2", third.Slug)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, _, err := svc.Signup(ctx, "jane@example.com", "s3cret-password", "Acme")
	require.NoError(t, err)

	t.Run("valid credentials issue a token for the user id", func(t *testing.T) {
		tokenStr, err := svc.Login(ctx, "jane@example.com", "s3cret-password")
		require.NoError(t, err)
		require.NotEmpty(t, tokenStr)

		codec, err := auth.NewCodec(auth.Config{Secret: []byte("test-signing-secret-min-32-bytes-long")})
		require.NoError(t, err)

		principal, err := codec.Verify(tokenStr)
		require.NoError(t, err)
		require.Equal(t, user.ID, principal.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "jane@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "s3cret-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
