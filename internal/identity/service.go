package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/omnigate/internal/auth"
	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
	"github.com/wolfeidau/omnigate/internal/telemetry"
)

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords; login failures are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("incorrect email or password")

// maxSlugAttempts bounds the unique-slug retry loop.
const maxSlugAttempts = 100

// Service implements signup and login on top of the identity stores.
type Service struct {
	users   store.UserStore
	orgs    store.OrganizationStore
	codec   *auth.Codec
	metrics *telemetry.Metrics
}

// NewService creates an identity service.
func NewService(users store.UserStore, orgs store.OrganizationStore, codec *auth.Codec) *Service {
	return &Service{
		users:   users,
		orgs:    orgs,
		codec:   codec,
		metrics: telemetry.GetMetrics(),
	}
}

// Signup creates the user, their organization and the owner membership. The
// new organization becomes the user's default tenant.
func (s *Service) Signup(ctx context.Context, email, password, orgName string) (*models.User, *models.Organization, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, store.ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	slug, err := s.uniqueSlug(ctx, orgName)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:        models.NewOrganizationID(),
		Name:      orgName,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: now,
	}
	user := &models.User{
		ID:             models.NewUserID(),
		Email:          email,
		HashedPassword: hashed,
		CreatedAt:      now,
	}
	membership := &models.Membership{
		UserID:         user.ID,
		OrganizationID: org.ID,
		Role:           models.RoleOwner,
		IsDefault:      true,
		JoinedAt:       now,
	}

	if err := s.users.CreateUserWithOrganization(ctx, user, org, membership); err != nil {
		return nil, nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", user.ID).
		Str("org_id", org.ID).
		Str("slug", org.Slug).
		Msg("User signed up")
	s.metrics.SignupsTotal.Add(ctx, 1)

	return user, org, nil
}

// Login verifies credentials and issues a bearer token carrying only the
// user id; the active tenant is resolved per request by the gate.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user by email: %w", err)
	}

	if !auth.CheckPassword(user.HashedPassword, password) {
		return "", ErrInvalidCredentials
	}

	tokenStr, err := s.codec.Issue(user.ID, 0)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User logged in")
	s.metrics.LoginsTotal.Add(ctx, 1)
	s.metrics.TokensIssuedTotal.Add(ctx, 1)

	return tokenStr, nil
}

// Lookup retrieves a user by id for profile reads.
func (s *Service) Lookup(ctx context.Context, userID string) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

// uniqueSlug derives a slug from the organization name, retrying with a
// numeric suffix until an unused one is found.
func (s *Service) uniqueSlug(ctx context.Context, orgName string) (string, error) {
	base := Slugify(orgName)
	slug := base

	for attempt := 1; ; attempt++ {
		taken, err := s.orgs.SlugExists(ctx, slug)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
		if attempt >= maxSlugAttempts {
			return "", fmt.Errorf("could not generate a unique slug for %q after %d attempts", orgName, maxSlugAttempts)
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}
