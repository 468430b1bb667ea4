package memory

import (
	"context"
	"sync"

	"github.com/wolfeidau/omnigate/internal/models"
	"github.com/wolfeidau/omnigate/internal/store"
)

// Store implements store.UserStore, store.OrganizationStore and
// store.MembershipStore using in-memory maps. This implementation is for
// development and testing only - data is lost on restart.
type Store struct {
	mu sync.RWMutex

	users         map[string]*models.User           // user_id -> User
	usersByEmail  map[string]string                 // email -> user_id
	organizations map[string]*models.Organization   // org_id -> Organization
	slugs         map[string]string                 // slug -> org_id
	memberships   map[string][]*models.Membership   // user_id -> memberships
}

// NewStore creates a new in-memory identity store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		usersByEmail:  make(map[string]string),
		organizations: make(map[string]*models.Organization),
		slugs:         make(map[string]string),
		memberships:   make(map[string][]*models.Membership),
	}
}

// CreateUserWithOrganization creates the organization, user and owner
// membership in one step, mirroring the signup transaction.
func (s *Store) CreateUserWithOrganization(ctx context.Context, user *models.User, org *models.Organization, membership *models.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return store.ErrEmailAlreadyExists
	}
	if _, exists := s.slugs[org.Slug]; exists {
		return store.ErrSlugAlreadyExists
	}

	userClone := *user
	orgClone := *org
	memClone := *membership

	s.users[user.ID] = &userClone
	s.usersByEmail[user.Email] = user.ID
	s.organizations[org.ID] = &orgClone
	s.slugs[org.Slug] = org.ID
	s.memberships[user.ID] = append(s.memberships[user.ID], &memClone)

	return nil
}

// Get retrieves a user by id.
func (s *Store) Get(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByEmail retrieves a user by email address.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, exists := s.usersByEmail[email]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *s.users[userID]
	return &clone, nil
}

// GetOrganization retrieves an organization by id.
func (s *Store) GetOrganization(ctx context.Context, orgID string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// ListForUser returns the organizations the user belongs to.
func (s *Store) ListForUser(ctx context.Context, userID string) ([]*store.UserOrganization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*store.UserOrganization
	for _, m := range s.memberships[userID] {
		org, exists := s.organizations[m.OrganizationID]
		if !exists {
			continue
		}
		result = append(result, &store.UserOrganization{
			Organization: *org,
			Role:         m.Role,
			IsDefault:    m.IsDefault,
			JoinedAt:     m.JoinedAt,
		})
	}

	return result, nil
}

// SlugExists reports whether a slug is already taken.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.slugs[slug]
	return exists, nil
}

// FindDefaultOrganization returns the user's default organization id.
func (s *Store) FindDefaultOrganization(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships[userID] {
		if m.IsDefault {
			return m.OrganizationID, nil
		}
	}

	return "", store.ErrNoDefaultOrganization
}

// OrganizationExists reports whether an organization with the given id exists.
func (s *Store) OrganizationExists(ctx context.Context, orgID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.organizations[orgID]
	return exists, nil
}

// Membership returns the role the user holds in the organization.
func (s *Store) Membership(ctx context.Context, userID, orgID string) (models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.memberships[userID] {
		if m.OrganizationID == orgID {
			return m.Role, nil
		}
	}

	return "", store.ErrNotMember
}

// AddOrganization inserts an organization directly. Test helper for setting
// up tenants that exist without the caller being a member.
func (s *Store) AddOrganization(org *models.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *org
	s.organizations[org.ID] = &clone
	if org.Slug != "" {
		s.slugs[org.Slug] = org.ID
	}
}

// AddMembership inserts a membership directly. Test helper; clears any
// existing default flag for the user when the new membership is the default.
func (s *Store) AddMembership(m *models.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.IsDefault {
		for _, existing := range s.memberships[m.UserID] {
			existing.IsDefault = false
		}
	}

	clone := *m
	s.memberships[m.UserID] = append(s.memberships[m.UserID], &clone)
}
