package models

import (
	"strings"

	"github.com/google/uuid"
)

// Identifier prefixes distinguish user and organization ids from emails,
// slugs and other opaque strings on the wire.
const (
	UserIDPrefix         = "usr_"
	OrganizationIDPrefix = "org_"
)

// NewUserID generates a new user identifier.
func NewUserID() string {
	return UserIDPrefix + hexID()
}

// NewOrganizationID generates a new organization identifier.
func NewOrganizationID() string {
	return OrganizationIDPrefix + hexID()
}

// IsUserID reports whether s has the shape of a user identifier.
func IsUserID(s string) bool {
	return len(s) > len(UserIDPrefix) && strings.HasPrefix(s, UserIDPrefix)
}

// IsOrganizationID reports whether s has the shape of an organization identifier.
func IsOrganizationID(s string) bool {
	return len(s) > len(OrganizationIDPrefix) && strings.HasPrefix(s, OrganizationIDPrefix)
}

func hexID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
