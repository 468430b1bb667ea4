package models

import "time"

// Role is the role a user holds within an organization.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// Membership relates one user to one organization. A user has at most one
// membership with IsDefault set across all organizations; the stores enforce
// that invariant.
type Membership struct {
	UserID         string
	OrganizationID string
	Role           Role
	IsDefault      bool
	JoinedAt       time.Time
}
