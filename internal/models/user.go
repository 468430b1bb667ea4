package models

import "time"

// User represents a registered user. Users belong to organizations via
// Membership rows; the user row itself carries no tenant affinity.
type User struct {
	ID             string // "usr_" + UUID hex
	Email          string
	HashedPassword string // bcrypt
	CreatedAt      time.Time
}
