package models

import "time"

// Organization represents a tenant in the system. Every authorized request
// resolves to exactly one organization before handlers run.
type Organization struct {
	ID          string // "org_" + UUID hex
	Name        string
	Slug        string // unique, URL-safe
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
