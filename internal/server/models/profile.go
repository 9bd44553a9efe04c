package models

import "time"

// Profile is the server-side record of a Clerk user. ClerkUserID is the
// natural key; ID is assigned on first insert.
type Profile struct {
	ID          string
	ClerkUserID string
	Email       *string
	Name        string
	Credits     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
