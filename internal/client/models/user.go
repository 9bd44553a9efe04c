// Package models defines the client-side data shapes exchanged with the
// SermonMate backend and shown by the CLI.
package models

// User is the authenticated account as returned by /login, /register and /user.
type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Credits       int    `json:"credits"`
	FreeTrialUsed bool   `json:"free_trial_used"`
	CreatedAt     string `json:"created_at"`
}
