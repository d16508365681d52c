// Package model defines the data structures used throughout the application.
// These are plain data structs — the repository layer maps them to rows, the
// handler layer maps them to JSON. No behaviour beyond small helpers lives here.
package model

import "time"

// User represents a registered account.
//
// PasswordHash holds the bcrypt hash and is the only credential material that
// is ever persisted. The `json:"-"` tag ensures it can never leak through a
// serialized response, even by accident.
//
// IsActive gates every authenticated request: a token for a deactivated
// account still verifies cryptographically but is rejected at identity
// resolution. IsSuperuser is stored for future administrative surfaces and is
// not consulted by any current endpoint.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
