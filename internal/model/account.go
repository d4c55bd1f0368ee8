// Package model defines the data structures used throughout the application.
package model

import "time"

// Account represents a registered user account.
//
// The username IS the primary key — there is no separate numeric or string ID.
// Usernames are chosen by the user at registration, are globally unique
// (enforced by a UNIQUE constraint in the database), and are immutable once
// created. Every other record that refers to an account does so by username.
//
// PasswordHash holds the bcrypt digest of the user's password. The plaintext
// password is never stored, logged, or serialized — note the `json:"-"` tag,
// which tells encoding/json to omit the field entirely so a hash can never
// leak through an API response.
type Account struct {
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Email        string    `json:"email"     db:"email"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName"  db:"last_name"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
