// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Feedback represents a short text post attached to a user's profile.
//
// ID is an integer assigned by the database on creation. The feedback table
// uses AUTOINCREMENT, so IDs are monotonic and never reused — deleting
// feedback #7 does not free up 7 for a later post.
//
// OwnerUsername references accounts.username (a foreign key). A feedback row
// never outlives its owner: deleting an account deletes all of its feedback
// in the same transaction.
type Feedback struct {
	ID            int64     `json:"id"            db:"id"`
	Title         string    `json:"title"         db:"title"`
	Content       string    `json:"content"       db:"content"`
	OwnerUsername string    `json:"ownerUsername" db:"owner_username"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt"     db:"updated_at"`
}
