package models

import "time"

// UserDB represents a row of the users table.
//
// The password column holds a bcrypt hash and is never serialized into a
// response body.
type UserDB struct {
	ID             int64     `json:"id" db:"id"`                           // Primary key
	FirstName      string    `json:"first_name" db:"first_name"`           // First name
	LastName       string    `json:"last_name" db:"last_name"`             // Last name
	Email          string    `json:"email" db:"email"`                     // Unique email
	Password       string    `json:"-" db:"password"`                      // Bcrypt hash
	PhoneNumber    string    `json:"phone_number" db:"phone_number"`       // Phone number
	DateOfBirth    string    `json:"date_of_birth" db:"date_of_birth"`     // YYYY-MM-DD
	Gender         string    `json:"gender" db:"gender"`                   // Free-form
	ProfilePicture string    `json:"profile_picture" db:"profile_picture"` // Derived URL of the uploaded picture
	Status         string    `json:"status" db:"status"`                   // Free-form account status
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Account status values used by the admin status endpoint. The store does
// not enforce these; the column is a free-form string.
const (
	StatusActive      = "Active"
	StatusInactive    = "Inactive"
	StatusPending     = "Pending"
	StatusSuspended   = "Suspended"
	StatusDeactivated = "Deactivated"
	StatusBanned      = "Banned"
	StatusVerified    = "Verified"
	StatusUnverified  = "Unverified"
	StatusArchived    = "Archived"
)
