package models

import "time"

// User is a registered account. The core session and location services
// never authenticate users themselves; they receive an already-verified
// numeric user id and treat it as opaque. User rows back that identity
// and supply display names for broadcast views.
type User struct {
	// ID is the database row id, and the id the rest of the system
	// refers to users by.
	ID int64

	// Email is unique and used for login.
	Email string

	// DisplayName is shown to other participants.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user ready to be persisted. The ID is assigned by
// storage.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
