package models

import "time"

// User is a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Gender       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries the optional fields of a profile update.
// Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	Gender       *string
	PasswordHash *string
}

// Empty reports whether the update changes nothing.
func (u UserUpdate) Empty() bool {
	return u.Name == nil && u.Email == nil && u.Gender == nil && u.PasswordHash == nil
}
