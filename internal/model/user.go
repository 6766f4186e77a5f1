package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID `json:"_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never exposed in responses
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Identity returns a copy of the user without the password hash
func (u *User) Identity() *User {
	if u == nil {
		return nil
	}
	identity := *u
	identity.PasswordHash = ""
	return &identity
}

// CredentialsRequest is the body of register and createAdmin calls.
// bcrypt only accepts up to 72 bytes of password.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest is the body of a password change
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,max=72"`
}

// AddToScheduleRequest adds a section reference (CRN) to a user's schedule
type AddToScheduleRequest struct {
	Username string `json:"username" binding:"required"`
	CRN      string `json:"crn" binding:"required"`
}

// RemoveFromScheduleRequest removes a section reference from a user's schedule
type RemoveFromScheduleRequest struct {
	Username      string `json:"username" binding:"required"`
	NewInstanceID string `json:"newInstanceId" binding:"required"`
}
