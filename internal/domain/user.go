package domain

import (
	"strings"
	"time"
)

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleCoach grants standard coaching staff access.
	RoleCoach Role = "coach"
)

// SentinelNamePrefix marks system accounts that must never be surfaced
// in the admin roster or modified through the admin API.
const SentinelNamePrefix = "*** DO NOT REMOVE ***"

// User represents an authenticated staff account in the system.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsRoot       bool      `json:"is_root"`
	Role         Role      `json:"role"` // admin or coach
	FullName     string    `json:"full_name"`
	InvitedBy    string    `json:"invited_by,omitempty"` // User ID who invited this user
	LastLoginAt  time.Time `json:"last_login_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// IsSentinel returns true for system accounts that are hidden from the
// roster and protected from admin edits.
func (u *User) IsSentinel() bool {
	return strings.HasPrefix(u.FullName, SentinelNamePrefix)
}

// EffectiveRole returns the user's role, defaulting to coach when the
// stored record predates role assignment.
func (u *User) EffectiveRole() Role {
	if u.Role == "" {
		return RoleCoach
	}
	return u.Role
}

// Name returns the best available name to display for the user.
// Falls back to the email address when no name is set.
func (u *User) Name() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
