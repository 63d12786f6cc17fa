package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"admin role", User{Role: RoleAdmin}, true},
		{"coach role", User{Role: RoleCoach}, false},
		{"root with coach role", User{IsRoot: true, Role: RoleCoach}, true},
		{"empty role", User{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.IsAdmin())
		})
	}
}

func TestUser_EffectiveRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected Role
	}{
		{"admin stays admin", RoleAdmin, RoleAdmin},
		{"coach stays coach", RoleCoach, RoleCoach},
		{"missing role defaults to coach", "", RoleCoach},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.expected, user.EffectiveRole())
		})
	}
}

func TestUser_IsSentinel(t *testing.T) {
	assert.True(t, (&User{FullName: SentinelNamePrefix + " backup"}).IsSentinel())
	assert.False(t, (&User{FullName: "Jordan Lee"}).IsSentinel())
	assert.False(t, (&User{}).IsSentinel())
}

func TestUser_Name(t *testing.T) {
	assert.Equal(t, "Jordan Lee", (&User{FullName: "Jordan Lee", Email: "j@example.com"}).Name())
	assert.Equal(t, "j@example.com", (&User{Email: "j@example.com"}).Name())
}
