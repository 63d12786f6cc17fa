package domain

import "time"

// PasswordReset represents a single-use password reset token.
// The token itself is only ever emailed to the user; the store keeps a hash.
type PasswordReset struct {
	Record
	UserID    string     `json:"user_id"`
	TokenHash string     `json:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

// IsUsed returns true if the reset token has already been consumed.
func (p *PasswordReset) IsUsed() bool {
	return p.UsedAt != nil
}

// IsExpired returns true if the reset token has passed its expiration time.
func (p *PasswordReset) IsExpired() bool {
	return time.Now().After(p.ExpiresAt)
}

// IsValid returns true if the reset token can still be consumed.
func (p *PasswordReset) IsValid() bool {
	return !p.IsUsed() && !p.IsExpired()
}
