package domain

import "time"

// Session represents an active user session with refresh token.
// Each client gets its own session so admins can see what's connected.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash,omitempty"` // Stored hashed, filter from API responses
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
	IPAddress        string    `json:"ip_address,omitempty"`
	ClientName       string    `json:"client_name,omitempty"` // MoveLog Web, MoveLog Mobile
	Platform         string    `json:"platform,omitempty"`    // Web, iOS, Android, ...
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has passed its expiration time.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// DisplayName returns a human-readable description of the client.
func (s *Session) DisplayName() string {
	switch {
	case s.ClientName != "" && s.Platform != "":
		return s.ClientName + " (" + s.Platform + ")"
	case s.ClientName != "":
		return s.ClientName
	case s.Platform != "":
		return s.Platform
	default:
		return "Unknown Client"
	}
}
