package entity

import "time"

// Session is the per-request view of who is calling: the anonymous device
// that scopes "my bills", and optionally the signed-in shop user.
// The two identities are unrelated.
type Session struct {
	DeviceID      string    `json:"device_id"`
	Username      string    `json:"username,omitempty"`
	Role          string    `json:"role,omitempty"`
	Authenticated bool      `json:"authenticated"`
	ExpiresAt     time.Time `json:"expires_at,omitempty"`
}

// IsExpired checks whether the authenticated part of the session has lapsed.
func (s *Session) IsExpired(now time.Time) bool {
	return s.Authenticated && !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
