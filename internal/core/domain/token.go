package domain

import "time"

// SessionToken records a signed token issued to a user. Records are never
// deleted; logout flips IsTokenExpired so the collection doubles as an
// append-only audit trail of sessions.
type SessionToken struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	UserID           string    `json:"user_id" bson:"user_id"`
	Token            string    `json:"token" bson:"token"`
	Platform         Platform  `json:"platform" bson:"platform"`
	IssuedAt         time.Time `json:"issued_at" bson:"issued_at"`
	TokenExpiredTime time.Time `json:"token_expired_time" bson:"token_expired_time"`
	IsTokenExpired   bool      `json:"is_token_expired" bson:"is_token_expired"`
}

// IsUsable reports whether the token may still authenticate requests at the
// given instant.
func (t *SessionToken) IsUsable(now time.Time) bool {
	return !t.IsTokenExpired && now.Before(t.TokenExpiredTime)
}
