package model

import "time"

// Session is a server-side authentication record referenced by an opaque
// token the client carries in a cookie. Only the SHA-256 hash of the token
// is persisted.
type Session struct {
	TokenHash string    `db:"token_hash"`
	AdminID   int64     `db:"admin_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// IsExpired reports whether the session has passed its expiry. Expiry is
// advisory: it is checked lazily at read time, never swept in the background.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
