package model

import "time"

// Admin represents a back-office operator who can sign in to the admin API.
// Passwords are stored as bcrypt hashes.
type Admin struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // bcrypt hash, never expose
	Name         string     `json:"name" db:"name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// AdminInfo is the projection of an Admin that request handlers and the login
// response expose to clients. It never carries the password hash.
type AdminInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Info returns the client-facing projection of the admin.
func (a *Admin) Info() AdminInfo {
	return AdminInfo{ID: a.ID, Email: a.Email}
}
