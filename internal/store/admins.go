package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orderdesk/orderdesk/internal/model"
)

// NormalizeEmail canonicalizes an email for storage and lookup. Uniqueness
// is case-insensitive, so both writes and reads go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAdmin inserts a new admin account. The email is lowercased before
// persistence. Returns ErrConflict when an admin with the same email already
// exists; the database UNIQUE constraint is the arbiter, there is no
// application-level pre-check. The ID, CreatedAt, and UpdatedAt fields on
// admin are populated after a successful insert.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	now := time.Now().UTC()
	admin.Email = NormalizeEmail(admin.Email)
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const q = `INSERT INTO admins
		(email, password_hash, name, is_active, created_at, updated_at)
		VALUES
		(:email, :password_hash, :name, :is_active, :created_at, :updated_at)`

	id, err := s.insertID(ctx, q, admin)
	if err != nil {
		if isConflict(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	admin.ID = id
	return nil
}

// GetAdmin returns an admin by ID.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	err := s.db.GetContext(ctx, &admin, s.rebind("SELECT * FROM admins WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

// GetAdminByEmail returns an admin by email address (case-insensitive).
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var admin model.Admin
	err := s.db.GetContext(ctx, &admin,
		s.rebind("SELECT * FROM admins WHERE email = ?"), NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admins ORDER BY email"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// HasAnyAdmin reports whether at least one admin account exists. Used for
// first-run detection so serve can point the operator at bootstrap.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins"); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// SetAdminActive enables or disables an admin account. Disabling takes
// effect on the next artifact resolve, not just the next login.
func (s *Store) SetAdminActive(ctx context.Context, id int64, active bool) error {
	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?"),
		active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set admin active: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set admin active rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAdminLastLogin sets the last_login_at timestamp for an admin.
func (s *Store) UpdateAdminLastLogin(ctx context.Context, id int64) error {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		s.rebind("UPDATE admins SET last_login_at = ?, updated_at = ? WHERE id = ?"), now, now, id)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin last login rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
