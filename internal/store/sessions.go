package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orderdesk/orderdesk/internal/model"
)

// CreateSession persists a server-side session record. The token hash must
// already be set; the plaintext token never reaches the store.
func (s *Store) CreateSession(ctx context.Context, sess *model.Session) error {
	const q = `INSERT INTO sessions (token_hash, admin_id, created_at, expires_at)
		VALUES (:token_hash, :admin_id, :created_at, :expires_at)`

	if _, err := s.db.NamedExecContext(ctx, q, sess); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession looks up a live session by token hash. An absent or expired
// record both return ErrNotFound: an expired session is as good as gone, and
// its row is removed on the way out (lazy expiry, no background sweeper).
func (s *Store) GetSession(ctx context.Context, tokenHash string) (*model.Session, error) {
	var sess model.Session
	err := s.db.GetContext(ctx, &sess,
		s.rebind("SELECT * FROM sessions WHERE token_hash = ?"), tokenHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if sess.IsExpired() {
		_ = s.DeleteSession(ctx, tokenHash)
		return nil, ErrNotFound
	}
	return &sess, nil
}

// DeleteSession revokes a session by token hash. Deleting a session that is
// already gone is success, not an error: revocation is idempotent.
func (s *Store) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind("DELETE FROM sessions WHERE token_hash = ?"), tokenHash)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
