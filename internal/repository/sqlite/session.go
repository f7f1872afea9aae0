package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/rkovalev/cardwall/internal/apperror"
	"github.com/rkovalev/cardwall/internal/model"
	"github.com/rkovalev/cardwall/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// Save stores a session. An empty Token gets a fresh xid — 20 URL-safe
// characters, time-sortable, safe to put straight into a cookie value.
// Saving an existing token replaces the record.
func (db *DB) Save(ctx context.Context, session *model.Session) error {
	if session.Token == "" {
		session.Token = xid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (token, user_id, name, email, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.Token,
		session.UserID,
		session.Name,
		session.Email,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by token.
// Returns apperror.ErrNotFound if no session exists for that token.
func (db *DB) Get(ctx context.Context, token string) (*model.Session, error) {
	var s model.Session

	err := db.conn.QueryRowContext(ctx,
		`SELECT token, user_id, name, email, created_at
		 FROM sessions WHERE token = ?`,
		token,
	).Scan(&s.Token, &s.UserID, &s.Name, &s.Email, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &apperror.AppError{
				Err:     apperror.ErrNotFound,
				Message: fmt.Sprintf("session not found with token %s", token),
			}
		}
		return nil, fmt.Errorf("sqlite: getting session: %w", err)
	}

	return &s, nil
}

// Delete removes a session. Deleting an unknown token is not an error —
// the outcome the caller wanted (no such session) already holds.
func (db *DB) Delete(ctx context.Context, token string) error {
	_, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("sqlite: deleting session: %w", err)
	}
	return nil
}
