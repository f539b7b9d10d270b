package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/frahmantamala/ticketing/internal/auth"
	sessionDatamodel "github.com/frahmantamala/ticketing/internal/core/datamodel/session"
	"github.com/jmoiron/sqlx"
)

// SessionRepository stores sessions with sqlx over the same pool gorm uses.
type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *sessionDatamodel.Session) error {
	query := r.db.Rebind(`INSERT INTO sessions (id, username, expires_at, created_at) VALUES (?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Username, s.ExpiresAt.UTC(), s.CreatedAt.UTC())
	return err
}

// Lookup joins users so a role change or user deletion takes effect on the next request.
func (r *SessionRepository) Lookup(ctx context.Context, id string, now time.Time) (string, string, error) {
	var row struct {
		Username string `db:"username"`
		Role     string `db:"role"`
	}
	query := r.db.Rebind(`SELECT s.username, u.role
		FROM sessions s
		JOIN users u ON u.username = s.username
		WHERE s.id = ? AND s.expires_at > ?`)
	if err := r.db.GetContext(ctx, &row, query, id, now.UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", auth.ErrSessionNotFound
		}
		return "", "", err
	}
	return row.Username, row.Role, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = ?`), id)
	return err
}

func (r *SessionRepository) DeleteByUsername(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE username = ?`), username)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= ?`), now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
