package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/domain"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// CreateUser stores a new user record.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID.String(), user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, email))
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, id.String()))
}

func (s *Store) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var id string
	err := row.Scan(&id, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &u, nil
}

// CreateSession stores a new session record.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		session.ID.String(), session.UserID.String(), session.Token, session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSessionByToken retrieves a session by its token.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	var id, userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions WHERE token = ?`, token,
	).Scan(&id, &userID, &sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if sess.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	if sess.UserID, err = uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("parse session user id: %w", err)
	}
	return &sess, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteUserSessions removes every session belonging to the user.
func (s *Store) DeleteUserSessions(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID.String())
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < datetime('now')")
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
