package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/domain"
)

// CreateUser stores a new user record.
func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[user.Email]; exists {
		return domain.ErrUserAlreadyExists
	}
	u := *user
	s.users[user.ID] = &u
	s.usersByEmail[user.Email] = user.ID
	return nil
}

// GetUserByEmail retrieves a user by email.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *s.users[id]
	return &u, nil
}

// GetUserByID retrieves a user by id.
func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// CreateSession stores a new session record.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := *session
	s.sessions[session.ID] = &sess
	s.sessionByToken[session.Token] = session.ID
	return nil
}

// GetSessionByToken retrieves a session by its token.
func (s *Store) GetSessionByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessionByToken[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := *s.sessions[id]
	return &sess, nil
}

// DeleteSession removes a session by id.
func (s *Store) DeleteSession(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessionByToken, session.Token)
	delete(s.sessions, id)
	return nil
}

// DeleteUserSessions removes every session belonging to the user.
func (s *Store) DeleteUserSessions(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessionByToken, session.Token)
			delete(s.sessions, id)
		}
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry.
func (s *Store) DeleteExpiredSessions(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessionByToken, session.Token)
			delete(s.sessions, id)
		}
	}
	return nil
}
