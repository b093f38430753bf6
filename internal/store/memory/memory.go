// Package memory provides the process-memory store backing. All records are
// lost on restart; it exists for tests and for running without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/domain"
)

// Store keeps every record in mutex-guarded maps keyed by user id.
type Store struct {
	mu sync.RWMutex

	progress     map[string][]domain.ProgressEntry
	profiles     map[string]domain.Profile
	quizzes      map[string][]domain.CustomQuiz
	messages     []domain.Message
	leaderboard  []domain.LeaderboardEntry
	achievements map[string][]domain.Achievement

	users          map[uuid.UUID]*domain.User
	usersByEmail   map[string]uuid.UUID
	sessions       map[uuid.UUID]*domain.Session
	sessionByToken map[string]uuid.UUID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		progress:       make(map[string][]domain.ProgressEntry),
		profiles:       make(map[string]domain.Profile),
		quizzes:        make(map[string][]domain.CustomQuiz),
		achievements:   make(map[string][]domain.Achievement),
		users:          make(map[uuid.UUID]*domain.User),
		usersByEmail:   make(map[string]uuid.UUID),
		sessions:       make(map[uuid.UUID]*domain.Session),
		sessionByToken: make(map[string]uuid.UUID),
	}
}

// AppendProgress adds an entry to the user's ordered sequence.
func (s *Store) AppendProgress(_ context.Context, userID string, entry domain.ProgressEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress[userID] = append(s.progress[userID], entry)
	return nil
}

// ListProgress returns the user's entries in insertion order.
func (s *Store) ListProgress(_ context.Context, userID string) ([]domain.ProgressEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.ProgressEntry, len(s.progress[userID]))
	copy(entries, s.progress[userID])
	return entries, nil
}

// SaveProfile replaces the user's profile wholesale.
func (s *Store) SaveProfile(_ context.Context, userID string, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = profile
	return nil
}

// GetProfile returns the stored profile, or the zero profile if none exists.
func (s *Store) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profiles[userID], nil
}

// AppendQuiz adds a custom quiz to the user's list.
func (s *Store) AppendQuiz(_ context.Context, userID string, quiz domain.CustomQuiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[userID] = append(s.quizzes[userID], quiz)
	return nil
}

// ListQuizzes returns the user's custom quizzes in insertion order.
func (s *Store) ListQuizzes(_ context.Context, userID string) ([]domain.CustomQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]domain.CustomQuiz, len(s.quizzes[userID]))
	copy(quizzes, s.quizzes[userID])
	return quizzes, nil
}

// AppendMessage appends to the global message sequence.
func (s *Store) AppendMessage(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// ListConversation returns messages between the two users in either direction.
func (s *Store) ListConversation(_ context.Context, userID, withUser string) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var conversation []domain.Message
	for _, m := range s.messages {
		if (m.From == userID && m.To == withUser) || (m.From == withUser && m.To == userID) {
			conversation = append(conversation, m)
		}
	}
	return conversation, nil
}

// AppendScore adds a public leaderboard entry.
func (s *Store) AppendScore(_ context.Context, entry domain.LeaderboardEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboard = append(s.leaderboard, entry)
	return nil
}

// ListScores returns all leaderboard entries sorted by score descending.
func (s *Store) ListScores(_ context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, len(s.leaderboard))
	copy(entries, s.leaderboard)
	s.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	return entries, nil
}

// Unlock records the achievement unless the user already holds it.
func (s *Store) Unlock(_ context.Context, userID string, achievement domain.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.achievements[userID] {
		if a == achievement {
			return nil
		}
	}
	s.achievements[userID] = append(s.achievements[userID], achievement)
	return nil
}

// ListAchievements returns the user's unlocked achievements in unlock order.
func (s *Store) ListAchievements(_ context.Context, userID string) ([]domain.Achievement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	achievements := make([]domain.Achievement, len(s.achievements[userID]))
	copy(achievements, s.achievements[userID])
	return achievements, nil
}

// Ping is a no-op for the memory backing.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for the memory backing.
func (s *Store) Close() error {
	return nil
}
