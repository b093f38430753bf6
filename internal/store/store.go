// Package store defines the persistence interfaces for learner records.
// Handlers receive these interfaces through construction so tests can use
// the in-memory backing while deployments pick SQLite or Postgres.
package store

import (
	"context"

	"github.com/learnforge/learnforge/internal/domain"
)

// ProgressStore persists append-only learner progress entries.
type ProgressStore interface {
	// AppendProgress adds an entry to the user's ordered sequence.
	AppendProgress(ctx context.Context, userID string, entry domain.ProgressEntry) error

	// ListProgress returns the user's entries in insertion order. A user
	// with no entries gets an empty list, not an error.
	ListProgress(ctx context.Context, userID string) ([]domain.ProgressEntry, error)
}

// ProfileStore persists the singleton per-user profile.
type ProfileStore interface {
	// SaveProfile replaces the user's profile wholesale.
	SaveProfile(ctx context.Context, userID string, profile domain.Profile) error

	// GetProfile returns the stored profile, or the zero profile if the
	// user has never saved one.
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
}

// QuizStore persists user-authored quizzes.
type QuizStore interface {
	AppendQuiz(ctx context.Context, userID string, quiz domain.CustomQuiz) error
	ListQuizzes(ctx context.Context, userID string) ([]domain.CustomQuiz, error)
}

// MessageStore persists direct messages in one global ordered sequence.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg domain.Message) error

	// ListConversation returns messages exchanged between the two users,
	// in either direction, in insertion order.
	ListConversation(ctx context.Context, userID, withUser string) ([]domain.Message, error)
}

// LeaderboardStore persists public score entries.
type LeaderboardStore interface {
	AppendScore(ctx context.Context, entry domain.LeaderboardEntry) error

	// ListScores returns all entries sorted by score descending.
	ListScores(ctx context.Context) ([]domain.LeaderboardEntry, error)
}

// AchievementStore persists unlocked achievement names per user.
type AchievementStore interface {
	// Unlock records the achievement for the user; unlocking an already
	// held achievement is a no-op.
	Unlock(ctx context.Context, userID string, achievement domain.Achievement) error
	ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error)
}

// Store bundles every record store behind one backing.
type Store interface {
	ProgressStore
	ProfileStore
	QuizStore
	MessageStore
	LeaderboardStore
	AchievementStore

	// Ping reports whether the backing is reachable.
	Ping(ctx context.Context) error

	Close() error
}
