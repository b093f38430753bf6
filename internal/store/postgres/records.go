package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnforge/learnforge/internal/domain"
)

// Store implements the record store interfaces backed by Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Postgres-backed record store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// AppendProgress adds an entry to the user's ordered sequence.
func (s *Store) AppendProgress(ctx context.Context, userID string, entry domain.ProgressEntry) error {
	var detail any
	if len(entry.Detail) > 0 {
		detail = []byte(entry.Detail)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO progress_entries (user_id, kind, topic, score, detail, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, string(entry.Kind), entry.Topic, entry.Score, detail, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert progress entry: %w", err)
	}
	return nil
}

// ListProgress returns the user's entries in insertion order.
func (s *Store) ListProgress(ctx context.Context, userID string) ([]domain.ProgressEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT kind, topic, score, detail, recorded_at
		FROM progress_entries WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	entries := []domain.ProgressEntry{}
	for rows.Next() {
		var e domain.ProgressEntry
		var kind string
		var detail []byte
		if err := rows.Scan(&kind, &e.Topic, &e.Score, &detail, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		e.Kind = domain.ProgressKind(kind)
		if len(detail) > 0 {
			e.Detail = json.RawMessage(detail)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveProfile replaces the user's profile wholesale.
func (s *Store) SaveProfile(ctx context.Context, userID string, profile domain.Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, bio, goals) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET bio = EXCLUDED.bio, goals = EXCLUDED.goals`,
		userID, profile.Bio, profile.Goals,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile returns the stored profile, or the zero profile if none exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := s.pool.QueryRow(ctx,
		"SELECT bio, goals FROM profiles WHERE user_id = $1", userID,
	).Scan(&p.Bio, &p.Goals)
	if err != nil {
		if isNoRows(err) {
			return domain.Profile{}, nil
		}
		return domain.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return p, nil
}

// AppendQuiz adds a custom quiz to the user's list.
func (s *Store) AppendQuiz(ctx context.Context, userID string, quiz domain.CustomQuiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO custom_quizzes (user_id, title, questions, created_at)
		VALUES ($1, $2, $3, $4)`,
		userID, quiz.Title, questions, quiz.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

// ListQuizzes returns the user's custom quizzes in insertion order.
func (s *Store) ListQuizzes(ctx context.Context, userID string) ([]domain.CustomQuiz, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT title, questions, created_at
		FROM custom_quizzes WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	quizzes := []domain.CustomQuiz{}
	for rows.Next() {
		var q domain.CustomQuiz
		var questions []byte
		if err := rows.Scan(&q.Title, &questions, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// AppendMessage appends to the global message sequence.
func (s *Store) AppendMessage(ctx context.Context, msg domain.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (from_user, to_user, text, sent_at)
		VALUES ($1, $2, $3, $4)`,
		msg.From, msg.To, msg.Text, msg.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListConversation returns messages between the two users in either direction.
func (s *Store) ListConversation(ctx context.Context, userID, withUser string) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT from_user, to_user, text, sent_at FROM messages
		WHERE (from_user = $1 AND to_user = $2) OR (from_user = $2 AND to_user = $1)
		ORDER BY seq`,
		userID, withUser)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var conversation []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.From, &m.To, &m.Text, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		conversation = append(conversation, m)
	}
	return conversation, rows.Err()
}

// AppendScore adds a public leaderboard entry.
func (s *Store) AppendScore(ctx context.Context, entry domain.LeaderboardEntry) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO leaderboard (username, score) VALUES ($1, $2)", entry.User, entry.Score)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// ListScores returns all leaderboard entries sorted by score descending.
func (s *Store) ListScores(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT username, score FROM leaderboard ORDER BY score DESC, seq")
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.User, &e.Score); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Unlock records the achievement unless the user already holds it.
func (s *Store) Unlock(ctx context.Context, userID string, achievement domain.Achievement) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO achievements (user_id, achievement)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement) DO NOTHING`,
		userID, string(achievement),
	)
	if err != nil {
		return fmt.Errorf("insert achievement: %w", err)
	}
	return nil
}

// ListAchievements returns the user's unlocked achievements in unlock order.
func (s *Store) ListAchievements(ctx context.Context, userID string) ([]domain.Achievement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT achievement FROM achievements
		WHERE user_id = $1 ORDER BY unlocked_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var achievements []domain.Achievement
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, domain.Achievement(a))
	}
	return achievements, rows.Err()
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
