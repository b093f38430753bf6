package domain

import (
	"encoding/json"
	"time"
)

// ProgressKind tags a progress entry with the activity that produced it.
type ProgressKind string

const (
	ProgressQuiz    ProgressKind = "quiz"
	ProgressViva    ProgressKind = "viva"
	ProgressProject ProgressKind = "project"
)

// ProgressEntry is one append-only record of learner activity. Detail carries
// the client's free-form payload; entries are never mutated after append.
type ProgressEntry struct {
	Kind       ProgressKind    `json:"type"`
	Topic      string          `json:"topic,omitempty"`
	Score      float64         `json:"score,omitempty"`
	Detail     json.RawMessage `json:"detail,omitempty"`
	RecordedAt time.Time       `json:"date"`
}

// Profile is the single mutable per-user record, replaced wholesale on save.
type Profile struct {
	Bio   string `json:"bio"`
	Goals string `json:"goals"`
}

// Message is one direct message in the global append-only sequence.
type Message struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"date"`
}

// CustomQuiz is a user-authored quiz.
type CustomQuiz struct {
	Title     string               `json:"title"`
	Questions []CustomQuizQuestion `json:"questions"`
	CreatedAt time.Time            `json:"createdAt"`
}

// CustomQuizQuestion is one question within a custom quiz. Answer indexes
// into Options.
type CustomQuizQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"answer"`
}

// LeaderboardEntry is one public score record.
type LeaderboardEntry struct {
	User  string  `json:"user"`
	Score float64 `json:"score"`
}

// Achievement names a learner's unlocked achievement.
type Achievement string

// AllAchievements is the catalog of achievements the platform awards.
var AllAchievements = []Achievement{
	"First Quiz",
	"Quiz Master",
	"Viva Pro",
	"Project Champ",
	"Streak Starter",
	"Daily Learner",
}
