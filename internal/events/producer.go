package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/learnforge/learnforge/internal/domain"
)

// Publisher emits learner activity events. Record handlers publish
// best-effort: a failed publish is logged, never surfaced to the client.
type Publisher interface {
	ProgressRecorded(ctx context.Context, user string, entry domain.ProgressEntry) error
	AchievementUnlocked(ctx context.Context, user string, achievement domain.Achievement) error
}

// Producer publishes activity events to the queue
type Producer struct {
	conn *Connection
}

// NewProducer creates a new queue producer
func NewProducer(conn *Connection) *Producer {
	return &Producer{conn: conn}
}

// ProgressRecorded publishes a progress event for the user.
func (p *Producer) ProgressRecorded(ctx context.Context, user string, entry domain.ProgressEntry) error {
	event := &Event{
		ID:         uuid.New(),
		Kind:       KindProgressRecorded,
		User:       user,
		Progress:   entry.Kind,
		Topic:      entry.Topic,
		Score:      entry.Score,
		OccurredAt: time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, ActivityQueueName, event); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	slog.Info("published progress event",
		"event_id", event.ID,
		"user", user,
		"progress", entry.Kind,
		"topic", entry.Topic,
	)

	return nil
}

// AchievementUnlocked publishes an achievement event for the user.
func (p *Producer) AchievementUnlocked(ctx context.Context, user string, achievement domain.Achievement) error {
	event := &Event{
		ID:          uuid.New(),
		Kind:        KindAchievementUnlocked,
		User:        user,
		Achievement: achievement,
		OccurredAt:  time.Now(),
	}

	if err := p.conn.PublishJSON(ctx, ActivityQueueName, event); err != nil {
		return fmt.Errorf("failed to publish achievement event: %w", err)
	}

	slog.Info("published achievement event",
		"event_id", event.ID,
		"user", user,
		"achievement", achievement,
	)

	return nil
}

// NoopPublisher satisfies Publisher without a broker.
type NoopPublisher struct{}

func (NoopPublisher) ProgressRecorded(context.Context, string, domain.ProgressEntry) error {
	return nil
}

func (NoopPublisher) AchievementUnlocked(context.Context, string, domain.Achievement) error {
	return nil
}
