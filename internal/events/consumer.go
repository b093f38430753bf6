package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/learnforge/learnforge/internal/domain"
	"github.com/learnforge/learnforge/internal/store"
)

// Consumer folds activity events into the leaderboard: every scored quiz
// progress event becomes a public leaderboard entry.
type Consumer struct {
	conn       *Connection
	users      userNamer
	scores     store.LeaderboardStore
	prefetch   int
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// userNamer resolves a user id to a display name for the board.
type userNamer interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// NewConsumer creates a new activity consumer
func NewConsumer(conn *Connection, users userNamer, scores store.LeaderboardStore) *Consumer {
	return &Consumer{
		conn:     conn,
		users:    users,
		scores:   scores,
		prefetch: 1,
	}
}

// Start begins consuming messages
func (c *Consumer) Start(ctx context.Context) error {
	ctx, c.cancelFunc = context.WithCancel(ctx)

	ch := c.conn.Channel()

	// Set QoS (prefetch)
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		ActivityQueueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual ack for reliability)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	slog.Info("starting activity consumer")

	c.wg.Add(1)
	go c.consume(ctx, msgs)

	return nil
}

func (c *Consumer) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-ctx.Done():
			slog.Info("activity consumer stopping")
			return

		case msg, ok := <-msgs:
			if !ok {
				slog.Info("activity message channel closed")
				return
			}

			c.processMessage(ctx, msg)
		}
	}
}

// processMessage handles a single message
func (c *Consumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.Error("failed to unmarshal activity event", "error", err)
		// Reject without requeue for malformed messages
		_ = msg.Reject(false)
		return
	}

	if err := c.handleEvent(ctx, &event); err != nil {
		slog.Error("failed to handle activity event",
			"event_id", event.ID,
			"kind", event.Kind,
			"error", err,
		)
		// Requeue so a transient store failure gets another attempt
		_ = msg.Reject(true)
		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Error("failed to ack activity event", "event_id", event.ID, "error", err)
	}
}

// handleEvent applies one event to the leaderboard. Only scored quiz
// progress feeds the board; everything else is acknowledged and dropped.
func (c *Consumer) handleEvent(ctx context.Context, event *Event) error {
	if event.Kind != KindProgressRecorded || event.Progress != domain.ProgressQuiz {
		return nil
	}
	if event.Score <= 0 {
		return nil
	}

	name := event.User
	if c.users != nil {
		if id, err := uuid.Parse(event.User); err == nil {
			if user, err := c.users.GetUserByID(ctx, id); err == nil {
				name = user.Name
			}
		}
	}

	if err := c.scores.AppendScore(ctx, domain.LeaderboardEntry{
		User:  name,
		Score: event.Score,
	}); err != nil {
		return fmt.Errorf("append leaderboard score: %w", err)
	}

	slog.Info("folded quiz score into leaderboard",
		"event_id", event.ID,
		"user", name,
		"score", event.Score,
	)

	return nil
}

// Stop gracefully stops the consumer
func (c *Consumer) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
	slog.Info("activity consumer stopped")
}
