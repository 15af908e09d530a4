// Package events publishes and consumes account lifecycle events over the
// configured message broker. Publishing is best-effort: the account
// operations succeed whether or not a broker is configured.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/wargaid/apiserver/internal/mq"
)

// Channel is the broker channel carrying account lifecycle events.
const Channel = "account.events"

// Event types.
const (
	TypeRegistered = "account.registered"
	TypeLoggedIn   = "account.logged_in"
	TypeLoggedOut  = "account.logged_out"
)

// Event describes a change to an account's lifecycle.
type Event struct {
	Type   string    `json:"type"`
	UserID int64     `json:"user_id"`
	At     time.Time `json:"at"`
}

// Publisher emits account events to the broker. A nil Publisher is valid
// and drops all events.
type Publisher struct {
	backend mq.Backend
	logger  *slog.Logger
}

// NewPublisher wraps the broker backend for event publishing.
func NewPublisher(backend mq.Backend, logger *slog.Logger) *Publisher {
	return &Publisher{backend: backend, logger: logger}
}

// Account publishes an event of the given type for the user. Failures are
// logged and swallowed.
func (p *Publisher) Account(ctx context.Context, eventType string, userID int64) {
	if p == nil || p.backend == nil {
		return
	}

	event := Event{Type: eventType, UserID: userID, At: time.Now().UTC()}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal account event", "type", eventType, "error", err)
		return
	}

	attrs := map[string]string{"type": eventType}
	if _, err := p.backend.Publish(ctx, Channel, data, attrs); err != nil {
		p.logger.Error("publish account event", "type", eventType, "user_id", userID, "error", err)
	}
}

// Consumer reads account events from the broker and logs them.
type Consumer struct {
	backend mq.Backend
	logger  *slog.Logger
}

// NewConsumer wraps the broker backend for event consumption.
func NewConsumer(backend mq.Backend, logger *slog.Logger) *Consumer {
	return &Consumer{backend: backend, logger: logger}
}

// Run blocks consuming events until ctx is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.backend.Subscribe(ctx, Channel, func(ctx context.Context, msg mq.Message) error {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			// Drop malformed payloads instead of redelivering them forever.
			c.logger.Error("malformed account event", "message_id", msg.ID, "error", err)
			return nil
		}
		c.logger.Info("account event",
			"type", event.Type,
			"user_id", event.UserID,
			"at", event.At,
			"message_id", msg.ID,
		)
		return nil
	})
}
