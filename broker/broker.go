// Package broker publishes user and relationship domain events.
package broker

import (
	"context"
	"time"
)

// Event types
const (
	EventUserCreated = "user.created"
	EventUserDeleted = "user.deleted"
	EventFollowed    = "relationship.followed"
	EventUnfollowed  = "relationship.unfollowed"
)

// Event is the JSON payload written to the events topic, keyed by UserID.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	FriendID   string    `json:"friend_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent stamps an event with the current UTC time.
func NewEvent(eventType, userID, friendID string) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		FriendID:   friendID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }
