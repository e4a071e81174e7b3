package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventUserCreated fires when a new user finishes sign-up;
	// payload is a models.UserCreatedPayload
	EventUserCreated EventType = "user.created"

	// EventDailyNewsRequested fires when a daily news broadcast is
	// requested outside the cron schedule; no payload required
	EventDailyNewsRequested EventType = "news.daily.send"
)

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the pub/sub event bus
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers asynchronously
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
