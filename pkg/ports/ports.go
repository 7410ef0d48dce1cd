package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
)

// ErrGroupNotFound is returned by GroupStorage lookups that match nothing.
var ErrGroupNotFound = errors.New("group not found")

// GroupStorage persists gift-exchange groups.
type GroupStorage interface {
	// Save stores or replaces a group.
	Save(ctx context.Context, group *domain.Group) error
	// Get returns a group by ID, or ErrGroupNotFound.
	Get(ctx context.Context, groupID string) (*domain.Group, error)
	// GetByJoinCode returns a group by join code, or ErrGroupNotFound.
	GetByJoinCode(ctx context.Context, joinCode string) (*domain.Group, error)
	// Delete removes a group. Deleting a missing group is not an error.
	Delete(ctx context.Context, groupID string) error
	// List returns the IDs of all stored groups.
	List(ctx context.Context) ([]string, error)
}

// EventHandler consumes a single event from the bus.
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes and delivers group events. Every distinct subscriber
// name observes each event published on a topic; subscriptions sharing a
// name form one logical consumer and compete for events, so replicas of
// the same component do not process an event twice. A subscription lasts
// until its context is cancelled.
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	Subscribe(ctx context.Context, topic, subscriber string, handler EventHandler) error
	Close() error
}

// MetricsCollector records service metrics. Implementations must be safe
// for concurrent use.
type MetricsCollector interface {
	RecordGroupCreated()
	RecordParticipantJoined()
	RecordDraw(outcome string, duration time.Duration)
	RecordNotification(status string)
	RecordWorkerPoolStatus(idle, busy, stopped int)
}

// Notification is a single assignment notice for one participant. The
// recipient's identity is addressed to the giver only.
type Notification struct {
	GroupID       string
	GroupName     string
	Participant   domain.Participant
	RecipientName string
}

// Notifier delivers draw notifications to participants.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
