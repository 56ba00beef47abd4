package console

import (
	"context"
	"time"
)

// Event types published after successful writes
const (
	EventClientCreated        = "client.created"
	EventClientUpdated        = "client.updated"
	EventClientDeleted        = "client.deleted"
	EventClientRenewed        = "client.renewed"
	EventClientReminder       = "client.reminder"
	EventCatalogChanged       = "catalog.changed"
	EventNotificationRecorded = "notification.recorded"
)

// Event is a change notification for live feeds and the MQTT bridge
type Event struct {
	Type string      `json:"type"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data"`
}

// Publisher delivers events. Publishing never fails the operation that
// triggered it.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, event)
		}
	}
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) { f(ctx, event) }

func (s *Service) publish(ctx context.Context, eventType string, data interface{}) {
	s.publisher.Publish(ctx, Event{Type: eventType, At: s.clock.Now(), Data: data})
}
