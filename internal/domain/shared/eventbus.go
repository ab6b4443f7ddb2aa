package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// NamedEventHandler is implemented by handlers that expose a stable name.
// The name scopes idempotency keys so two handlers of the same event never
// share a processed marker.
type NamedEventHandler interface {
	EventHandler
	HandlerName() string
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber subscribes handlers to domain events.
// Handlers for one event type run in subscription order.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines publisher and subscriber capabilities
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// EventCollector is implemented by aggregates that buffer events until commit
type EventCollector interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// PublishCollected publishes and clears the buffered events of each aggregate.
func PublishCollected(ctx context.Context, publisher EventPublisher, aggregates ...EventCollector) error {
	if publisher == nil {
		return nil
	}
	var events []DomainEvent
	for _, agg := range aggregates {
		if agg == nil {
			continue
		}
		events = append(events, agg.GetDomainEvents()...)
		agg.ClearDomainEvents()
	}
	if len(events) == 0 {
		return nil
	}
	return publisher.Publish(ctx, events...)
}
