package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher decouples event publication from processing. Publish never
// blocks on handler execution: the HTTP request that produced an event
// completes before the work it triggered does, and the publisher cannot
// observe handler failures.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	Run(ctx context.Context)
}

// asyncDispatcher queues events onto a buffered channel drained by Run.
type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	queue     chan Event
	logger    *zap.Logger
}

// NewAsyncDispatcher creates a dispatcher with the given queue capacity.
func NewAsyncDispatcher(queueSize int, logger *zap.Logger) Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, queueSize),
		logger:    logger,
	}
}

// Publish enqueues the event. A full queue drops the event with a warning:
// the notification path is at-most-once and best-effort, and the sender's
// own redelivery is the only retry mechanism.
func (d *asyncDispatcher) Publish(_ context.Context, event Event) error {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.String("member_id", event.MemberID))
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Run drains the queue until ctx is cancelled. Handler errors are logged and
// never surfaced back to the publisher.
func (d *asyncDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-d.queue:
			d.dispatch(ctx, event)
		}
	}
}

func (d *asyncDispatcher) dispatch(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Error("event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.String("member_id", event.MemberID),
				zap.Error(err))
		}
	}
}
