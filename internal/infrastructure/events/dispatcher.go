package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/you/authsvc/domain"
)

// Handler processes one delivered event.
type Handler func(event *domain.Event)

// Dispatcher implements domain.EventPublisher as an in-process asynchronous
// fan-out. It is injected into the services that emit events, not reached
// through a package-level singleton, so tests control its lifecycle.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[domain.EventType][]Handler
	queue    chan *domain.Event
	done     chan struct{}
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher with the given queue depth and starts
// its delivery goroutine.
func NewDispatcher(buffer int, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[domain.EventType][]Handler),
		queue:    make(chan *domain.Event, buffer),
		done:     make(chan struct{}),
		logger:   logger,
	}
	go d.run()
	return d
}

// Subscribe registers a handler for an event type. Handlers registered after
// Publish calls only see later events.
func (d *Dispatcher) Subscribe(eventType domain.EventType, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], h)
}

// Publish implements domain.EventPublisher. Delivery is fire-and-forget: a
// full queue drops the event with a log line rather than blocking the
// request path.
func (d *Dispatcher) Publish(event *domain.Event) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.String("account_id", event.AccountID))
	}
}

// Close stops delivery after draining queued events.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.mu.RLock()
		handlers := d.handlers[event.Type]
		d.mu.RUnlock()
		for _, h := range handlers {
			d.deliver(h, event)
		}
	}
}

func (d *Dispatcher) deliver(h Handler, event *domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panicked",
				zap.String("type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()
	h(event)
}
