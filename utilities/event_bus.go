package utilities

import "sync"

// Domain events published after a write commits.
const (
	EventBrandMoved        = "brand.moved"
	EventQuestionReordered = "question.reordered"
	EventQuestionDeleted   = "question.deleted"
	EventSessionCompleted  = "session.completed"
	EventSessionAbandoned  = "session.abandoned"
)

type EventHandler func(interface{})

type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[string][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

func (eb *EventBus) Publish(event string, data interface{}) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.inflight.Add(1)
		go func(h EventHandler) { // Run handlers asynchronously
			defer eb.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					Error("event handler for %s panicked: %v", event, r)
				}
			}()
			h(data)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.inflight.Wait()
}

// Global instance
var GlobalEventBus = NewEventBus()
