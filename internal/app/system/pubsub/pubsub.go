// internal/app/system/pubsub/pubsub.go

// Package pubsub is the in-process topic bus the membership engine publishes
// transition events on. Handlers run on their own goroutine so a slow or
// panicking subscriber never blocks the caller's response; publication itself
// happens only after the state change has been persisted.
package pubsub

import (
	"sync"
	"time"

	"github.com/dalemusser/collabhub/internal/domain/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ref identifies the collaboration an event concerns.
type Ref struct {
	ObjectType string `json:"objectType"`
	ID         string `json:"id"`
}

// Event is the payload published on membership transition topics.
type Event struct {
	ID            string       `json:"id"`
	Topic         string       `json:"topic"`
	Author        models.Tuple `json:"author"`
	Target        models.Tuple `json:"target"`
	Collaboration Ref          `json:"collaboration"`
	Workflow      string       `json:"workflow,omitempty"`
	At            time.Time    `json:"at"`
}

// Handler consumes events for a topic.
type Handler func(Event)

// Bus is a local publish/subscribe fan-out. Subscriptions are expected to be
// wired at startup; Publish is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	log  *zap.Logger
}

// New constructs a Bus. The logger records subscriber panics.
func New(logger *zap.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]Handler),
		log:  logger,
	}
}

// Subscribe registers h for the topic. Handlers are invoked in subscription
// order, each on its own goroutine.
func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish stamps the event (id, topic, time) and dispatches it to every
// subscriber of the topic. It returns as soon as the handler goroutines are
// started; callers must not rely on subscriber completion.
func (b *Bus) Publish(topic string, e Event) {
	e.Topic = topic
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, len(b.subs[topic]))
	copy(handlers, b.subs[topic])
	b.mu.RUnlock()

	for _, h := range handlers {
		h := h
		go func() {
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("pubsub subscriber panicked",
						zap.String("topic", topic),
						zap.Any("panic", r))
				}
			}()
			h(e)
		}()
	}
}
