// Package watch provides per-document live subscriptions over an in-process
// event bus. Writers publish after every successful store write; subscribers
// receive change events until their owning request is torn down.
package watch

import (
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

const (
	CollectionUsers  = "users"
	CollectionOrders = "orders"
)

// Event describes one observed document change.
type Event struct {
	Collection string      `json:"collection"`
	Key        string      `json:"key"`
	Document   interface{} `json:"document,omitempty"`
	Deleted    bool        `json:"deleted"`
	At         time.Time   `json:"at"`
}

// Bus fans document change events out to active subscriptions.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func topic(collection, key string) string {
	if key == "" {
		return collection
	}
	return collection + "/" + key
}

// Publish announces a write to collection/key. The event is delivered both to
// watchers of the single document and to watchers of the whole collection.
func (b *Bus) Publish(collection, key string, doc interface{}) {
	ev := Event{Collection: collection, Key: key, Document: doc, At: time.Now()}
	b.bus.Publish(topic(collection, key), ev)
	b.bus.Publish(topic(collection, ""), ev)
}

// PublishDelete announces a document removal.
func (b *Bus) PublishDelete(collection, key string) {
	ev := Event{Collection: collection, Key: key, Deleted: true, At: time.Now()}
	b.bus.Publish(topic(collection, key), ev)
	b.bus.Publish(topic(collection, ""), ev)
}

// Subscription is one live watch. Events arrive on C until Cancel is called;
// a slow consumer loses events rather than blocking writers.
type Subscription struct {
	ID string
	C  <-chan Event

	bus      EventBus.Bus
	topic    string
	ch       chan Event
	handler  func(Event)
	cancel   sync.Once
	mu       sync.Mutex
	canceled bool
}

// Watch subscribes to a single document, or to the whole collection when key
// is empty (the all-orders listener).
func (b *Bus) Watch(collection, key string) (*Subscription, error) {
	sub := &Subscription{
		ID:    uuid.NewString(),
		bus:   b.bus,
		topic: topic(collection, key),
		ch:    make(chan Event, 16),
	}
	sub.C = sub.ch
	sub.handler = func(ev Event) {
		sub.mu.Lock()
		defer sub.mu.Unlock()
		if sub.canceled {
			return
		}
		select {
		case sub.ch <- ev:
		default:
		}
	}
	if err := b.bus.SubscribeAsync(sub.topic, sub.handler, false); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	s.cancel.Do(func() {
		_ = s.bus.Unsubscribe(s.topic, s.handler)
		s.mu.Lock()
		s.canceled = true
		close(s.ch)
		s.mu.Unlock()
	})
}
