package relay

import (
	"sort"
	"sync"
	"sync/atomic"
)

const subscriberBufSize = 64

// Feed names published by the dashboard.
const (
	FeedRows     = "rows"
	FeedTrending = "trending"
	FeedStatus   = "status"
)

// Event is one container replacement pushed to clients.
type Event struct {
	Feed    string `json:"feed"`
	Payload string `json:"payload"`
}

// Broker fans out events to all subscribed clients and remembers the latest
// payload per feed so late subscribers start from the current markup.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Event
	latest      map[string]Event
	closed      bool
	nextID      atomic.Int64
}

// NewBroker creates a new event broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan Event),
		latest:      make(map[string]Event),
	}
}

// Subscribe registers a new client. The channel is buffered; slow consumers
// will have events dropped.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBufSize)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subscribers[id] = ch
	}
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish records evt as the feed's latest and sends it to all subscribers.
// Non-blocking: slow clients have events dropped.
func (b *Broker) Publish(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[evt.Feed] = evt
	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Latest returns the most recent event of each feed, ordered by feed name.
func (b *Broker) Latest() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Event, 0, len(b.latest))
	for _, evt := range b.latest {
		out = append(out, evt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Feed < out[j].Feed })
	return out
}

// LatestPayload returns the current payload of one feed.
func (b *Broker) LatestPayload(feed string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	evt, ok := b.latest[feed]
	return evt.Payload, ok
}

// Close ends every subscription so streaming handlers return. Later
// subscribers get an already closed channel.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Container publishes every replacement on one feed.
type Container struct {
	broker *Broker
	feed   string
}

// NewContainer binds a feed to the broker.
func NewContainer(b *Broker, feed string) *Container {
	return &Container{broker: b, feed: feed}
}

// Replace publishes markup as the feed's new content.
func (c *Container) Replace(markup string) {
	c.broker.Publish(Event{Feed: c.feed, Payload: markup})
}
