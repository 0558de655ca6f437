package controller

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dgnsrekt/cryptonest/internal/relay"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
)

// StatusFeed publishes the ticker status to the relay after every load.
// Reading the status and publishing it happen under one lock, so a slower
// observer never replaces a newer status with an older one.
type StatusFeed struct {
	broker *relay.Broker

	mu     sync.Mutex
	source func() ticker.Status
}

func NewStatusFeed(b *relay.Broker) *StatusFeed {
	return &StatusFeed{broker: b}
}

// Bind sets where the status is read from. The controller needs the feed as
// an observer before it exists, so the source is attached afterwards.
func (f *StatusFeed) Bind(source func() ticker.Status) {
	f.mu.Lock()
	f.source = source
	f.mu.Unlock()
}

// ObserveLoad implements ticker.Observer.
func (f *StatusFeed) ObserveLoad(out ticker.Outcome) {
	if out.Superseded {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.source == nil {
		return
	}

	data, err := json.Marshal(f.source())
	if err != nil {
		slog.Debug("status marshal failed", "error", err)
		return
	}
	f.broker.Publish(relay.Event{Feed: relay.FeedStatus, Payload: string(data)})
}
