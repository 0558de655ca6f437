package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/ticker"
)

const sendTimeout = 10 * time.Second

// Send sends a message to the requested endpoint using HTTP POST.
func Send(ctx context.Context, client *http.Client, endpoint, title, message string) error {
	c := client
	if c == nil {
		c = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(message))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "text/plain")
	if title != "" {
		req.Header.Set("Title", title)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy notification failed: status=%d", resp.StatusCode)
	}
	return nil
}

const alertQueueSize = 16

type alert struct {
	title string
	msg   string
}

// Alerter watches ticker loads and posts one NTFY message per failure streak
// once it reaches the threshold, plus one when loads recover. Messages are
// delivered one at a time in the order they were decided.
type Alerter struct {
	client    *http.Client
	endpoint  string
	threshold int

	mu      sync.Mutex
	streak  int
	alerted bool
	closed  bool
	queue   chan alert
	wg      sync.WaitGroup
}

// NewAlerter returns an Alerter and starts its sender. An empty endpoint
// disables sending.
func NewAlerter(client *http.Client, endpoint string, threshold int) *Alerter {
	if threshold < 1 {
		threshold = 1
	}
	a := &Alerter{
		client:    client,
		endpoint:  endpoint,
		threshold: threshold,
		queue:     make(chan alert, alertQueueSize),
	}
	a.wg.Add(1)
	go a.sendLoop()
	return a
}

// ObserveLoad implements ticker.Observer. Superseded loads say nothing about
// upstream health and are ignored.
func (a *Alerter) ObserveLoad(out ticker.Outcome) {
	if a.endpoint == "" || out.Superseded || errors.Is(out.Err, ticker.ErrClosed) {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	var next alert
	if out.Err != nil {
		a.streak++
		if a.streak >= a.threshold && !a.alerted {
			a.alerted = true
			next = alert{
				title: "ticker failing",
				msg:   fmt.Sprintf("%d consecutive ticker loads failed (currency %s): %v", a.streak, out.Currency, out.Err),
			}
		}
	} else {
		if a.alerted {
			next = alert{
				title: "ticker recovered",
				msg:   fmt.Sprintf("ticker loads recovered after %d failures (currency %s, %d coins)", a.streak, out.Currency, out.Count),
			}
		}
		a.streak = 0
		a.alerted = false
	}
	if next.msg == "" {
		return
	}

	// Enqueued under mu so queue order matches decision order.
	select {
	case a.queue <- next:
	default:
		slog.Warn("ntfy alert queue full, dropping alert", "title", next.title)
	}
}

func (a *Alerter) sendLoop() {
	defer a.wg.Done()
	for al := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		err := Send(ctx, a.client, a.endpoint, al.title, al.msg)
		cancel()
		if err != nil {
			slog.Warn("ntfy alert failed", "title", al.title, "error", err)
			continue
		}
		slog.Info("ntfy alert sent", "title", al.title)
	}
}

// Close stops accepting alerts and waits for queued ones to be sent.
func (a *Alerter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()
	a.wg.Wait()
}
