package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

func TestBrokerPublishAndLatest(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	NewContainer(b, FeedRows).Replace("<div>one</div>")
	NewContainer(b, FeedTrending).Replace("<div>hot</div>")

	got := <-ch
	if got.Feed != FeedRows || got.Payload != "<div>one</div>" {
		t.Fatalf("event = %+v", got)
	}

	latest := b.Latest()
	if len(latest) != 2 || latest[0].Feed != FeedRows || latest[1].Feed != FeedTrending {
		t.Fatalf("Latest() = %+v; want rows then trending", latest)
	}
	if p, ok := b.LatestPayload(FeedTrending); !ok || p != "<div>hot</div>" {
		t.Fatalf("LatestPayload() = %q, %v", p, ok)
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d; want 1", b.ClientCount())
	}
	b.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after Unsubscribe")
	}
	if b.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d; want 0", b.ClientCount())
	}
}

func TestBrokerCloseEndsSubscriptions(t *testing.T) {
	b := NewBroker()
	_, ch := b.Subscribe()
	b.Close()
	if _, ok := <-ch; ok {
		t.Fatal("channel still open after Close")
	}
	_, late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Fatal("subscription after Close should be closed")
	}
	if b.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d; want 0", b.ClientCount())
	}
	b.Close()
}

func TestWriteSSEMultiline(t *testing.T) {
	var sb strings.Builder
	if err := writeSSE(&sb, Event{Feed: "rows", Payload: "a\nb"}); err != nil {
		t.Fatalf("writeSSE() error = %v", err)
	}
	want := "event: rows\ndata: a\ndata: b\n\n"
	if sb.String() != want {
		t.Fatalf("writeSSE() = %q; want %q", sb.String(), want)
	}
}

func TestSSEHandlerReplaysLatestAndFilters(t *testing.T) {
	b := NewBroker()
	b.Publish(Event{Feed: FeedRows, Payload: "<row/>"})
	b.Publish(Event{Feed: FeedTrending, Payload: "<hot/>"})

	srv := httptest.NewServer(SSEHandler(b))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?feeds=rows", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}

	sc := bufio.NewScanner(resp.Body)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if len(lines) == 2 {
			break
		}
	}
	if len(lines) != 2 || lines[0] != "event: rows" || lines[1] != "data: <row/>" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestWebSocketHandlerPushesEvents(t *testing.T) {
	b := NewBroker()
	b.Publish(Event{Feed: FeedStatus, Payload: `{"stale":false}`})

	srv := httptest.NewServer(WebSocketHandler(b))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, br, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"))
	if err != nil {
		t.Fatalf("ws.Dial() error = %v", err)
	}
	defer conn.Close()

	// Frames sent right after the handshake may already sit in br.
	var rd io.Reader = conn
	if br != nil {
		rd = io.MultiReader(br, conn)
		defer ws.PutReader(br)
	}
	rw := struct {
		io.Reader
		io.Writer
	}{rd, conn}

	read := func() Event {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		data, err := wsutil.ReadServerText(rw)
		if err != nil {
			t.Fatalf("ReadServerText() error = %v", err)
		}
		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return evt
	}

	if evt := read(); evt.Feed != FeedStatus {
		t.Fatalf("first event = %+v; want replayed status", evt)
	}

	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	b.Publish(Event{Feed: FeedRows, Payload: "<row/>"})
	if evt := read(); evt.Feed != FeedRows || evt.Payload != "<row/>" {
		t.Fatalf("second event = %+v", evt)
	}
}
