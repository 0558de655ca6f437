package relay

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

// WebSocketHandler pushes the same events as SSEHandler as JSON text frames.
func WebSocketHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedFilter := parseFeedFilter(r.URL.Query().Get("feeds"))

		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			slog.Debug("relay ws upgrade failed", "error", err)
			return
		}
		defer func() {
			if err := conn.Close(); err != nil {
				slog.Debug("relay ws close failed", "error", err)
			}
		}()

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		// The read side only watches for the client going away.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := wsutil.ReadClientData(conn); err != nil {
					return
				}
			}
		}()

		send := func(evt Event) bool {
			if feedFilter != nil && !feedFilter[evt.Feed] {
				return true
			}
			return writeFrame(conn, evt)
		}

		for _, evt := range broker.Latest() {
			if !send(evt) {
				return
			}
		}

		for {
			select {
			case <-gone:
				return
			case <-r.Context().Done():
				return
			case evt, ok := <-ch:
				if !ok || !send(evt) {
					return
				}
			}
		}
	}
}

func writeFrame(conn net.Conn, evt Event) bool {
	data, err := json.Marshal(evt)
	if err != nil {
		return false
	}
	if err := wsutil.WriteServerText(conn, data); err != nil {
		slog.Debug("relay ws write failed", "feed", evt.Feed, "error", err)
		return false
	}
	return true
}
