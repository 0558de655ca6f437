package relay

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

func parseFeedFilter(q string) map[string]bool {
	if q == "" {
		return nil
	}
	filter := make(map[string]bool)
	for _, f := range strings.Split(q, ",") {
		if f = strings.TrimSpace(f); f != "" {
			filter[f] = true
		}
	}
	return filter
}

// writeSSE frames a payload; every line gets its own data: prefix.
func writeSSE(w io.Writer, evt Event) error {
	var b strings.Builder
	fmt.Fprintf(&b, "event: %s\n", evt.Feed)
	for _, line := range strings.Split(evt.Payload, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// SSEHandler returns an http.HandlerFunc that streams container replacements
// as SSE. Clients may filter feeds via ?feeds=rows,status.
func SSEHandler(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming not supported", http.StatusInternalServerError)
			return
		}

		feedFilter := parseFeedFilter(r.URL.Query().Get("feeds"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		id, ch := broker.Subscribe()
		defer broker.Unsubscribe(id)

		for _, evt := range broker.Latest() {
			if feedFilter != nil && !feedFilter[evt.Feed] {
				continue
			}
			if err := writeSSE(w, evt); err != nil {
				return
			}
		}
		flusher.Flush()

		for {
			select {
			case <-r.Context().Done():
				return
			case evt, ok := <-ch:
				if !ok {
					return
				}
				if feedFilter != nil && !feedFilter[evt.Feed] {
					continue
				}
				if err := writeSSE(w, evt); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}
