// Package netutil opens the ticker's HTTP listener.
package netutil

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
)

var (
	ErrPreferredInUse = errors.New("preferred bind address in use")
	ErrNoBindAddr     = errors.New("no available ticker bind addresses")
)

// Listen binds preferred, or with autoFallback the first candidate that
// accepts a listener. The listener is returned open so no other process can
// take the port between selection and serving.
func Listen(preferred string, candidates []string, autoFallback bool) (net.Listener, error) {
	tried := make(map[string]struct{}, len(candidates)+1)

	if preferred != "" {
		tried[preferred] = struct{}{}
		ln, err := net.Listen("tcp", preferred)
		if err == nil {
			return ln, nil
		}
		if !autoFallback {
			return nil, fmt.Errorf("%w: %s: %v", ErrPreferredInUse, preferred, err)
		}
		slog.Warn("preferred bind address unavailable, trying candidates", "addr", preferred, "error", err)
	}

	for _, addr := range candidates {
		if _, seen := tried[addr]; seen {
			continue
		}
		tried[addr] = struct{}{}
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			slog.Debug("bind candidate unavailable", "addr", addr, "error", err)
			continue
		}
		return ln, nil
	}

	return nil, ErrNoBindAddr
}
