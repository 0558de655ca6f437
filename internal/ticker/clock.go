package ticker

import "time"

// Clock creates repeating tickers. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
	Now() time.Time
}

// Ticker is the subset of time.Ticker the controller needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is backed by the time package. time.Ticker fires at a fixed
// rate, so a slow load never pushes later ticks back.
type SystemClock struct{}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

func (SystemClock) Now() time.Time { return time.Now() }

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }
