package ticker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultPageSize = 50
)

var (
	ErrAlreadyInitialized = errors.New("ticker: already initialized")
	ErrClosed             = errors.New("ticker: closed")

	// ErrSuperseded is returned by Load when a newer request was issued
	// before this one completed and ordered mode discarded the response.
	ErrSuperseded = market.NewError(market.CodeSuperseded, "response superseded by a newer request", nil)
)

// Fetcher is the outbound market-data read.
type Fetcher interface {
	TopCoins(ctx context.Context, currency market.CurrencyCode, perPage int) ([]market.CoinQuote, error)
}

// Container receives whole-markup replacements.
type Container interface {
	Replace(markup string)
}

// Recorder persists applied listings and hands back the latest one at start.
type Recorder interface {
	Record(Result) error
	Latest(currency market.CurrencyCode) (Result, bool)
}

// Observer is told about every completed load, applied or not.
type Observer interface {
	ObserveLoad(Outcome)
}

// Result is an applied listing.
type Result struct {
	Seq       uint64              `json:"seq"`
	Currency  market.CurrencyCode `json:"currency"`
	Quotes    []market.CoinQuote  `json:"quotes"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Outcome describes one finished load.
type Outcome struct {
	Seq        uint64
	Currency   market.CurrencyCode
	Count      int
	Applied    bool
	Superseded bool
	Err        error
	Started    time.Time
	Duration   time.Duration
}

// State is the user's currency selection.
type State struct {
	Currency market.CurrencyCode `json:"currency"`
	Symbol   string              `json:"symbol"`
}

// Status separates "no data yet" from "stale data after a failure".
type Status struct {
	HasData     bool                `json:"has_data"`
	Stale       bool                `json:"stale"`
	Displayed   market.CurrencyCode `json:"displayed_currency,omitempty" doc:"Currency of the rows currently rendered"`
	Count       int                 `json:"count"`
	LastSuccess time.Time           `json:"last_success,omitzero"`
	LastAttempt time.Time           `json:"last_attempt,omitzero"`
	LastError   string              `json:"last_error,omitempty"`
	IssuedSeq   uint64              `json:"issued_seq"`
	AppliedSeq  uint64              `json:"applied_seq"`
}

// View is a consistent copy of the controller's current output.
type View struct {
	State    State                 `json:"state"`
	Status   Status                `json:"status"`
	Quotes   []market.DisplayQuote `json:"quotes"`
	Raw      []market.CoinQuote    `json:"raw"`
	Markup   string                `json:"-"`
	Trending string                `json:"-"`
}

// Options wires a Controller. Fetcher is required.
type Options struct {
	Fetcher       Fetcher
	Rows          Container
	Trending      Container
	Clock         Clock
	Interval      time.Duration
	PageSize      int
	Ordered       bool
	TrendingCoins []TrendingCoin
	Recorder      Recorder
	Observers     []Observer
}

type discard struct{}

func (discard) Replace(string) {}

// Controller owns the ticker refresh lifecycle and currency selection.
type Controller struct {
	fetcher   Fetcher
	rows      Container
	trending  Container
	clock     Clock
	interval  time.Duration
	pageSize  int
	ordered   bool
	coins     []TrendingCoin
	recorder  Recorder
	observers []Observer

	mu       sync.Mutex
	state    State
	status   Status
	quotes   []market.CoinQuote
	display  []market.DisplayQuote
	markup   string
	trendMkp string
	issued   uint64
	started  bool
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(opts Options) *Controller {
	c := &Controller{
		fetcher:   opts.Fetcher,
		rows:      opts.Rows,
		trending:  opts.Trending,
		clock:     opts.Clock,
		interval:  opts.Interval,
		pageSize:  opts.PageSize,
		ordered:   opts.Ordered,
		coins:     opts.TrendingCoins,
		recorder:  opts.Recorder,
		observers: opts.Observers,
		state:     State{Currency: market.DefaultCurrency, Symbol: market.DefaultCurrency.Symbol()},
	}
	if c.rows == nil {
		c.rows = discard{}
	}
	if c.trending == nil {
		c.trending = discard{}
	}
	if c.clock == nil {
		c.clock = SystemClock{}
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.coins == nil {
		c.coins = DefaultTrending()
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Initialize selects the starting currency, performs the initial load, renders
// the trending list once and arms the refresh timer. A failed initial load is
// logged, not returned.
func (c *Controller) Initialize(ctx context.Context, currency string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyInitialized
	}
	c.started = true
	code := market.NormalizeCurrency(currency)
	c.state = State{Currency: code, Symbol: code.Symbol()}
	c.primeLocked()
	c.mu.Unlock()

	if err := c.Load(ctx); err != nil {
		slog.Warn("initial ticker load failed", "currency", code, "error", err)
	}
	c.renderTrending()
	c.startTimer()

	slog.Info("ticker initialized", "currency", code, "interval", c.interval, "page_size", c.pageSize, "ordered", c.ordered)
	return nil
}

// primeLocked shows the last recorded listing as stale until the first load lands.
func (c *Controller) primeLocked() {
	if c.recorder == nil {
		return
	}
	res, ok := c.recorder.Latest(c.state.Currency)
	if !ok {
		return
	}
	display := market.DisplayAll(res.Quotes, c.state.Currency.Symbol())
	markup, err := RenderRows(display)
	if err != nil {
		slog.Warn("ticker prime render failed", "error", err)
		return
	}
	c.quotes = res.Quotes
	c.display = display
	c.markup = markup
	c.status.HasData = true
	c.status.Stale = true
	c.status.Displayed = res.Currency
	c.status.Count = len(res.Quotes)
	c.status.LastSuccess = res.FetchedAt
	c.rows.Replace(markup)
	slog.Info("ticker primed from snapshot", "currency", res.Currency, "count", len(res.Quotes), "fetched_at", res.FetchedAt)
}

func (c *Controller) renderTrending() {
	c.mu.Lock()
	defer c.mu.Unlock()
	markup, err := RenderTrending(c.coins, c.state.Symbol)
	if err != nil {
		slog.Warn("trending render failed", "error", err)
		return
	}
	c.trendMkp = markup
	c.trending.Replace(markup)
}

func (c *Controller) startTimer() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	t := c.clock.NewTicker(c.interval)
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer t.Stop()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-t.C():
				c.Refresh()
			}
		}
	}()
}

// SetCurrency changes the selection and starts a reload without waiting for
// any load already in flight.
func (c *Controller) SetCurrency(raw string) State {
	code := market.NormalizeCurrency(raw)
	c.mu.Lock()
	c.state = State{Currency: code, Symbol: code.Symbol()}
	st := c.state
	c.mu.Unlock()

	slog.Info("ticker currency changed", "currency", st.Currency, "symbol", st.Symbol)
	c.Refresh()
	return st
}

// Refresh starts a load in the background.
func (c *Controller) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := c.Load(c.ctx); err != nil && !errors.Is(err, ErrSuperseded) && !errors.Is(err, ErrClosed) {
			slog.Warn("ticker refresh failed", "error", err)
		}
	}()
}

// Load performs one fetch-and-render. On failure the previous markup is kept.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.issued++
	seq := c.issued
	st := c.state
	started := c.clock.Now()
	c.status.IssuedSeq = seq
	c.status.LastAttempt = started
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	quotes, fetchErr := c.fetcher.TopCoins(ctx, st.Currency, c.pageSize)
	res := Result{Seq: seq, Currency: st.Currency, Quotes: quotes, FetchedAt: c.clock.Now()}
	err := c.apply(res, st, fetchErr)

	out := Outcome{
		Seq:        seq,
		Currency:   st.Currency,
		Count:      len(quotes),
		Applied:    err == nil,
		Superseded: errors.Is(err, ErrSuperseded),
		Err:        err,
		Started:    started,
		Duration:   c.clock.Now().Sub(started),
	}
	for _, o := range c.observers {
		o.ObserveLoad(out)
	}

	if err != nil {
		return err
	}
	if c.recorder != nil {
		if recErr := c.recorder.Record(res); recErr != nil {
			slog.Warn("ticker snapshot record failed", "seq", seq, "error", recErr)
		}
	}
	return nil
}

func (c *Controller) apply(res Result, st State, fetchErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.ordered && res.Seq != c.issued {
		slog.Debug("ticker response discarded", "seq", res.Seq, "latest", c.issued, "currency", res.Currency)
		return ErrSuperseded
	}
	if fetchErr != nil {
		c.status.LastError = fetchErr.Error()
		c.status.Stale = c.status.HasData
		slog.Error("ticker load failed", "seq", res.Seq, "currency", res.Currency, "error", fetchErr)
		return fetchErr
	}

	display := market.DisplayAll(res.Quotes, st.Symbol)
	markup, err := RenderRows(display)
	if err != nil {
		c.status.LastError = err.Error()
		c.status.Stale = c.status.HasData
		return err
	}

	c.quotes = res.Quotes
	c.display = display
	c.markup = markup
	c.status.HasData = true
	c.status.Stale = false
	c.status.Displayed = res.Currency
	c.status.Count = len(res.Quotes)
	c.status.LastSuccess = res.FetchedAt
	c.status.LastError = ""
	c.status.AppliedSeq = res.Seq
	c.rows.Replace(markup)
	return nil
}

// View returns a copy of the current state, status and rendered output.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		State:    c.state,
		Status:   c.status,
		Quotes:   make([]market.DisplayQuote, len(c.display)),
		Raw:      make([]market.CoinQuote, len(c.quotes)),
		Markup:   c.markup,
		Trending: c.trendMkp,
	}
	copy(v.Quotes, c.display)
	copy(v.Raw, c.quotes)
	return v
}

// Close stops the timer and waits for in-flight loads. Nothing is written to
// the containers afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	slog.Info("ticker closed")
}
