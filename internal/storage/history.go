package storage

import (
	"errors"
	"log/slog"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
)

// LoadRecord is one line of the load history.
type LoadRecord struct {
	Time       time.Time           `json:"time"`
	Seq        uint64              `json:"seq"`
	Currency   market.CurrencyCode `json:"currency"`
	Count      int                 `json:"count"`
	Applied    bool                `json:"applied"`
	Superseded bool                `json:"superseded,omitempty"`
	DurationMS int64               `json:"duration_ms"`
	Error      string              `json:"error,omitempty"`
	ErrorCode  string              `json:"error_code,omitempty"`
}

// History records ticker load outcomes as JSON lines.
type History struct {
	w *JSONLWriter
}

// NewHistory writes to dir/<date>/loads/*.jsonl.
func NewHistory(dir string, bufferSize, maxSizeMB int) *History {
	return &History{w: NewJSONLWriter(dir, "loads", bufferSize, maxSizeMB)}
}

// ObserveLoad implements ticker.Observer.
func (h *History) ObserveLoad(out ticker.Outcome) {
	rec := LoadRecord{
		Time:       out.Started.UTC(),
		Seq:        out.Seq,
		Currency:   out.Currency,
		Count:      out.Count,
		Applied:    out.Applied,
		Superseded: out.Superseded,
		DurationMS: out.Duration.Milliseconds(),
	}
	if out.Err != nil {
		rec.Error = out.Err.Error()
		var ce *market.CodedError
		if errors.As(out.Err, &ce) {
			rec.ErrorCode = ce.Code
		}
	}
	if err := h.w.Write(rec); err != nil {
		slog.Debug("load history write skipped", "seq", out.Seq, "error", err)
	}
}

// Close flushes pending records.
func (h *History) Close() error {
	return h.w.Close()
}
