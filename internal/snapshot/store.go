package snapshot

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/dgnsrekt/cryptonest/internal/market"
	"github.com/dgnsrekt/cryptonest/internal/ticker"
	"github.com/google/uuid"
)

const DefaultKeep = 20

var uuidRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Meta describes one stored ticker listing.
type Meta struct {
	ID        string              `json:"id"`
	Currency  market.CurrencyCode `json:"currency"`
	Seq       uint64              `json:"seq"`
	Count     int                 `json:"count"`
	FetchedAt time.Time           `json:"fetched_at"`
	CreatedAt time.Time           `json:"created_at"`
}

// Snapshot is a stored listing with its metadata.
type Snapshot struct {
	Meta
	Quotes []market.CoinQuote `json:"quotes"`
}

// Store keeps the last applied listings per currency as JSON files.
type Store struct {
	dir  string
	keep int
	mu   sync.RWMutex
}

// NewStore creates a Store and ensures the directory exists. keep bounds the
// number of snapshots retained per currency.
func NewStore(dir string, keep int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot store: mkdir %s: %w", dir, err)
	}
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Store{dir: dir, keep: keep}, nil
}

func (s *Store) validateID(id string) error {
	if !uuidRe.MatchString(id) {
		return market.NewError(market.CodeValidation, fmt.Sprintf("invalid snapshot id: %q", id), nil)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Record saves an applied listing and prunes old ones for its currency.
func (s *Store) Record(res ticker.Result) error {
	snap := Snapshot{
		Meta: Meta{
			ID:        uuid.NewString(),
			Currency:  res.Currency,
			Seq:       res.Seq,
			Count:     len(res.Quotes),
			FetchedAt: res.FetchedAt,
			CreatedAt: time.Now().UTC(),
		},
		Quotes: res.Quotes,
	}
	if snap.Quotes == nil {
		snap.Quotes = []market.CoinQuote{}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot store: marshal: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path(snap.ID), data, 0o644); err != nil {
		return fmt.Errorf("snapshot store: write: %w", err)
	}
	s.pruneLocked(res.Currency)
	return nil
}

// Latest returns the newest listing stored for currency.
func (s *Store) Latest(currency market.CurrencyCode) (ticker.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.readAllLocked()
	for _, snap := range snaps {
		if snap.Currency == currency {
			return ticker.Result{Seq: snap.Seq, Currency: snap.Currency, Quotes: snap.Quotes, FetchedAt: snap.FetchedAt}, true
		}
	}
	return ticker.Result{}, false
}

// Get reads a snapshot by ID.
func (s *Store) Get(id string) (Snapshot, error) {
	if err := s.validateID(id); err != nil {
		return Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, market.NewError(market.CodeSnapshotNotFound, "snapshot not found: "+id, nil)
		}
		return Snapshot{}, fmt.Errorf("snapshot store: read: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot store: unmarshal: %w", err)
	}
	return snap, nil
}

// List returns metadata for all snapshots, newest first.
func (s *Store) List() ([]Meta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.readAllLocked()
	metas := make([]Meta, 0, len(snaps))
	for _, snap := range snaps {
		metas = append(metas, snap.Meta)
	}
	return metas, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(id string) error {
	if err := s.validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return market.NewError(market.CodeSnapshotNotFound, "snapshot not found: "+id, nil)
		}
		return fmt.Errorf("snapshot store: delete: %w", err)
	}
	return nil
}

// readAllLocked loads every snapshot sorted newest first. Unreadable files are skipped.
func (s *Store) readAllLocked() []Snapshot {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		slog.Debug("snapshot glob failed", "dir", s.dir, "error", err)
		return nil
	}

	snaps := make([]Snapshot, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			slog.Debug("snapshot unreadable", "path", path, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].CreatedAt.Equal(snaps[j].CreatedAt) {
			return snaps[i].Seq > snaps[j].Seq
		}
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps
}

func (s *Store) pruneLocked(currency market.CurrencyCode) {
	kept := 0
	for _, snap := range s.readAllLocked() {
		if snap.Currency != currency {
			continue
		}
		kept++
		if kept <= s.keep {
			continue
		}
		if err := os.Remove(s.path(snap.ID)); err != nil {
			slog.Debug("snapshot prune failed", "id", snap.ID, "error", err)
		}
	}
}
