package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"quote-favorites/internal/logger"
	"quote-favorites/internal/market"
	"quote-favorites/internal/metrics"
)

// DefaultKey is the slot key favorites are persisted under.
const DefaultKey = "FavoriteQuotes"

// Slot is a persisted key/value entry.
type Slot interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store keeps favorite quotes in an in-memory buffer that is loaded from
// the slot on first access and written back only by Flush.
type Store struct {
	slot Slot
	key  string
	log  *logger.Logger

	mu sync.Mutex
	// nil until loaded; loaded-but-empty is a non-nil empty slice
	buffer []market.Quote
	// set while the slot could not be read; mutations are kept in pending
	// and replayed over the slot content once a read succeeds
	stale   bool
	pending []pendingOp
}

type pendingOp struct {
	remove bool
	quote  market.Quote
}

func NewStore(slot Slot, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		slot: slot,
		key:  key,
		log:  logger.Named("favorites").With("key", key),
	}
}

// LoadAll returns a copy of the buffer, loading it first if needed.
// Missing or unreadable slot content counts as no favorites.
func (s *Store) LoadAll(ctx context.Context) []market.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, _ := s.loadLocked(ctx)
	out := make([]market.Quote, len(buf))
	copy(out, buf)
	return out
}

func (s *Store) Add(ctx context.Context, q market.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, _ := s.loadLocked(ctx)
	if market.Index(buf, q) >= 0 {
		return
	}
	s.buffer = appendFavorite(buf, q)
	if s.stale {
		s.pending = append(s.pending, pendingOp{quote: q})
	}
	metrics.SetFavoritesStored(len(s.buffer))
}

func (s *Store) Remove(ctx context.Context, q market.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, _ := s.loadLocked(ctx)
	if s.stale {
		s.pending = append(s.pending, pendingOp{remove: true, quote: q})
	}
	i := market.Index(buf, q)
	if i < 0 {
		return
	}
	s.buffer = slices.Delete(buf, i, i+1)
	metrics.SetFavoritesStored(len(s.buffer))
}

func (s *Store) Contains(ctx context.Context, q market.Quote) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf, _ := s.loadLocked(ctx)
	return market.Index(buf, q) >= 0
}

// Flush writes the buffer to the slot, overwriting it. A store that was
// never loaded has nothing to write. If the slot has not been read
// successfully yet, Flush retries the read and refuses to overwrite the slot
// while it stays unreadable. Slot write errors are returned and the buffer
// stays authoritative.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buffer == nil {
		metrics.RecordFlush("skipped")
		return nil
	}
	if _, err := s.loadLocked(ctx); err != nil {
		metrics.RecordFlush("error")
		return fmt.Errorf("read favorites before write: %w", err)
	}
	data, err := json.Marshal(s.buffer)
	if err != nil {
		// Quote only holds strings and a bool.
		panic(fmt.Sprintf("favorites: encode buffer: %v", err))
	}
	if err := s.slot.Set(ctx, s.key, data); err != nil {
		metrics.RecordFlush("error")
		return fmt.Errorf("write favorites: %w", err)
	}
	metrics.RecordFlush("success")
	s.log.Debugw("favorites flushed", "count", len(s.buffer))
	return nil
}

// loadLocked returns the buffer, reading the slot when nothing has been
// loaded yet or the previous read failed. A read error yields the current
// (possibly empty) buffer and is returned so Flush can refuse to write.
func (s *Store) loadLocked(ctx context.Context) ([]market.Quote, error) {
	if s.buffer != nil && !s.stale {
		return s.buffer, nil
	}

	data, found, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.log.Warnw("read favorites failed, using unsaved buffer", "error", err)
		if s.buffer == nil {
			s.buffer = []market.Quote{}
		}
		s.stale = true
		return s.buffer, err
	}

	loaded := []market.Quote{}
	if found {
		var stored []market.Quote
		if err := json.Unmarshal(data, &stored); err != nil {
			s.log.Warnw("decode favorites failed, starting empty", "error", err)
			stored = nil
		}
		for _, q := range stored {
			loaded = appendFavorite(loaded, q)
		}
	}
	for _, op := range s.pending {
		if i := market.Index(loaded, op.quote); op.remove && i >= 0 {
			loaded = slices.Delete(loaded, i, i+1)
		} else if !op.remove {
			loaded = appendFavorite(loaded, op.quote)
		}
	}
	s.buffer = loaded
	s.stale = false
	s.pending = nil
	metrics.SetFavoritesStored(len(s.buffer))
	return s.buffer, nil
}

// appendFavorite adds q unless an entry with the same identity exists.
func appendFavorite(buf []market.Quote, q market.Quote) []market.Quote {
	if market.Index(buf, q) >= 0 {
		return buf
	}
	q.IsFavorite = true
	q.Market = nil
	return append(buf, q)
}
