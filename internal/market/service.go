package market

import (
	"context"
	"sync"
	"time"

	"quote-favorites/internal/logger"
	"quote-favorites/internal/metrics"
	"quote-favorites/internal/transport"
)

// DefaultEndpoint is the SMI quote list.
const DefaultEndpoint = "https://www.swissquote.ch/mobile/iphone/Quote.action?formattedList&formatNumbers=true&listType=SMI&addServices=true&updateCounter=true&&s=smi&s=$smi&lastTime=0&&api=2&framework=6.1.1&format=json&locale=en&mobile=iphone&language=en&version=80200.0&formatNumbers=true&mid=5862297638228606086&wl=sq"

// Service fetches quotes and reconciles them with the favorites buffer.
type Service struct {
	client    *transport.Client
	endpoint  string
	favorites Favorites
	log       *logger.Logger

	// one fetch in flight per service
	fetchMu sync.Mutex

	mu                  sync.Mutex
	lastFetch           time.Time
	consecutiveFailures int
}

func NewService(client *transport.Client, endpoint string, favorites Favorites) *Service {
	if client == nil {
		client = transport.NewClient(nil)
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Service{
		client:    client,
		endpoint:  endpoint,
		favorites: favorites,
		log:       logger.Named("market"),
	}
}

// FetchQuotes downloads the quote list. The result is not annotated: every
// quote has IsFavorite false. Errors are *FetchError.
func (s *Service) FetchQuotes(ctx context.Context) ([]Quote, error) {
	s.fetchMu.Lock()
	defer s.fetchMu.Unlock()

	start := time.Now()
	quotes, err := transport.Fetch[[]Quote](ctx, s.client, s.endpoint)
	if err != nil {
		ferr := fetchErrorFrom(err)
		metrics.RecordFetch(ferr.Kind.String(), time.Since(start))

		s.mu.Lock()
		s.consecutiveFailures++
		failures := s.consecutiveFailures
		s.mu.Unlock()
		s.log.Warnw("quote fetch failed", "kind", ferr.Kind.String(), "failures", failures, "error", err)
		return nil, ferr
	}
	metrics.RecordFetch("success", time.Since(start))

	for i := range quotes {
		quotes[i].IsFavorite = false
		quotes[i].Market = nil
	}

	s.mu.Lock()
	s.lastFetch = time.Now()
	s.consecutiveFailures = 0
	s.mu.Unlock()
	s.log.Debugw("quotes fetched", "count", len(quotes))
	return quotes, nil
}

// AnnotateFavorite returns a copy of q flagged with its favorite status.
func (s *Service) AnnotateFavorite(ctx context.Context, q Quote) Quote {
	q.IsFavorite = s.favorites.Contains(ctx, q)
	return q
}

// ToggleFavorite adds or removes q from the favorites buffer depending on
// its current flag and returns a copy with the flag flipped. Nothing is
// persisted until PersistFavorites.
func (s *Service) ToggleFavorite(ctx context.Context, q Quote) Quote {
	if !q.IsFavorite {
		s.favorites.Add(ctx, q)
	} else {
		s.favorites.Remove(ctx, q)
	}
	q.IsFavorite = !q.IsFavorite
	metrics.RecordToggle(q.IsFavorite)
	return q
}

// PersistFavorites flushes the favorites buffer.
func (s *Service) PersistFavorites(ctx context.Context) error {
	return s.favorites.Flush(ctx)
}

// Favorites lists the current favorites buffer.
func (s *Service) Favorites(ctx context.Context) []Quote {
	return s.favorites.LoadAll(ctx)
}

// Refresh fetches, annotates and replaces m's quotes. On error m is left
// as it was.
func (s *Service) Refresh(ctx context.Context, m *Market) error {
	quotes, err := s.FetchQuotes(ctx)
	if err != nil {
		return err
	}
	for i := range quotes {
		quotes[i] = s.AnnotateFavorite(ctx, quotes[i])
	}
	m.SetQuotes(quotes)
	return nil
}

// LastFetch returns when the last successful fetch finished.
func (s *Service) LastFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetch
}
