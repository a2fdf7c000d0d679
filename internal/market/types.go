package market

import "context"

// Quote is one instrument snapshot as delivered by the remote list, plus
// the locally computed favorite flag. Remote fields are kept verbatim as
// strings.
type Quote struct {
	Symbol             string `json:"symbol,omitempty"`
	Name               string `json:"name,omitempty"`
	Currency           string `json:"currency,omitempty"`
	ChangePercentText  string `json:"readableLastChangePercent,omitempty"`
	LastPrice          string `json:"last,omitempty"`
	VariationColorName string `json:"variationColor,omitempty"`
	IsFavorite         bool   `json:"isFavorite"`

	// Market is the list this quote is displayed in. Not serialized.
	Market *Market `json:"-"`
}

// Same reports whether q and other describe the same instrument. Upstream
// has no instrument ID, so symbol, name and currency together act as the key.
func (q Quote) Same(other Quote) bool {
	return q.Symbol == other.Symbol &&
		q.Name == other.Name &&
		q.Currency == other.Currency
}

// Index returns the position of the first quote with the same identity as
// q, or -1.
func Index(quotes []Quote, q Quote) int {
	for i := range quotes {
		if quotes[i].Same(q) {
			return i
		}
	}
	return -1
}

// Market is the caller-held list of quotes being displayed.
type Market struct {
	Name   string  `json:"name"`
	Quotes []Quote `json:"quotes"`
}

func NewMarket(name string) *Market {
	return &Market{Name: name}
}

// SetQuotes replaces the whole list and points every quote back at m.
func (m *Market) SetQuotes(quotes []Quote) {
	out := make([]Quote, len(quotes))
	for i, q := range quotes {
		q.Market = m
		out[i] = q
	}
	m.Quotes = out
}

// Replace swaps the first quote with the same identity as q for q.
func (m *Market) Replace(q Quote) bool {
	i := Index(m.Quotes, q)
	if i < 0 {
		return false
	}
	q.Market = m
	m.Quotes[i] = q
	return true
}

// Favorites is the favorites buffer as seen by the Service.
type Favorites interface {
	LoadAll(ctx context.Context) []Quote
	Add(ctx context.Context, q Quote)
	Remove(ctx context.Context, q Quote)
	Contains(ctx context.Context, q Quote) bool
	Flush(ctx context.Context) error
}
