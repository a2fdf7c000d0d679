package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuoteFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quotes_fetch_total",
			Help: "Total number of remote quote fetches",
		},
		[]string{"status"}, // status: success|no_connection|server_error
	)

	QuoteFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quotes_fetch_duration_seconds",
			Help:    "Remote quote fetch duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	FavoriteToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_toggle_total",
			Help: "Total number of favorite toggles",
		},
		[]string{"action"}, // action: add|remove
	)

	FavoriteFlushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "favorites_flush_total",
			Help: "Total number of favorites flushes",
		},
		[]string{"status"}, // status: success|error|skipped
	)

	FavoritesStored = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "favorites_buffer_size",
			Help: "Number of quotes currently held in the favorites buffer",
		},
	)
)

func init() {
	prometheus.MustRegister(QuoteFetches)
	prometheus.MustRegister(QuoteFetchDuration)
	prometheus.MustRegister(FavoriteToggles)
	prometheus.MustRegister(FavoriteFlushes)
	prometheus.MustRegister(FavoritesStored)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordFetch records one remote fetch outcome.
func RecordFetch(status string, duration time.Duration) {
	QuoteFetches.WithLabelValues(status).Inc()
	QuoteFetchDuration.Observe(duration.Seconds())
}

// RecordToggle records a favorite add or remove.
func RecordToggle(added bool) {
	action := "remove"
	if added {
		action = "add"
	}
	FavoriteToggles.WithLabelValues(action).Inc()
}

// RecordFlush records a flush outcome.
func RecordFlush(status string) {
	FavoriteFlushes.WithLabelValues(status).Inc()
}

// SetFavoritesStored reports the current buffer size.
func SetFavoritesStored(n int) {
	FavoritesStored.Set(float64(n))
}
