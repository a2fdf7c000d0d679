package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/route"

	"quote-favorites/internal/logger"
	"quote-favorites/internal/market"
	"quote-favorites/internal/metrics"
)

// Handler presents the quote service over HTTP and owns the displayed
// market list.
type Handler struct {
	svc *market.Service
	log *logger.Logger

	mu     sync.Mutex
	market *market.Market
}

func NewHandler(svc *market.Service, marketName string) *Handler {
	return &Handler{
		svc:    svc,
		log:    logger.Named("api"),
		market: market.NewMarket(marketName),
	}
}

func RegisterRoutes(r *route.Engine, h *Handler) {
	r.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(http.StatusOK, map[string]bool{"ok": true})
	})
	r.GET("/metrics", adaptor.HertzHandler(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/quotes", h.refreshQuotes)
	v1.GET("/market", h.currentMarket)
	v1.POST("/quotes/toggle", h.toggleFavorite)
	v1.GET("/favorites", h.listFavorites)
	v1.POST("/favorites/persist", h.persistFavorites)
}

func (h *Handler) refreshQuotes(ctx context.Context, c *app.RequestContext) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.svc.Refresh(ctx, h.market); err != nil {
		status := http.StatusBadGateway
		var ferr *market.FetchError
		if errors.As(err, &ferr) && ferr.Kind == market.NoConnection {
			status = http.StatusServiceUnavailable
		}
		h.log.Warnw("refresh quotes failed", "error", err)
		c.JSON(status, map[string]any{
			"ok":    false,
			"error": market.UserMessage(err),
		})
		return
	}
	c.JSON(http.StatusOK, h.marketBodyLocked())
}

func (h *Handler) currentMarket(_ context.Context, c *app.RequestContext) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.JSON(http.StatusOK, h.marketBodyLocked())
}

func (h *Handler) toggleFavorite(ctx context.Context, c *app.RequestContext) {
	var q market.Quote
	if err := c.BindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, map[string]any{
			"ok":    false,
			"error": "invalid json body",
		})
		return
	}

	h.mu.Lock()
	toggled := h.svc.ToggleFavorite(ctx, q)
	h.market.Replace(toggled)
	h.mu.Unlock()

	c.JSON(http.StatusOK, map[string]any{
		"ok":    true,
		"quote": toggled,
	})
}

func (h *Handler) listFavorites(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, map[string]any{
		"ok":        true,
		"favorites": h.svc.Favorites(ctx),
	})
}

func (h *Handler) persistFavorites(ctx context.Context, c *app.RequestContext) {
	if err := h.svc.PersistFavorites(ctx); err != nil {
		h.log.Errorw("persist favorites failed", "error", err)
		c.JSON(http.StatusInternalServerError, map[string]any{
			"ok":    false,
			"error": "failed to save favorites",
		})
		return
	}
	c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) marketBodyLocked() map[string]any {
	quotes := h.market.Quotes
	if quotes == nil {
		quotes = []market.Quote{}
	}
	body := map[string]any{
		"ok":     true,
		"market": h.market.Name,
		"quotes": quotes,
	}
	if last := h.svc.LastFetch(); !last.IsZero() {
		body["lastFetch"] = last.UTC().Format(time.RFC3339)
	}
	return body
}
