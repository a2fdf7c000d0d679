package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	"quote-favorites/internal/api"
	"quote-favorites/internal/config"
	"quote-favorites/internal/favorites"
	"quote-favorites/internal/logger"
	"quote-favorites/internal/market"
	"quote-favorites/internal/store"
	"quote-favorites/internal/transport"
)

var initLogger = logger.Init

func main() {
	bootstrapLogger()

	cfg, err := config.Load("configs/app.yaml")
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := initLogger(cfg.Log.Level, cfg.Log.Env); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		logger.Fatalf("store error: %v", err)
	}
	defer func() {
		if err := closeSlot(); err != nil {
			logger.Warnf("store close error: %v", err)
		}
	}()

	favs := favorites.NewStore(slot, cfg.Favorites.Key)
	client := transport.NewClientWithTimeout(time.Duration(cfg.Market.TimeoutMs) * time.Millisecond)
	svc := market.NewService(client, cfg.Market.Endpoint, favs)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	h := server.Default(server.WithHostPorts(addr))
	h.OnShutdown = append(h.OnShutdown, func(ctx context.Context) {
		if err := svc.PersistFavorites(ctx); err != nil {
			logger.Errorf("persist favorites on shutdown: %v", err)
		}
	})

	api.RegisterRoutes(h.Engine, api.NewHandler(svc, cfg.Market.Name))

	logger.Infof("server starting on %s (favorites.backend=%s, log.level=%s)", addr, cfg.Favorites.Backend, cfg.Log.Level)
	h.Spin()
}

// bootstrapLogger sets up an info-level console logger for startup. If zap
// cannot be built the failure is reported on the standard logger and the
// no-op fallback stays in place until the configured logger is initialised.
func bootstrapLogger() {
	if err := initLogger("info", "development"); err != nil {
		log.Printf("bootstrap logger error: %v", err)
	}
}

func openSlot(cfg *config.Config) (favorites.Slot, func() error, error) {
	switch cfg.Favorites.Backend {
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slot, err := store.OpenRedis(ctx, store.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			Prefix:   cfg.Store.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return slot, slot.Close, nil
	case config.BackendMemory:
		return favorites.NewMemorySlot(), func() error { return nil }, nil
	default:
		st, err := store.Open(cfg.Store.Sqlite.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	}
}
