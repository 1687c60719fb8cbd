package main

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/hrygo/rehearse/internal/profile"
	"github.com/hrygo/rehearse/plugin/ai/cache"
	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/review"
	"github.com/hrygo/rehearse/plugin/ai/session"
	"github.com/hrygo/rehearse/store"
	"github.com/hrygo/rehearse/store/db"
)

// host holds the storage stack shared by all commands.
type host struct {
	profile *profile.Profile
	store   *store.Store
	l1      *cache.Service
	redis   *cache.RedisCache
	logs    session.LogService
}

func openHost(ctx context.Context, p *profile.Profile) (*host, error) {
	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	s := store.New(driver, p)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Wrap(err, "failed to migrate")
	}

	h := &host{
		profile: p,
		store:   s,
		l1:      cache.NewService(cache.DefaultServiceConfig()),
	}
	var logCache cache.CacheService = h.l1
	if p.IsRedisEnabled() {
		cfg := cache.DefaultRedisConfig()
		cfg.Addr = p.RedisAddr
		cfg.Password = p.RedisPassword
		cfg.DB = p.RedisDB
		rc, err := cache.NewRedisCache(ctx, cfg)
		if err != nil {
			slog.Warn("redis unavailable, using in-process cache only", "addr", p.RedisAddr, "error", err)
		} else {
			h.redis = rc
			logCache = cache.NewTieredCache(h.l1, rc)
		}
	}
	h.logs = session.NewLogService(s, logCache)
	return h, nil
}

func (h *host) facts() *review.Service {
	return review.NewService(review.NewStoreRepository(h.store), h.profile.PatientID)
}

func (h *host) tracker() *retention.Tracker {
	return retention.NewTracker(retention.NewStoreRepository(h.store), h.profile.PatientID)
}

func (h *host) Close() {
	h.l1.Close()
	if h.redis != nil {
		if err := h.redis.Close(); err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}
	if err := h.store.Close(); err != nil {
		slog.Warn("failed to close store", "error", err)
	}
}
