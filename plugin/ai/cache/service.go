package cache

import (
	"context"
	"sync"
	"time"
)

// ServiceConfig configures the in-memory cache tier.
type ServiceConfig struct {
	Capacity        int           // default 1000
	DefaultTTL      time.Duration // default 5m
	CleanupInterval time.Duration // default 1m
}

// DefaultServiceConfig returns the defaults used for session logs.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Capacity:        1000,
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// Service is the in-memory CacheService. A background loop drops expired
// entries until Close.
type Service struct {
	lru *LRUCache

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewService starts an in-memory cache.
func NewService(cfg ServiceConfig) *Service {
	def := DefaultServiceConfig()
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = def.DefaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = def.CleanupInterval
	}

	s := &Service{
		lru:  NewLRUCache(cfg.Capacity, cfg.DefaultTTL),
		stop: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop(cfg.CleanupInterval)
	return s
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *Service) Close() {
	s.once.Do(func() { close(s.stop) })
	s.wg.Wait()
}

func (s *Service) Get(_ context.Context, key string) ([]byte, bool) {
	return s.lru.Get(key)
}

func (s *Service) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.lru.Set(key, value, ttl)
	return nil
}

func (s *Service) Invalidate(_ context.Context, pattern string) error {
	s.lru.Invalidate(pattern)
	return nil
}

func (s *Service) Size() int {
	return s.lru.Size()
}

func (s *Service) HitRate() float64 {
	return s.lru.HitRate()
}

func (s *Service) cleanupLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.lru.CleanupExpired()
		}
	}
}

var _ CacheService = (*Service)(nil)
