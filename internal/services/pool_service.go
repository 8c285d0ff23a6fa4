package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/draft-sim/internal/cache"
	"github.com/stitts-dev/draft-sim/internal/draft"
	"github.com/stitts-dev/draft-sim/internal/models"
	"github.com/stitts-dev/draft-sim/pkg/utils"
)

// PoolStore caches loaded records by source name. *cache.PoolCache is the
// redis implementation.
type PoolStore interface {
	Enabled() bool
	Get(ctx context.Context, source string) ([]models.PlayerRecord, error)
	Set(ctx context.Context, source string, records []models.PlayerRecord) error
	Invalidate(ctx context.Context, source string) error
}

// PoolService owns the current player pool. Readers get an immutable
// snapshot; a refresh swaps in a new one.
type PoolService struct {
	source          Source
	cache           PoolStore
	logger          *logrus.Logger
	cron            *cron.Cron
	refreshInterval time.Duration

	mu        sync.RWMutex
	pool      *draft.PlayerPool
	loadedAt  time.Time
	isRunning bool
}

func NewPoolService(source Source, poolCache PoolStore, logger *logrus.Logger, refreshInterval time.Duration) *PoolService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PoolService{
		source:          source,
		cache:           poolCache,
		logger:          logger,
		cron:            cron.New(),
		refreshInterval: refreshInterval,
	}
}

// Current returns the loaded pool, loading it on first use. A cached copy
// is preferred over the source.
func (s *PoolService) Current(ctx context.Context) (*draft.PlayerPool, error) {
	s.mu.RLock()
	pool := s.pool
	s.mu.RUnlock()
	if pool != nil {
		return pool, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		return s.pool, nil
	}

	if records, err := s.cachedRecords(ctx); err == nil {
		pool, err := s.swap(records)
		if err == nil {
			return pool, nil
		}
		s.logger.WithError(err).Warn("Cached player pool is invalid, reloading from source")
		s.dropCache(ctx)
	}

	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load player pool from %s: %w", s.source.Name(), err)
	}
	pool, err = s.swap(records)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, records)
	return pool, nil
}

// Refresh reloads the pool from the source, bypassing the cache
func (s *PoolService) Refresh(ctx context.Context) (*draft.PlayerPool, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh player pool from %s: %w", s.source.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool, err := s.swap(records)
	if err != nil {
		return nil, err
	}
	s.storeCache(ctx, records)
	return pool, nil
}

// Loaded reports whether a pool is available and when it was loaded
func (s *PoolService) Loaded() (bool, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pool != nil, s.loadedAt
}

func (s *PoolService) SourceName() string {
	return s.source.Name()
}

// swap must be called with mu held
func (s *PoolService) swap(records []models.PlayerRecord) (*draft.PlayerPool, error) {
	pool, err := draft.NewPlayerPool(records)
	if err != nil {
		return nil, err
	}
	s.pool = pool
	s.loadedAt = time.Now()

	s.logger.WithFields(logrus.Fields{
		"source":  s.source.Name(),
		"players": pool.Len(),
	}).Info("Player pool loaded")
	return pool, nil
}

func (s *PoolService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Enabled()
}

func (s *PoolService) cachedRecords(ctx context.Context) ([]models.PlayerRecord, error) {
	if !s.cacheEnabled() {
		return nil, cache.ErrCacheMiss
	}
	records, err := s.cache.Get(ctx, s.source.Name())
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.WithError(err).Warn("Pool cache unavailable, loading from source")
	}
	return records, err
}

func (s *PoolService) storeCache(ctx context.Context, records []models.PlayerRecord) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Set(ctx, s.source.Name(), records); err != nil {
		s.logger.WithError(err).Warn("Failed to cache player pool")
	}
}

func (s *PoolService) dropCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, s.source.Name()); err != nil {
		s.logger.WithError(err).Warn("Failed to drop cached player pool")
	}
}

// Start loads the pool and schedules periodic refreshes. A zero interval
// loads once without scheduling.
func (s *PoolService) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("pool service is already running")
	}
	s.mu.Unlock()

	if _, err := s.Current(ctx); err != nil {
		return err
	}

	if s.refreshInterval <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := fmt.Sprintf("@every %s", s.refreshInterval.String())
	if _, err := s.cron.AddFunc(schedule, s.scheduledRefresh); err != nil {
		return fmt.Errorf("failed to schedule pool refresh: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("interval", s.refreshInterval.String()).Info("Pool refresh scheduled")
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish
func (s *PoolService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("Pool refresh stopped")
}

func (s *PoolService) scheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := s.Refresh(ctx); err != nil {
		// keep serving the previous pool
		s.logger.WithError(err).Error("Scheduled pool refresh failed")
	}
}

// IsPoolError reports whether err means no usable pool could be produced
func IsPoolError(err error) bool {
	return errors.Is(err, utils.ErrInvalidInput) || errors.Is(err, utils.ErrPoolUnavailable)
}
