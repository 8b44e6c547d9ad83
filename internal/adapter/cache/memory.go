package cache

import (
	"context"
	"sync"
	"time"

	"fxconvert/internal/domain/model"
	"fxconvert/pkg/logger"
)

type Clock func() time.Time

type MemoryCache struct {
	cacheMap map[model.CurrencyPair]*model.ExchangeRate
	mutex    sync.RWMutex
	cacheTTL time.Duration
	now      Clock
	log      *logger.Logger
}

type Option func(*MemoryCache)

// WithClock replaces time.Now as the source of the current time.
func WithClock(clock Clock) Option {
	return func(c *MemoryCache) {
		c.now = clock
	}
}

func NewMemoryCache(cacheTTL time.Duration, log *logger.Logger, opts ...Option) *MemoryCache {
	c := &MemoryCache{
		cacheMap: make(map[model.CurrencyPair]*model.ExchangeRate),
		cacheTTL: cacheTTL,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached rate for pair while it is younger than the TTL.
// Stale entries stay in the map until the next Set overwrites them.
func (c *MemoryCache) Get(ctx context.Context, pair model.CurrencyPair) (*model.ExchangeRate, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	rate, found := c.cacheMap[pair]
	if !found {
		c.log.Debug("Cache miss", "key", pair.String())
		return nil, false
	}

	if c.now().Sub(rate.LastUpdated) >= c.cacheTTL {
		c.log.Debug("Cache entry expired", "key", pair.String(), "age", c.now().Sub(rate.LastUpdated))
		return nil, false
	}

	c.log.Debug("Cache hit", "key", pair.String())
	copied := *rate
	return &copied, true
}

// Set stores rate as fetched now, according to the cache clock.
func (c *MemoryCache) Set(ctx context.Context, rate *model.ExchangeRate) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stored := *rate
	stored.LastUpdated = c.now()

	c.cacheMap[stored.Pair()] = &stored
	c.log.Debug("Cache set", "key", stored.Pair().String(), "rate", stored.Rate)

	return nil
}

func (c *MemoryCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cacheMap)
}
