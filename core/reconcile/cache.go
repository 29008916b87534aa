package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ReconcileCache holds pre-built indices for fast targeted reconciliation.
type ReconcileCache struct {
	// CachedIndex is the stored value per entity key.
	CachedIndex map[string]Entry

	// LiveIndex is the live aggregate per entity key.
	LiveIndex map[string]Entry

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds all reconcile caches keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
}

var globalCacheStore = &cacheStore{
	caches: make(map[string]*ReconcileCache),
}

// BuildCache loads both indices concurrently.
// This function does NOT store the cache; use GetOrBuildCache for that.
func BuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	var cached, live map[string]Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cached, err = spec.Adapter.LoadCachedIndex(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		live, err = spec.Adapter.LoadLiveIndex(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ReconcileCache{
		CachedIndex: cached,
		LiveIndex:   live,
		Built:       time.Now(),
		TTL:         spec.CacheTTL,
	}, nil
}

// GetOrBuildCache returns the stored cache for spec, or builds a new one if it
// doesn't exist or has expired. Concurrent builds for the same spec are collapsed.
func GetOrBuildCache(ctx context.Context, spec *Spec) (*ReconcileCache, error) {
	cacheKey := spec.CacheKey()

	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		newCache, err := BuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}

		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = newCache
		globalCacheStore.mu.Unlock()

		return newCache, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*ReconcileCache), nil
}

// InvalidateCache removes the cache for the given spec from the store.
func InvalidateCache(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
