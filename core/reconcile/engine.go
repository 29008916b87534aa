package reconcile

import (
	"context"
	"sort"
)

// ReconcileAll performs a full reconciliation across all entities.
// It builds both indices, computes the union of keys, and returns one result per key
// sorted by key.
func ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	cache, err := BuildCache(ctx, spec)
	if err != nil {
		return nil, err
	}
	return reconcileFromCache(cache, spec.Adapter), nil
}

// ReconcileOne performs a targeted reconciliation for a single entity.
// It uses cached indices if enabled, or a targeted adapter query otherwise.
// A query matching nothing yields a result with both presence flags false.
func ReconcileOne(ctx context.Context, spec *Spec, query Query) (*ReconcileResult, error) {
	if spec.CacheTTL > 0 {
		cache, err := GetOrBuildCache(ctx, spec)
		if err != nil {
			return nil, err
		}

		key := findKeyFromQuery(query, cache)
		if key == "" {
			return &ReconcileResult{Key: query.Key, Name: query.Name, Mismatch: []string{}}, nil
		}

		result := buildResult(key, cache.CachedIndex, cache.LiveIndex, spec.Adapter)
		return &result, nil
	}

	key, cached, live, err := spec.Adapter.QueryOne(ctx, query)
	if err != nil {
		return nil, err
	}
	if key == "" {
		return &ReconcileResult{Key: query.Key, Name: query.Name, Mismatch: []string{}}, nil
	}

	cachedIndex := map[string]Entry{}
	liveIndex := map[string]Entry{}
	if cached != nil {
		cachedIndex[key] = *cached
	}
	if live != nil {
		liveIndex[key] = *live
	}
	result := buildResult(key, cachedIndex, liveIndex, spec.Adapter)
	return &result, nil
}

// reconcileFromCache builds sorted results for the union of both indices.
func reconcileFromCache(cache *ReconcileCache, adapter Adapter) []ReconcileResult {
	union := make(map[string]struct{}, len(cache.CachedIndex))
	for key := range cache.CachedIndex {
		union[key] = struct{}{}
	}
	for key := range cache.LiveIndex {
		union[key] = struct{}{}
	}

	results := make([]ReconcileResult, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, cache.CachedIndex, cache.LiveIndex, adapter))
	}

	sort.Slice(results, func(i, j int) bool {
		return lessKey(results[i].Key, results[j].Key)
	})
	return results
}

// buildResult creates a ReconcileResult for a single key.
// A stored value without live rows is compared against zero.
func buildResult(key string, cachedIndex, liveIndex map[string]Entry, adapter Adapter) ReconcileResult {
	cached, cachedPresent := cachedIndex[key]
	live, livePresent := liveIndex[key]

	result := ReconcileResult{
		Key:           key,
		CachedPresent: cachedPresent,
		LivePresent:   livePresent,
		Cached:        cached.Value,
		Live:          live.Value,
		Mismatch:      []string{},
	}

	result.Name = cached.Name
	if result.Name == "" {
		result.Name = live.Name
	}

	if cachedPresent && cached.Value != live.Value {
		result.Mismatch = append(result.Mismatch, mismatch(adapter.Field(), cached.Value, live.Value))
	}

	return result
}

// findKeyFromQuery finds the entity key from a query using cached indices.
// Name matches pick the lowest key so that duplicate names resolve deterministically.
func findKeyFromQuery(query Query, cache *ReconcileCache) string {
	if query.Key != "" {
		if _, ok := cache.CachedIndex[query.Key]; ok {
			return query.Key
		}
		if _, ok := cache.LiveIndex[query.Key]; ok {
			return query.Key
		}
	}

	if query.Name == "" {
		return ""
	}

	found := ""
	for key, entry := range cache.CachedIndex {
		if entry.Name == query.Name && (found == "" || lessKey(key, found)) {
			found = key
		}
	}
	return found
}

// lessKey orders numeric keys numerically and everything else lexically.
func lessKey(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
