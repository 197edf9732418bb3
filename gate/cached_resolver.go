package gate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedResolver wraps a ProfileResolver with a TTL cache so that role lookups
// do not hit the backend on every authorization check.
type CachedResolver[U comparable] struct {
	inner ProfileResolver[U]
	ttl   time.Duration
	now   func() time.Time

	mu    sync.RWMutex
	cache map[U]cacheEntry
	// gens and epoch move on every invalidation; a lookup started before
	// one must not write its answer back.
	gens  map[U]uint64
	epoch uint64
	// concurrent misses for one subject share a single lookup
	group singleflight.Group
}

type cacheEntry struct {
	profile   Profile
	expiresAt time.Time
}

// NewCachedResolver caches inner's answers for ttl.
func NewCachedResolver[U comparable](inner ProfileResolver[U], ttl time.Duration) *CachedResolver[U] {
	return &CachedResolver[U]{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[U]cacheEntry),
		gens:  make(map[U]uint64),
	}
}

// Resolve returns the cached profile for user or asks the inner resolver.
// Errors are not cached.
func (r *CachedResolver[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	if p, ok := r.lookup(user); ok {
		return p, nil
	}
	r.mu.RLock()
	gen, epoch := r.gens[user], r.epoch
	r.mu.RUnlock()
	key := fmt.Sprintf("%d/%d/%v", epoch, gen, user)
	v, err, _ := r.group.Do(key, func() (any, error) {
		if p, ok := r.lookup(user); ok {
			return p, nil
		}
		p, err := r.inner.Resolve(ctx, user)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.gens[user] == gen && r.epoch == epoch {
			r.cache[user] = cacheEntry{profile: p, expiresAt: r.now().Add(r.ttl)}
		}
		r.mu.Unlock()
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Profile), nil
}

func (r *CachedResolver[U]) lookup(user U) (Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.cache[user]
	if !ok || !r.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.profile, true
}

// Invalidate drops user from the cache. Call it when a user's role changes.
func (r *CachedResolver[U]) Invalidate(user U) {
	r.mu.Lock()
	delete(r.cache, user)
	r.gens[user]++
	r.mu.Unlock()
}

// InvalidateAll clears the cache. Call it when role permissions change.
func (r *CachedResolver[U]) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[U]cacheEntry)
	r.epoch++
	r.mu.Unlock()
}

// Len returns the number of cached subjects.
func (r *CachedResolver[U]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
