package probe

import (
	"context"
	"math"
	"sync"
)

// ProbeFunc queries metadata for one path. The default is Probe, which
// shells out to ffprobe; tests substitute a stub.
type ProbeFunc func(ctx context.Context, path string) (MediaInfo, error)

// Cache memoizes probe results per path. Concurrent callers probing the
// same path share a single external call; callers probing different
// paths proceed concurrently, because the subprocess runs under the
// entry's once guard, not under the map lock.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	probe   ProbeFunc
}

type cacheEntry struct {
	once sync.Once
	info MediaInfo
	err  error
}

// NewCache returns an empty probe cache backed by ffprobe.
func NewCache() *Cache {
	return NewCacheWithProbe(Probe)
}

// NewCacheWithProbe returns an empty cache backed by fn.
func NewCacheWithProbe(fn ProbeFunc) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		probe:   fn,
	}
}

// GetInfo returns the MediaInfo for path, probing at most once per
// distinct path for the lifetime of the cache.
func (c *Cache) GetInfo(ctx context.Context, path string) (MediaInfo, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if !ok {
		e = &cacheEntry{}
		c.entries[path] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.info, e.err = c.probe(ctx, path)
	})
	return e.info, e.err
}

// CheckValidity compares the container durations of an original file and
// its transcoded candidate. The candidate is valid when the durations
// agree within 1% relative tolerance; re-encoding can shift the
// container-reported duration by rounding. Returns the original's
// duration for aggregate ETA weighting.
func (c *Cache) CheckValidity(ctx context.Context, originalPath, candidatePath string) (bool, float64, error) {
	original, err := c.GetInfo(ctx, originalPath)
	if err != nil {
		return false, 0, err
	}
	candidate, err := c.GetInfo(ctx, candidatePath)
	if err != nil {
		return false, original.Duration, err
	}

	valid := durationsClose(original.Duration, candidate.Duration, 0.01)
	return valid, original.Duration, nil
}

// durationsClose reports whether a and b agree within the given relative
// tolerance: |a-b| <= relTol * max(|a|, |b|). Two zero durations agree.
func durationsClose(a, b, relTol float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}
