package viewcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/AlibekovAA/invoice-dashboard/internal/common/clock"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/constants"
	"github.com/AlibekovAA/invoice-dashboard/internal/common/logger"
	"github.com/AlibekovAA/invoice-dashboard/internal/observability/metrics"
)

type entry struct {
	body      []byte
	expiresAt time.Time
}

// Cache holds rendered views keyed by logical path plus query. Invalidating
// a path drops every view rendered under it and advances the generation, so
// a view read from the store before the invalidation is never stored after it.
type Cache struct {
	entries    sync.Map
	mu         sync.RWMutex
	generation uint64
	ttl     time.Duration
	clock   clock.Clock
	log     *logger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(ctx context.Context, ttl time.Duration, clock clock.Clock, log *logger.Logger) *Cache {
	cacheCtx, cancel := context.WithCancel(ctx)
	c := &Cache{
		ttl:    ttl,
		clock:  clock,
		log:    log,
		ctx:    cacheCtx,
		cancel: cancel,
	}

	go c.cleanup(constants.ViewCacheCleanupInterval)

	return c
}

// Key joins a logical path and its canonical query string.
func Key(path, rawQuery string) string {
	if rawQuery == "" {
		return path
	}
	return path + "?" + rawQuery
}

func (c *Cache) Get(key string) ([]byte, bool) {
	if value, ok := c.entries.Load(key); ok {
		e := value.(*entry)
		if c.clock.Now().Before(e.expiresAt) {
			metrics.ViewCacheLookups.WithLabelValues("hit").Inc()
			return e.body, true
		}
		if c.entries.CompareAndDelete(key, value) {
			metrics.ViewCacheEntries.Dec()
		}
	}
	metrics.ViewCacheLookups.WithLabelValues("miss").Inc()
	return nil, false
}

// Generation is taken before reading the data a view is rendered from.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// Set stores body unconditionally. It is a no-op when the cache TTL is not
// positive.
func (c *Cache) Set(key string, body []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.store(key, body)
}

// SetIfCurrent stores body only if no invalidation happened since gen was
// taken. It reports whether the view was stored.
func (c *Cache) SetIfCurrent(key string, body []byte, gen uint64) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.generation != gen {
		metrics.ViewCacheStaleWrites.Inc()
		return false
	}
	return c.store(key, body)
}

func (c *Cache) store(key string, body []byte) bool {
	if c.ttl <= 0 {
		return false
	}
	e := &entry{
		body:      body,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
	if _, loaded := c.entries.Swap(key, e); !loaded {
		metrics.ViewCacheEntries.Inc()
	}
	return true
}

// Invalidate drops every entry whose key is path itself or lies beneath it.
func (c *Cache) Invalidate(path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++

	removed := 0
	c.entries.Range(func(key, value interface{}) bool {
		if underPath(key.(string), path) {
			if c.entries.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	metrics.ViewCacheInvalidations.WithLabelValues(path).Inc()
	metrics.ViewCacheEntries.Sub(float64(removed))
	if removed > 0 {
		c.log.Debugf("view cache invalidated %d entries under %s", removed, path)
	}
	return removed
}

func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (c *Cache) Close() {
	c.cancel()
}

func underPath(key, path string) bool {
	if !strings.HasPrefix(key, path) {
		return false
	}
	rest := key[len(path):]
	return rest == "" || strings.HasPrefix(rest, "?") || strings.HasPrefix(rest, "/") || strings.HasSuffix(path, "/")
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if removed := c.removeExpired(); removed > 0 {
				c.log.Debugf("view cache cleaned up %d expired entries", removed)
			}
		}
	}
}

func (c *Cache) removeExpired() int {
	now := c.clock.Now()
	removed := 0
	c.entries.Range(func(key, value interface{}) bool {
		if !now.Before(value.(*entry).expiresAt) {
			if c.entries.CompareAndDelete(key, value) {
				removed++
			}
		}
		return true
	})
	metrics.ViewCacheEntries.Sub(float64(removed))
	return removed
}
