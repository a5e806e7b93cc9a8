package cachesvc

import (
	"sync"
	"time"

	"github.com/trezcool/shuleni/core"
)

var NowFunc = time.Now // mockable

type entry struct {
	payload   interface{}
	timestamp time.Time
}

// memoryCache memoizes payloads in a plain map with TTL checked on read.
// Stale entries are never proactively purged; they are ignored and
// overwritten on the next miss. The key space is bounded by active user
// count, so unbounded growth is not a concern here.
type memoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

var _ core.Cache = (*memoryCache)(nil)

func NewMemoryCache(ttl time.Duration) core.Cache {
	return &memoryCache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || NowFunc().Sub(ent.timestamp) >= c.ttl {
		return nil, false
	}
	return ent.payload, true
}

func (c *memoryCache) Put(key string, payload interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, timestamp: NowFunc()}
	c.mu.Unlock()
}
