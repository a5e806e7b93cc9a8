package cachesvc

import (
	"testing"
	"time"

	"github.com/trezcool/shuleni/core"
)

func Test_memoryCache(t *testing.T) {
	now := time.Now()
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	ttl := 5 * time.Minute
	cache := NewMemoryCache(ttl)
	key := core.StatsKey("usr1", "dashboard_stats")

	t.Run("miss on empty", func(t *testing.T) {
		if _, ok := cache.Get(key); ok {
			t.Error("Get() on empty cache must miss")
		}
	})

	t.Run("get after put returns payload", func(t *testing.T) {
		cache.Put(key, 42)
		got, ok := cache.Get(key)
		if !ok || got != 42 {
			t.Errorf("Get() = (%v, %v); want (42, true)", got, ok)
		}
	})

	t.Run("put overwrites wholesale", func(t *testing.T) {
		cache.Put(key, 43)
		got, _ := cache.Get(key)
		if got != 43 {
			t.Errorf("Get() = %v; want 43", got)
		}
	})

	t.Run("distinct callers have distinct lines", func(t *testing.T) {
		otherKey := core.StatsKey("usr2", "dashboard_stats")
		if _, ok := cache.Get(otherKey); ok {
			t.Error("Get() for another user must miss")
		}
	})

	t.Run("entry within TTL still served", func(t *testing.T) {
		now = now.Add(ttl - time.Second)
		if _, ok := cache.Get(key); !ok {
			t.Error("Get() within TTL must hit")
		}
	})

	t.Run("stale entry signals a miss", func(t *testing.T) {
		now = now.Add(2 * time.Second) // past TTL
		if _, ok := cache.Get(key); ok {
			t.Error("Get() past TTL must miss")
		}
	})

	t.Run("overwrite refreshes timestamp", func(t *testing.T) {
		cache.Put(key, 44)
		got, ok := cache.Get(key)
		if !ok || got != 44 {
			t.Errorf("Get() = (%v, %v); want (44, true)", got, ok)
		}
	})
}
