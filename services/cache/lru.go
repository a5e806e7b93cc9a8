package cachesvc

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/trezcool/shuleni/core"
)

// lruCache bounds the key space on top of the TTL; the production default.
type lruCache struct {
	lru *expirable.LRU[string, interface{}]
}

var _ core.Cache = (*lruCache)(nil)

func NewLRUCache(size int, ttl time.Duration) core.Cache {
	return &lruCache{lru: expirable.NewLRU[string, interface{}](size, nil, ttl)}
}

func (c *lruCache) Get(key string) (interface{}, bool) {
	return c.lru.Get(key)
}

func (c *lruCache) Put(key string, payload interface{}) {
	c.lru.Add(key, payload)
}
