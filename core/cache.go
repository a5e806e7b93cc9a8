package core

// Cache is a keyed store for memoized query results.
// Implementations decide eviction; entries older than the store's TTL must
// never be returned. Concurrent writers for the same key are tolerated:
// last writer wins.
type Cache interface {
	Get(key string) (interface{}, bool)
	Put(key string, payload interface{})
}

// StatsKey derives the cache key for an aggregate query result.
// Two callers must not share a cache line; two calls from the same caller
// for the same query must.
func StatsKey(userID, query string) string {
	return userID + ":" + query
}
