package cache

import (
	"time"
)

// CacheService represents a generic cache service
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// RateLimiter tracks sources that asked us to back off. A source is blocked
// while its cache entry exists; entry expiry lifts the block.
type RateLimiter struct {
	cache CacheService
}

// NewRateLimiter creates a rate limiter backed by the given cache
func NewRateLimiter(cacheSvc CacheService) *RateLimiter {
	return &RateLimiter{cache: cacheSvc}
}

// Blocked reports whether the source is currently rate limited
func (r *RateLimiter) Blocked(source string) bool {
	if r == nil || r.cache == nil {
		return false
	}
	_, err := r.cache.Get(blockKey(source))
	return err == nil
}

// Block marks the source as rate limited for the given duration
func (r *RateLimiter) Block(source string, d time.Duration) error {
	if r == nil || r.cache == nil {
		return nil
	}
	return r.cache.Set(blockKey(source), []byte(d.String()), d)
}

func blockKey(source string) string {
	return "ratelimit:" + source
}
