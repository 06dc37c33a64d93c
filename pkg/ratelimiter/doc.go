// Package ratelimiter provides token bucket rate limiting for the send
// endpoints, with in-memory and Redis storage and HTTP middleware.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request consumes one token; a request that finds the
// bucket empty is rejected with 429 Too Many Requests.
//
// # Basic Usage
//
//	var cfg ratelimiter.Config
//	config.MustLoad(&cfg) // RATE_LIMIT_CAPACITY, RATE_LIMIT_REFILL_RATE, RATE_LIMIT_REFILL_INTERVAL
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	if err != nil {
//		return err
//	}
//
//	r.With(ratelimiter.Middleware(limiter)).Post("/send-email", ...)
//
// With several replicas, share the buckets through Redis:
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(redisClient), cfg)
//
// The Redis store runs the same refill arithmetic as the memory store inside
// a Lua script, so the two are interchangeable.
//
// # Middleware
//
// Requests are keyed by client IP (ByClientIP) unless WithKeyFunc is given.
// Every limited response carries:
//   - X-RateLimit-Limit: bucket capacity
//   - X-RateLimit-Remaining: tokens left
//   - X-RateLimit-Reset: Unix timestamp of the next refill
//   - Retry-After: seconds until the next refill (rejections only)
//
// If the store fails, the request is allowed and the error is logged.
package ratelimiter
