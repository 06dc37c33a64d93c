package ratelimiter

import (
	"context"
	"time"
)

// Store is a token bucket state backend.
type Store interface {
	// ConsumeTokens refills the bucket for elapsed intervals, then subtracts
	// tokens. A negative remaining count means the request is denied.
	// Denied requests still consume, so a client hammering the endpoint
	// stays limited until it backs off.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the rate limit state for the given key.
	Reset(ctx context.Context, key string) error
}

// refill applies the token bucket refill for the intervals elapsed between
// lastRefill and now. Intervals are capped so a long-idle bucket cannot
// overflow.
func refill(tokens int, lastRefill, now time.Time, config Config) (int, time.Time) {
	elapsed := now.Sub(lastRefill)
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(elapsed/config.RefillInterval), maxIntervals))
	if intervals <= 0 {
		return tokens, lastRefill
	}
	return min(tokens+intervals*config.RefillRate, config.Capacity), now
}
