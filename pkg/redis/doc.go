// Package redis provides helpers for connecting to the optional Redis server
// that backs distributed rate limiting.
//
// The package wraps the go-redis client and adds:
//
//   - Connect, which retries the initial ping using the supplied Config.
//   - Healthcheck, for the /ready probe.
//
// Config is populated from environment variables via github.com/caarlos0/env.
// Leaving REDIS_URL empty disables Redis entirely.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    if err != nil {
//	        return err
//	    }
//	    defer client.Close()
//	    store := ratelimiter.NewRedisStore(client)
//	}
package redis
