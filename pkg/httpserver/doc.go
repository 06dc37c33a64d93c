// Package httpserver runs an http.Server with graceful shutdown and provides
// liveness and readiness handlers.
//
// Run blocks until the context is canceled or SIGINT/SIGTERM arrives, then
// calls http.Server.Shutdown bounded by the shutdown timeout so in-flight
// sends can finish. Listen errors wrap ErrStart; shutdown errors wrap
// ErrShutdown.
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r.Get("/health", httpserver.Health(httpserver.Info{Service: "mailservice", Version: version}))
//	r.Get("/ready", httpserver.Readiness(log, httpserver.Check{Name: "redis", Fn: redisPing}))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Health always answers {"status":"healthy","service","version","timestamp"}.
// Readiness answers 503 when any Check fails.
package httpserver
