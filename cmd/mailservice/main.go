// Command mailservice runs the templated email dispatch HTTP service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/novakinetix/mailkit/modules/mailer"
	"github.com/novakinetix/mailkit/pkg/clientip"
	"github.com/novakinetix/mailkit/pkg/config"
	"github.com/novakinetix/mailkit/pkg/email"
	"github.com/novakinetix/mailkit/pkg/environment"
	"github.com/novakinetix/mailkit/pkg/file"
	"github.com/novakinetix/mailkit/pkg/httpserver"
	"github.com/novakinetix/mailkit/pkg/logger"
	"github.com/novakinetix/mailkit/pkg/ratelimiter"
	"github.com/novakinetix/mailkit/pkg/redis"
	"github.com/novakinetix/mailkit/pkg/requestid"
)

// version is set at build time with -ldflags "-X main.version=...".
var version string

// AppConfig holds process-level settings.
type AppConfig struct {
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"mailservice"`
	Version     string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("mailservice stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var app AppConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	if version != "" {
		app.Version = version
	}
	env := environment.Parse(app.AppEnv)

	log := logger.New(
		logger.WithEnvironment(env, app.ServiceName),
		logger.WithLevelString(app.LogLevel),
		logger.WithAttr(slog.String("version", app.Version)),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	var (
		mailCfg   email.Config
		serverCfg httpserver.Config
		redisCfg  redis.Config
		limitCfg  ratelimiter.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&mailCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&limitCfg) },
	} {
		if err := load(); err != nil {
			return err
		}
	}

	if err := checkProvider(env, mailCfg); err != nil {
		return err
	}

	sender, err := email.NewSenderFromConfig(ctx, mailCfg)
	if err != nil {
		return fmt.Errorf("build mail transport: %w", err)
	}

	catalog, err := email.DefaultCatalog()
	if err != nil {
		return fmt.Errorf("load template catalog: %w", err)
	}

	logo := email.LoadLogo(ctx, logoSource(ctx, log, mailCfg), mailCfg.LogoPath, mailCfg.LogoContentID, log)

	svc, err := email.NewService(catalog, sender, mailCfg.SenderEmail,
		email.WithLogger(log.With(logger.Component("email"), logger.Provider(mailCfg.Provider))),
		email.WithHistory(email.NewHistory(mailCfg.HistoryCapacity)),
		email.WithLogo(logo),
		email.WithSendTimeout(mailCfg.SendTimeout),
		email.WithSiteURL(mailCfg.SiteURL),
		email.WithSupportEmail(mailCfg.SupportEmail),
		email.WithReplyTo(mailCfg.SupportEmail),
	)
	if err != nil {
		return err
	}

	var checks []httpserver.Check
	store, closeStore, err := limiterStore(ctx, log, redisCfg, &checks)
	if err != nil {
		return err
	}
	defer closeStore()

	bucket, err := ratelimiter.NewBucket(store, limitCfg)
	if err != nil {
		return err
	}

	router := mailer.Router(mailer.RouterOptions{
		Mailer: mailer.NewService(svc,
			mailer.WithLogger(log.With(logger.Component("http"))),
			mailer.WithRateLimiter(bucket, ratelimiter.WithLogger(log)),
		),
		Health:    httpserver.Health(httpserver.Info{Service: app.ServiceName, Version: app.Version}),
		Readiness: httpserver.Readiness(log, checks...),
		Middlewares: []func(http.Handler) http.Handler{
			middleware.Recoverer,
			requestid.Middleware,
			clientip.Middleware,
			environment.Middleware(env),
		},
	})

	log.InfoContext(ctx, "mail service configured",
		logger.Provider(mailCfg.Provider),
		slog.String("env", string(env)),
		slog.Bool("logo", logo != nil),
		slog.Bool("redis", redisCfg.Enabled()),
	)

	return httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log)).Run(ctx, router)
}

// logoSource picks S3 when a bucket is configured and the local disk otherwise.
// A source that cannot be built yields nil; LoadLogo then warns and the
// service runs without the inline logo.
// checkProvider refuses the dev transport in deployed environments.
func checkProvider(env environment.Environment, cfg email.Config) error {
	if env.IsDeployed() && cfg.ProviderName() == email.ProviderDev {
		return fmt.Errorf("%w: the dev transport is not allowed in %s", email.ErrInvalidConfig, env)
	}
	return nil
}

func logoSource(ctx context.Context, log *slog.Logger, cfg email.Config) file.Source {
	if cfg.LogoS3Bucket != "" {
		src, err := file.NewS3Source(ctx, file.S3Config{
			Bucket:      cfg.LogoS3Bucket,
			Region:      cfg.AWSRegion,
			AccessKeyID: cfg.AWSAccessKeyID,
			SecretKey:   cfg.AWSSecretAccessKey,
		})
		if err != nil {
			log.WarnContext(ctx, "logo bucket unavailable", logger.Error(err))
			return nil
		}
		return src
	}

	src, err := file.NewLocalSource(".")
	if err != nil {
		log.WarnContext(ctx, "logo directory unavailable", logger.Error(err))
		return nil
	}
	return src
}

// limiterStore returns the Redis store when REDIS_URL is set and the
// in-memory store otherwise. The Redis ping is registered as a readiness check.
func limiterStore(ctx context.Context, log *slog.Logger, cfg redis.Config, checks *[]httpserver.Check) (ratelimiter.Store, func(), error) {
	if !cfg.Enabled() {
		mem := ratelimiter.NewMemoryStore()
		return mem, mem.Close, nil
	}

	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		if errors.Is(err, redis.ErrRedisNotReady) {
			log.WarnContext(ctx, "redis not reachable, rate limiting in memory", logger.Error(err))
			mem := ratelimiter.NewMemoryStore()
			return mem, mem.Close, nil
		}
		return nil, nil, err
	}

	*checks = append(*checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	return ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("mailservice:ratelimit:")), func() { _ = client.Close() }, nil
}
