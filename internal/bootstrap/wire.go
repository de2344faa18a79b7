package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/baechuer/france-explorer/internal/application/auth"
	"github.com/baechuer/france-explorer/internal/application/location"
	"github.com/baechuer/france-explorer/internal/config"
	"github.com/baechuer/france-explorer/internal/infrastructure/db/postgres"
	"github.com/baechuer/france-explorer/internal/infrastructure/memory"
	"github.com/baechuer/france-explorer/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/france-explorer/internal/infrastructure/openai"
	"github.com/baechuer/france-explorer/internal/infrastructure/redis"
	"github.com/baechuer/france-explorer/internal/infrastructure/security"
	"github.com/baechuer/france-explorer/internal/infrastructure/wiki"
	"github.com/baechuer/france-explorer/internal/logger"
	http_handlers "github.com/baechuer/france-explorer/internal/transport/http/handlers"
	"github.com/baechuer/france-explorer/internal/transport/http/middleware"
	"github.com/baechuer/france-explorer/internal/transport/http/response"
	"github.com/baechuer/france-explorer/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	// Optional. nil disables redis entirely.
	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

// Publisher receives every domain event the services emit.
type Publisher interface {
	auth.EventPublisher
	location.EventPublisher
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return nil, nil, errors.New("bootstrap: NewDB returned nil")
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	if cfg.DBAutoMigrate {
		if err := migrate(db, cfg.Env == "dev"); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 2) redis (best-effort)
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := c.Ping(context.Background()); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache and shared rate limits disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	pub, err := newPublisher(deps, cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(12)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) services
	authSvc := auth.NewService(
		postgres.NewUserRepo(db),
		hasher,
		signer,
		pub,
		auth.Config{AccessTTL: cfg.AccessTokenTTL},
	).WithAudit(auditLog("auth"))

	if cfg.OpenAIAPIKey == "" {
		logger.Logger.Warn().Msg("OPENAI_API_KEY not set; uncached descriptions will fail")
	}

	locationSvc := location.NewService(
		postgres.NewGeoRepo(db),
		redis.NewCachedDescriptionStore(postgres.NewDescriptionRepo(db), redisCli, cfg.DescriptionCacheTTL),
		openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.GenerationTimeout,
		}),
		wiki.NewClient(wiki.Config{
			APIURL:    cfg.WikiAPIURL,
			UserAgent: cfg.WikiUserAgent,
			Limit:     cfg.WikiImageLimit,
			Timeout:   cfg.ImagesTimeout,
		}),
		pub,
	).WithAudit(auditLog("location"))

	// 6) handlers + middleware
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(authSvc, secureCookies)
	locationH := http_handlers.NewLocationHandler(locationSvc)

	var cachePinger http_handlers.Pinger
	var limiter middleware.RateLimiter
	if redisCli != nil {
		cachePinger = redisCli
		limiter = redis.NewFixedWindowLimiter(redisCli)
	}
	healthH := http_handlers.NewHealthHandler(db, cachePinger)

	rl := func(scope string, limit int, window time.Duration) func(http.Handler) http.Handler {
		return middleware.RateLimitFixedWindow(
			limiter,
			middleware.FixedWindowConfig{Scope: scope, Limit: limit, Window: window},
			response.WriteError,
		)
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   healthH,
		Auth:     authH,
		Location: locationH,
		AuthMW:   middleware.Auth(signer, secureCookies, response.WriteError),
		HSTS:     secureCookies,

		CORSOrigins: cfg.CORSAllowedOrigins,

		RLRegister: rl("register", 3, time.Minute),
		RLLogin:    rl("login", 5, time.Minute),
		RLLocation: rl("location", 30, time.Minute),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

func migrate(db *sql.DB, seed bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	logger.Logger.Info().Msg("schema ensured")

	if seed {
		if err := postgres.SeedReference(ctx, db); err != nil {
			return err
		}
		logger.Logger.Info().Msg("reference data seeded")
	}
	return nil
}

// newPublisher connects to rabbitmq. Without a broker URL events are only
// logged; a failed connect is tolerated in dev only.
func newPublisher(deps Deps, cfg *config.Config) (Publisher, error) {
	if cfg.RabbitURL == "" || deps.NewPublisher == nil {
		logger.Logger.Info().Msg("RABBIT_URL not set; using noop publisher")
		return memory.NewNoopPublisher(), nil
	}

	pub, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
	if err != nil {
		if cfg.Env == "dev" {
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
			return memory.NewNoopPublisher(), nil
		}
		return nil, err
	}
	return pub, nil
}

func auditLog(component string) func(action string, fields map[string]string) {
	return func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("component", component).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	}
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis:   redis.New,
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
