// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/authsecure/backend/config"
	"github.com/authsecure/backend/internal/application/adapter"
	"github.com/authsecure/backend/internal/application/usecase/auth"
	"github.com/authsecure/backend/internal/application/usecase/password"
	"github.com/authsecure/backend/internal/infra/db"
	"github.com/authsecure/backend/internal/infra/server/router"
	"github.com/authsecure/backend/internal/integration/adapters"
	"github.com/authsecure/backend/internal/integration/email"
	"github.com/authsecure/backend/internal/integration/email/templates"
	"github.com/authsecure/backend/internal/integration/entrypoint/controller"
	"github.com/authsecure/backend/internal/integration/entrypoint/middleware"
	"github.com/authsecure/backend/internal/integration/meter"
	"github.com/authsecure/backend/internal/integration/metrics"
	"github.com/authsecure/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *db.Database
	Redis       *redis.Client
	Registry    *prometheus.Registry
	Router      *router.Router
	EmailWorker *email.Worker
	Janitor     *persistence.Janitor
	RateLimiter *middleware.RateLimiter
}

// databaseBackend is the wiring produced for the database auth backend.
type databaseBackend struct {
	service *auth.Service
	worker  *email.Worker
	janitor *persistence.Janitor
}

// NewInjector creates a new dependency injector with all dependencies wired.
// database is required for the database backend and redisClient for the redis rate limit store.
func NewInjector(cfg *config.Config, database *db.Database, redisClient *redis.Client) (*Injector, error) {
	registry := metrics.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	renderer := meter.NewRenderer(meter.ParseStrategy(cfg.Meter.Strategy))
	checkStrengthUseCase := password.NewCheckStrengthUseCase(renderer, recorder)

	var (
		authService adapter.AuthService
		verifier    adapter.SessionVerifier
		backend     *databaseBackend
	)

	switch cfg.Auth.Backend {
	case config.BackendDatabase:
		if database == nil {
			return nil, fmt.Errorf("auth backend %q requires a database connection", cfg.Auth.Backend)
		}
		var err error
		backend, err = newDatabaseBackend(cfg, database, recorder)
		if err != nil {
			return nil, err
		}
		authService = backend.service
		verifier = backend.service
	case config.BackendSimulated:
		simulated := adapters.NewSimulatedAuthService(cfg.Auth.SimulatedLatency)
		authService = simulated
		verifier = simulated
	default:
		return nil, fmt.Errorf("unknown auth backend %q", cfg.Auth.Backend)
	}

	rateLimiter, err := newRateLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return nil, err
	}

	var healthChecks []controller.HealthDependency
	if database != nil {
		healthChecks = append(healthChecks, controller.HealthDependency{Name: "database", Check: database.Ping})
	}
	if redisClient != nil {
		healthChecks = append(healthChecks, controller.HealthDependency{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	deps := router.Dependencies{
		HealthController:   controller.NewHealthController(cfg.Auth.Backend, healthChecks...),
		PasswordController: controller.NewPasswordController(checkStrengthUseCase),
		WebController:      controller.NewWebController(authService, verifier, checkStrengthUseCase, cfg.Server.SecureCookies),
		AuthRateLimiter:    rateLimiter,
		AuthMiddleware:     middleware.NewAuthMiddleware(verifier),
		HTTPRecorder:       recorder,
		MetricsHandler:     metrics.Handler(registry),
	}

	injector := &Injector{
		Config:      cfg,
		DB:          database,
		Redis:       redisClient,
		Registry:    registry,
		RateLimiter: rateLimiter,
	}

	if backend != nil {
		deps.AuthController = controller.NewAuthController(backend.service, backend.service.Sessions())
		deps.UserController = controller.NewUserController(backend.service.AccountDeletion())
		injector.EmailWorker = backend.worker
		injector.Janitor = backend.janitor
	} else {
		deps.AuthController = controller.NewAuthController(authService, nil)
		deps.UserController = controller.NewUserController(nil)
	}

	r, err := router.NewRouter(deps)
	if err != nil {
		return nil, err
	}
	injector.Router = r

	slog.Info("Dependencies wired",
		"auth_backend", cfg.Auth.Backend,
		"meter_strategy", renderer.Strategy(),
		"rate_limit_store", cfg.RateLimit.Store,
	)

	return injector, nil
}

func newDatabaseBackend(cfg *config.Config, database *db.Database, recorder adapter.MetricsRecorder) (*databaseBackend, error) {
	gormDB := database.DB()

	refreshStore := persistence.NewRefreshTokenStore(gormDB)
	resetStore := persistence.NewResetTokenStore(gormDB)
	outbox := persistence.NewEmailOutbox(gormDB)

	ports := auth.Ports{
		Users: persistence.NewUserRepository(gormDB),
		Passwords: adapters.NewBcryptHasher(cfg.Password.BcryptCost, adapters.PasswordPolicy{
			MinLength: cfg.Password.MinLength,
			MinScore:  cfg.Password.MinScore,
		}),
		Sessions: adapters.NewJWTSessions(cfg.JWT.Secret, refreshStore, adapters.TokenDurations{
			Access:            cfg.JWT.AccessTokenExpiry,
			Refresh:           cfg.JWT.RefreshTokenExpiry,
			RememberMeAccess:  cfg.JWT.RememberMeAccessExpiry,
			RememberMeRefresh: cfg.JWT.RememberMeRefreshExpiry,
		}),
		Resets:     adapters.NewResetTokens(resetStore, cfg.Auth.ResetTokenValidity),
		Emails:     email.NewQueue(outbox, cfg.Email.AppBaseURL),
		AppBaseURL: cfg.Email.AppBaseURL,
	}

	backend := &databaseBackend{service: auth.NewService(ports, recorder)}

	if cfg.Maintenance.Enabled {
		backend.janitor = persistence.NewJanitor(refreshStore, resetStore, outbox, persistence.JanitorConfig{
			Interval:      cfg.Maintenance.Interval,
			SentRetention: cfg.Maintenance.SentRetention,
		})
	}

	if cfg.Email.WorkerEnabled {
		catalog, err := templates.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
		sender, err := newEmailSender(cfg.Email)
		if err != nil {
			return nil, err
		}
		backend.worker = email.NewWorker(outbox, sender, catalog, recorder, email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			BatchSize:    cfg.Email.BatchSize,
			ClaimTimeout: cfg.Email.ClaimTimeout,
		})
	}

	return backend, nil
}

// newEmailSender picks Resend when an API key is configured and falls back
// to logging otherwise.
func newEmailSender(cfg config.EmailConfig) (adapter.EmailSender, error) {
	if cfg.ResendAPIKey == "" {
		slog.Warn("RESEND_API_KEY not set, emails will only be logged")
		return email.LogSender{}, nil
	}
	client := email.NewResendClient(cfg.ResendAPIKey, cfg.FromName, cfg.FromEmail)
	if cfg.ResendBaseURL == "" {
		return client, nil
	}
	return client.WithBaseURL(cfg.ResendBaseURL)
}

func newRateLimiter(cfg config.RateLimitConfig, redisClient *redis.Client) (*middleware.RateLimiter, error) {
	var store middleware.RateLimitStore
	switch cfg.Store {
	case config.StoreRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("rate limit store %q requires a redis connection", cfg.Store)
		}
		store = middleware.NewRedisStore(redisClient, "")
	case config.StoreMemory, "":
		store = middleware.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown rate limit store %q", cfg.Store)
	}
	return middleware.NewRateLimiterWithConfig(store, cfg.MaxAttempts, cfg.Window, cfg.Enabled), nil
}
