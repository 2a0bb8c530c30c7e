// Package main is the entry point for the AuthSecure server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/authsecure/backend/config"
	"github.com/authsecure/backend/internal/infra/cache"
	"github.com/authsecure/backend/internal/infra/db"
	"github.com/authsecure/backend/internal/infra/dependency"
	"github.com/authsecure/backend/internal/infra/logging"
	"github.com/authsecure/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	slog.SetDefault(logging.New(cfg.Log))

	slog.Info("Starting AuthSecure",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"auth_backend", cfg.Auth.Backend,
	)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var database *db.Database
	if cfg.Auth.Backend == config.BackendDatabase {
		var err error
		database, err = db.Open(&cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer func() {
			if err := database.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}()

		if err := database.AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		slog.Info("Database migrations completed successfully", "driver", cfg.Database.Driver)
	}

	var redisClient *redis.Client
	if cfg.RateLimit.Store == config.StoreRedis {
		var err error
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}()
	}

	injector, err := dependency.NewInjector(cfg, database, redisClient)
	if err != nil {
		return err
	}

	engine := injector.Router.Setup(cfg.Server.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	background := func(start func(context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start(bgCtx)
		}()
	}
	if injector.EmailWorker != nil {
		background(injector.EmailWorker.Start)
	}
	if injector.Janitor != nil {
		background(injector.Janitor.Start)
	}
	background(injector.RateLimiter.Start)
	defer func() {
		cancelBackground()
		wg.Wait()
	}()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
