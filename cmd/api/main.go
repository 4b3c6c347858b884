package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"authgate/internal/config"
	transporthttp "authgate/internal/http"
	"authgate/internal/identity"
	"authgate/internal/origin"
	"authgate/internal/platform/database"
	"authgate/internal/platform/logging"
	"authgate/internal/platform/migrate"
	platformredis "authgate/internal/platform/redis"
	"authgate/internal/provider"
	"authgate/internal/session"
	"authgate/internal/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(cfg.LogLevel)

	userRepo, cleanup, err := buildUserRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize user repository", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	states, err := buildStateStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize state store", "error", err)
		os.Exit(1)
	}

	providers, err := buildProviders(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize providers", "error", err)
		os.Exit(1)
	}

	allowlist := origin.NewAllowlist(cfg.AllowedOrigins, cfg.FallbackOrigin)
	identities := identity.NewService(userRepo)
	sessions := session.NewIssuer(cfg.SessionSecret, cfg.SessionTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := transporthttp.NewRouter(cfg, providers, states, allowlist, identities, sessions, registry, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		logger.Info("authgate listening", "addr", srv.Addr, "store", cfg.DataStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func buildUserRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (identity.Repository, func(), error) {
	if cfg.UseInMemoryStore() {
		logger.Info("using in-memory user repository")
		return identity.NewMemoryRepository(), nil, nil
	}

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = db.Close()
	}

	if err := migrate.Apply(ctx, db, logger); err != nil {
		cleanup()
		return nil, nil, err
	}

	logger.Info("connected to postgres")
	return identity.NewPostgresRepository(db), cleanup, nil
}

func buildStateStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (state.Store, error) {
	if cfg.RedisURL != "" {
		client, err := platformredis.New(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis state store")
		return state.NewRedisStore(client, cfg.StateTTL), nil
	}

	store := state.NewMemoryStore(cfg.StateTTL)
	store.StartJanitor(ctx, cfg.StateTTL)
	logger.Info("using in-memory state store", "ttl", cfg.StateTTL.String())
	return store, nil
}

func buildProviders(ctx context.Context, cfg config.Config, logger *slog.Logger) (*provider.Registry, error) {
	var providers []provider.Provider

	if cfg.Google.ClientID != "" {
		google, err := provider.NewGoogleProvider(ctx, cfg.Google)
		if err != nil {
			return nil, err
		}
		providers = append(providers, google)
	} else {
		logger.Warn("google login disabled: GOOGLE_CLIENT_ID not set")
	}

	if cfg.Kakao.ClientID != "" {
		providers = append(providers, provider.NewKakaoProvider(cfg.Kakao))
	} else {
		logger.Warn("kakao login disabled: KAKAO_REST_API_KEY not set")
	}

	return provider.NewRegistry(providers...), nil
}
