// Command portal serves the school portal backend-for-frontend.
//
// @title        School Portal API
// @version      1.0
// @description  Backend-for-frontend of the school portal: sessions, registration wizard, role dashboards, payments and chat.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sadhana-school/portal/internal/api"
	"github.com/sadhana-school/portal/internal/api/handler"
	"github.com/sadhana-school/portal/internal/api/metrics"
	"github.com/sadhana-school/portal/internal/api/middleware"
	"github.com/sadhana-school/portal/internal/api/workspace"
	"github.com/sadhana-school/portal/internal/core/ports"
	"github.com/sadhana-school/portal/internal/core/service"
	"github.com/sadhana-school/portal/internal/infrastructure/backend"
	mongodb "github.com/sadhana-school/portal/internal/infrastructure/db/mongo"
	redisdb "github.com/sadhana-school/portal/internal/infrastructure/db/redis"
	"github.com/sadhana-school/portal/internal/pkg/config"
	"github.com/sadhana-school/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	drafts := mongodb.NewDraftRepository(db)
	if err := drafts.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("draft indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}()
	sessions := redisdb.NewSessionStore(rdb, cfg.Session.TTL)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		log.Fatal().Err(err).Msg("register metrics")
	}

	client := backend.New(backend.Config{
		BaseURL:      cfg.Backend.URL,
		Timeout:      cfg.Backend.Timeout,
		Observe:      m.ObserveBackend,
		OnInvalidate: m.ForcedLogout,
	}, logger.Component("backend"))

	opener := workspace.NewOpener(client, func(sid string) ports.Storage {
		return sessions.Scope(sid)
	}, logger.Component("session"))

	e := api.NewRouter(api.Deps{
		Log: log,
		Session: middleware.SessionConfig{
			Secret: cfg.Session.Secret,
			TTL:    cfg.Session.TTL,
			Secure: !cfg.IsDevelopment(),
		},
		Opener:       opener,
		Registration: service.NewRegistrationService(drafts, logger.Component("registration")),
		Metrics:      m,
		Registry:     reg,
		Readiness: map[string]handler.Pinger{
			"mongodb": handler.MongoPinger(db),
			"redis":   handler.RedisPinger(rdb),
			"backend": handler.PingFunc(client.Ping),
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("portal listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
