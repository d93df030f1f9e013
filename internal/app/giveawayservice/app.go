// Package giveawayservice собирает приложение: хранилище, кеш, сервисы и HTTP-сервер.
package giveawayservice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/pomoechka/giveaway-service/internal/cache"
	"github.com/pomoechka/giveaway-service/internal/config"
	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/migrations"
	analyticsservice "github.com/pomoechka/giveaway-service/internal/services/analytics"
	itemservice "github.com/pomoechka/giveaway-service/internal/services/item"
	karmaservice "github.com/pomoechka/giveaway-service/internal/services/karma"
	moderationservice "github.com/pomoechka/giveaway-service/internal/services/moderation"
	settingsservice "github.com/pomoechka/giveaway-service/internal/services/settings"
	userservice "github.com/pomoechka/giveaway-service/internal/services/user"
	"github.com/pomoechka/giveaway-service/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	clk := clock.Real{}

	settingsService := settingsservice.New(db, cacheRedis, cfg.Engine.DefaultSettings(), clk, logger)
	karmaLedger := karmaservice.New(db, clk, logger)
	itemService := itemservice.New(db, settingsService, karmaLedger, clk, logger)
	moderationService := moderationservice.New(db, settingsService, itemService, clk, logger)
	userService := userservice.New(db, cacheRedis, karmaLedger, settingsService, logger)
	analyticsService := analyticsservice.New(db, clk, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db,
		itemService, moderationService, userService, analyticsService, settingsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
