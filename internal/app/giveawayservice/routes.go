// Package giveawayservice предоставляет маршруты основного приложения.
package giveawayservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analyticsget "github.com/pomoechka/giveaway-service/internal/http/handlers/analytics/get"
	"github.com/pomoechka/giveaway-service/internal/http/handlers/health"
	itemcreate "github.com/pomoechka/giveaway-service/internal/http/handlers/item/create"
	itemextend "github.com/pomoechka/giveaway-service/internal/http/handlers/item/extend"
	itemget "github.com/pomoechka/giveaway-service/internal/http/handlers/item/get"
	itemlist "github.com/pomoechka/giveaway-service/internal/http/handlers/item/list"
	itemtaken "github.com/pomoechka/giveaway-service/internal/http/handlers/item/taken"
	reportcreate "github.com/pomoechka/giveaway-service/internal/http/handlers/report/create"
	reportlist "github.com/pomoechka/giveaway-service/internal/http/handlers/report/list"
	reportupdate "github.com/pomoechka/giveaway-service/internal/http/handlers/report/update"
	settingsget "github.com/pomoechka/giveaway-service/internal/http/handlers/settings/get"
	settingsupdate "github.com/pomoechka/giveaway-service/internal/http/handlers/settings/update"
	userleaderboard "github.com/pomoechka/giveaway-service/internal/http/handlers/user/leaderboard"
	userprofile "github.com/pomoechka/giveaway-service/internal/http/handlers/user/profile"
	userthanks "github.com/pomoechka/giveaway-service/internal/http/handlers/user/thanks"
	"github.com/pomoechka/giveaway-service/internal/http/middlewarectx"
	analyticsservice "github.com/pomoechka/giveaway-service/internal/services/analytics"
	itemservice "github.com/pomoechka/giveaway-service/internal/services/item"
	moderationservice "github.com/pomoechka/giveaway-service/internal/services/moderation"
	settingsservice "github.com/pomoechka/giveaway-service/internal/services/settings"
	userservice "github.com/pomoechka/giveaway-service/internal/services/user"
	"github.com/pomoechka/giveaway-service/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, db *repository.Storage,
	itemService *itemservice.Service,
	moderationService *moderationservice.Service,
	userService *userservice.Service,
	analyticsService *analyticsservice.Service,
	settingsService *settingsservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Get("/items", itemlist.New(logger, itemService).ServeHTTP)
		r.Get("/items/{id}", itemget.New(logger, itemService).ServeHTTP)
		r.Get("/leaderboard", userleaderboard.New(logger, userService).ServeHTTP)

		// Группа с идентификацией через Telegram
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.TelegramAuthMiddleware(logger, db))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/items", itemcreate.New(logger, itemService).ServeHTTP)
			r.Post("/items/{id}/taken", itemtaken.New(logger, itemService).ServeHTTP)
			r.Post("/items/{id}/extend", itemextend.New(logger, itemService).ServeHTTP)
			r.Post("/reports", reportcreate.New(logger, moderationService).ServeHTTP)
			r.Get("/profile", userprofile.New(logger, userService).ServeHTTP)
			r.Get("/users/{id}", userprofile.New(logger, userService).ServeHTTP)
			r.Post("/users/{id}/thanks", userthanks.New(logger, userService).ServeHTTP)
		})

		// Группа только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.TelegramAuthMiddleware(logger, db))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger, db))
			r.Get("/admin/reports", reportlist.New(logger, moderationService).ServeHTTP)
			r.Patch("/admin/reports/{id}", reportupdate.New(logger, moderationService).ServeHTTP)
			r.Get("/admin/analytics", analyticsget.New(logger, analyticsService).ServeHTTP)
			r.Get("/admin/settings", settingsget.New(logger, settingsService).ServeHTTP)
			r.Put("/admin/settings", settingsupdate.New(logger, settingsService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
}
