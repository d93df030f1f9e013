// Package leaderboard реализует HTTP-обработчик выдачи топа пользователей по карме.
package leaderboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами выдачи таблицы лидеров.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи таблицы лидеров.
type Service interface {
	Leaderboard(ctx context.Context) ([]*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.leaderboard"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.service.Leaderboard(r.Context())
	if err != nil {
		log.Error("failed to get leaderboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get leaderboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(users))
}
