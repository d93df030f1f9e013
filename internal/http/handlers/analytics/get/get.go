// Package get реализует HTTP-обработчик сводной статистики для админ-панели.
package get

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

// Handler управляет HTTP-запросами сводной статистики.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводной статистики.
type Service interface {
	Snapshot(ctx context.Context) (*models.Analytics, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		log.Error("failed to build analytics snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build analytics"))
		return
	}

	render.JSON(w, r, response.OKWithData(snapshot))
}
