// Package list реализует HTTP-обработчик модераторского списка жалоб.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами выдачи списка жалоб.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи списка жалоб.
type Service interface {
	ListReports(ctx context.Context, status string, limit int) ([]*models.Report, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := r.URL.Query().Get("status")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Error("invalid limit parameter", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit parameter"))
			return
		}
		limit = n
	}

	reports, err := h.service.ListReports(r.Context(), status, limit)
	if err != nil {
		log.Error("failed to list reports", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reports"))
		return
	}

	log.Info("reports listed", slog.Int("count", len(reports)))
	render.JSON(w, r, response.OKWithData(reports))
}
