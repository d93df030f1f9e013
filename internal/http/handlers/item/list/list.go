// Package list реализует HTTP-обработчик выдачи списка объявлений.
//
// Фильтры передаются query-параметрами: status, category, author_id,
// search и limit. По умолчанию выдаются объявления всех статусов.
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

// Handler управляет HTTP-запросами на выдачу списка объявлений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи списка объявлений.
type Service interface {
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	filter := models.ItemFilter{
		Status:   models.ItemStatus(q.Get("status")),
		Category: q.Get("category"),
		AuthorID: q.Get("author_id"),
		Search:   q.Get("search"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			log.Error("invalid limit parameter", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit parameter"))
			return
		}
		filter.Limit = limit
	}

	items, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list items"))
		return
	}

	log.Info("items listed", slog.Int("count", len(items)))
	render.JSON(w, r, response.OKWithData(items))
}
