// Package get реализует HTTP-обработчик чтения объявления по идентификатору.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами на чтение объявления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения объявления.
type Service interface {
	Get(ctx context.Context, id string) (*models.Item, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("item id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("item id is required"))
		return
	}

	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Info("item not found", slog.String("item_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
			return
		}
		log.Error("failed to get item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get item"))
		return
	}

	render.JSON(w, r, response.OKWithData(item))
}
