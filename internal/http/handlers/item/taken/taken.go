// Package taken реализует HTTP-обработчик отметки "вещь забрали".
package taken

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/http/middlewarectx"
	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами отметки объявления забранным.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отметки объявления забранным.
type Service interface {
	MarkTaken(ctx context.Context, id, actorID string) (*models.Item, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.taken"
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

	userID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	item, err := h.service.MarkTaken(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("item not found", slog.String("item_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
		case errors.Is(err, apperr.ErrInvalidState):
			log.Info("item is not available", slog.String("item_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("item is not available"))
		default:
			log.Error("failed to mark item as taken", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not mark item as taken"))
		}
		return
	}

	log.Info("item marked as taken", slog.String("item_id", id))
	render.JSON(w, r, response.OKWithData(item))
}
