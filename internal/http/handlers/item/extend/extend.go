// Package extend реализует HTTP-обработчик продления срока объявления.
package extend

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

// Handler управляет HTTP-запросами продления объявления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики продления объявления.
type Service interface {
	Extend(ctx context.Context, id, actorID string) (*models.Item, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.extend"
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

	item, err := h.service.Extend(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("item not found", slog.String("item_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
		case errors.Is(err, apperr.ErrForbidden):
			log.Warn("extend denied for non-author", slog.String("item_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("only the author can extend the item"))
		case errors.Is(err, apperr.ErrInvalidState):
			log.Info("item cannot be extended", slog.String("item_id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("item cannot be extended"))
		default:
			log.Error("failed to extend item", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not extend item"))
		}
		return
	}

	log.Info("item extended", slog.String("item_id", id))
	render.JSON(w, r, response.OKWithData(item))
}
