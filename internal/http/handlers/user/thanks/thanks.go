// Package thanks реализует HTTP-обработчик благодарности пользователю.
package thanks

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
)

// Handler управляет HTTP-запросами благодарности.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики благодарности.
type Service interface {
	Thanks(ctx context.Context, fromID, toID string) (int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.thanks"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	toID := chi.URLParam(r, "id")
	if toID == "" {
		log.Error("user id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user id is required"))
		return
	}

	fromID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || fromID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	total, err := h.service.Thanks(r.Context(), fromID, toID)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			log.Info("self-thanks rejected", slog.String("user_id", fromID))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("cannot thank yourself"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("user not found", slog.String("user_id", toID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to send thanks", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not send thanks"))
		}
		return
	}

	log.Info("thanks sent", slog.String("to_id", toID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"karma": total,
	}))
}
