// Package profile реализует HTTP-обработчик выдачи профиля пользователя.
//
// Без параметра пути возвращается профиль текущего пользователя,
// с параметром {id} — профиль указанного.
package profile

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

// Handler управляет HTTP-запросами выдачи профиля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи профиля.
type Service interface {
	Profile(ctx context.Context, id string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		userID, ok := r.Context().Value(middlewarectx.User).(string)
		if !ok || userID == "" {
			log.Error("user id not found in context")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
			return
		}
		id = userID
	}

	user, err := h.service.Profile(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			log.Info("user not found", slog.String("user_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get profile"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
