// Package create реализует HTTP-обработчик публикации нового объявления.
//
// Handler принимает JSON-запрос с данными вещи, валидирует их, извлекает
// идентификатор пользователя из контекста, вызывает бизнес-логику публикации
// и возвращает созданное объявление в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/http/middlewarectx"
	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами на публикацию объявлений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики публикации объявления.
type Service interface {
	Create(ctx context.Context, authorID string, req models.DummyItem) (*models.Item, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.item.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || userID == "" {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	item, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			log.Error("invalid item data", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid item data"))
			return
		}
		log.Error("failed to create item", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create item"))
		return
	}

	log.Info("item created", slog.String("item_id", item.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(item))
}
