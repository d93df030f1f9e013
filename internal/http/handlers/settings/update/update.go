// Package update реализует HTTP-обработчик изменения настроек движка.
//
// Тело запроса — JSON-объект ключ-значение. Принимаются только известные
// ключи настроек, запрос с неизвестным ключом отклоняется целиком.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами изменения настроек.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики изменения настроек.
type Service interface {
	Update(ctx context.Context, values map[string]string) (models.Settings, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

var knownKeys = map[string]bool{
	models.SettingItemLifetimeHours: true,
	models.SettingKarmaPublish:      true,
	models.SettingKarmaTaken:        true,
	models.SettingKarmaExtend:       true,
	models.SettingKarmaThanks:       true,
	models.SettingAutoHideReports:   true,
	models.SettingRequirePhoto:      true,
	models.SettingPreModeration:     true,
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.settings.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if len(req) == 0 {
		log.Error("empty settings update")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("no settings provided"))
		return
	}
	for key := range req {
		if !knownKeys[key] {
			log.Error("unknown setting key", slog.String("key", key))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("unknown setting key: "+key))
			return
		}
	}

	settings, err := h.service.Update(r.Context(), req)
	if err != nil {
		log.Error("failed to update settings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update settings"))
		return
	}

	log.Info("settings updated", slog.Int("keys", len(req)))
	render.JSON(w, r, response.OKWithData(settings))
}
