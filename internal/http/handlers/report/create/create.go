// Package create реализует HTTP-обработчик приёма жалобы на объявление.
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

// Handler управляет HTTP-запросами приёма жалоб.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приёма жалобы.
type Service interface {
	SubmitReport(ctx context.Context, itemID, reporterID string, reason models.ReportReason) (*models.Report, error)
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
	const op = "handlers.report.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyReport
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

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

	report, err := h.service.SubmitReport(r.Context(), req.ItemID, userID, models.ReportReason(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			log.Error("invalid report reason", sl.Err(err))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid report reason"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("item not found", slog.String("item_id", req.ItemID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("item not found"))
		case errors.Is(err, apperr.ErrConflict):
			log.Info("duplicate report", slog.String("item_id", req.ItemID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("report already submitted"))
		default:
			log.Error("failed to submit report", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not submit report"))
		}
		return
	}

	log.Info("report submitted", slog.String("report_id", report.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(report))
}
