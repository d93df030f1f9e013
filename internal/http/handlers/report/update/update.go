// Package update реализует HTTP-обработчик смены статуса жалобы модератором.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/http/response"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Handler управляет HTTP-запросами смены статуса жалобы.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены статуса жалобы.
type Service interface {
	UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error)
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
	const op = "handlers.report.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("report id missing in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("report id is required"))
		return
	}

	var req models.DummyReportStatus
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

	report, err := h.service.UpdateReportStatus(r.Context(), id, models.ReportStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrValidation):
			log.Error("invalid report status", slog.String("status", req.Status))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid report status"))
		case errors.Is(err, apperr.ErrNotFound):
			log.Info("report not found", slog.String("report_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("report not found"))
		default:
			log.Error("failed to update report status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update report status"))
		}
		return
	}

	log.Info("report status updated",
		slog.String("report_id", report.ID),
		slog.String("status", string(report.Status)))
	render.JSON(w, r, response.OKWithData(report))
}
