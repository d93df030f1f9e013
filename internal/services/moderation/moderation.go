// Package moderation реализует жалобы сообщества и автоскрытие объявлений.
//
// Повторная жалоба одного пользователя отсекается уникальным индексом в
// хранилище, а не предварительной проверкой: вставка атомарна и конфликт
// двух параллельных жалоб невозможен. При достижении порога жалоб
// объявление скрывается автоматически.
package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Repository определяет методы хранилища жалоб.
type Repository interface {
	GetItem(ctx context.Context, id string) (*models.Item, error)
	// CreateReport вставляет жалобу; повторная жалоба того же пользователя
	// возвращает apperr.ErrConflict.
	CreateReport(ctx context.Context, report *models.Report) error
	// IncrementReports увеличивает счётчик жалоб объявления и возвращает новое значение.
	IncrementReports(ctx context.Context, itemID string) (int, error)
	ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]*models.Report, error)
	// UpdateReportStatus меняет статус жалобы; отсутствие записи
	// возвращается как apperr.ErrNotFound.
	UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error)
}

// SettingsProvider возвращает действующие настройки движка.
type SettingsProvider interface {
	Get(ctx context.Context) (models.Settings, error)
}

// ItemHider скрывает объявление по решению автомодерации.
type ItemHider interface {
	AutoHide(ctx context.Context, id string) error
}

// Service обрабатывает жалобы и управляет автоскрытием.
type Service struct {
	repo     Repository
	settings SettingsProvider
	items    ItemHider
	clock    clock.Clock
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, settings SettingsProvider, items ItemHider, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		items:    items,
		clock:    clk,
		log:      log,
	}
}

// SubmitReport регистрирует жалобу на объявление. Каждый пользователь может
// пожаловаться на объявление один раз. При достижении порога жалоб объявление
// скрывается; сбой скрытия логируется, жалоба при этом считается принятой.
func (s *Service) SubmitReport(ctx context.Context, itemID, reporterID string, reason models.ReportReason) (*models.Report, error) {
	const op = "moderation.SubmitReport"
	if !models.ValidReportReason(reason) {
		return nil, fmt.Errorf("%s: unknown reason %q: %w", op, reason, apperr.ErrValidation)
	}
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now().UTC()
	report := &models.Report{
		ID:         uuid.NewString(),
		ItemID:     itemID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     models.ReportPending,
		CreatedAt:  now,
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	count, err := s.repo.IncrementReports(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("report submitted",
		slog.String("item_id", itemID),
		slog.String("reporter_id", reporterID),
		slog.Int("reports_count", count))

	st, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn("failed to load settings for auto-hide check", sl.Err(err))
		return report, nil
	}
	if count >= st.AutoHideReportThreshold {
		if err := s.items.AutoHide(ctx, itemID); err != nil {
			s.log.Error("failed to auto-hide item",
				slog.String("item_id", itemID), sl.Err(err))
		}
	}

	return report, nil
}

// ListReports возвращает жалобы для модераторской панели,
// опционально отфильтрованные по статусу.
func (s *Service) ListReports(ctx context.Context, status string, limit int) ([]*models.Report, error) {
	const op = "moderation.ListReports"
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	reports, err := s.repo.ListReports(ctx, models.ReportStatus(status), limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reports, nil
}

// UpdateReportStatus выставляет жалобе решение модератора.
// Скрытие объявления статусом жалобы не управляется: автоскрытие
// срабатывает по счётчику при приёме жалоб.
func (s *Service) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	const op = "moderation.UpdateReportStatus"
	if !models.ValidReportStatus(status) {
		return nil, fmt.Errorf("%s: unknown status %q: %w", op, status, apperr.ErrValidation)
	}

	report, err := s.repo.UpdateReportStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("report status updated",
		slog.String("report_id", id),
		slog.String("status", string(status)))
	return report, nil
}
