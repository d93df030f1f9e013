// Package item реализует жизненный цикл объявления.
//
// Статусы: active -> taken | expired | hidden. Истечение срока вычисляется
// лениво на путях чтения, фонового процесса нет. Переход фиксируется в
// хранилище до начисления кармы: сбой начисления логируется и не откатывает
// переход (доступность основного действия важнее строгой согласованности).
package item

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Repository определяет методы хранилища объявлений.
type Repository interface {
	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	// MarkExpired идемпотентно переводит просроченное активное объявление в expired.
	MarkExpired(ctx context.Context, id string, now time.Time) (int, error)
	// MarkTaken выполняет guarded-переход active -> taken, возвращает число изменённых строк.
	MarkTaken(ctx context.Context, id, takenBy string, takenAt time.Time) (int, error)
	// ExtendItem продлевает срок и возвращает объявление в active.
	ExtendItem(ctx context.Context, id string, expiresAt, now time.Time) (int, error)
	// MarkHidden выполняет переход active -> hidden.
	MarkHidden(ctx context.Context, id string, now time.Time) (int, error)
	IncrementViews(ctx context.Context, id string) error
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
}

// SettingsProvider возвращает действующие настройки движка.
type SettingsProvider interface {
	Get(ctx context.Context) (models.Settings, error)
}

// KarmaLedger начисляет карму за события жизненного цикла.
type KarmaLedger interface {
	Award(ctx context.Context, in models.Award) (int, error)
}

// Service реализует операции жизненного цикла объявлений.
type Service struct {
	repo     Repository
	settings SettingsProvider
	karma    KarmaLedger
	clock    clock.Clock
	log      *slog.Logger
}

// New создает новый Service.
func New(repo Repository, settings SettingsProvider, karma KarmaLedger, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		karma:    karma,
		clock:    clk,
		log:      log,
	}
}

// Create публикует новое объявление и начисляет автору карму за публикацию.
func (s *Service) Create(ctx context.Context, authorID string, req models.DummyItem) (*models.Item, error) {
	const op = "item.Create"
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%s: title is required: %w", op, apperr.ErrValidation)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if st.RequirePhoto && req.PhotoURL == "" {
		return nil, fmt.Errorf("%s: photo is required: %w", op, apperr.ErrValidation)
	}

	now := s.clock.Now().UTC()
	item := &models.Item{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Title:       req.Title,
		Description: req.Description,
		Category:    defaultString(req.Category, "other"),
		Condition:   defaultString(req.Condition, "good"),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,
		PhotoURL:    req.PhotoURL,
		Status:      models.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(time.Duration(st.ItemLifetimeHours) * time.Hour),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("item created",
		slog.String("item_id", item.ID),
		slog.String("author_id", authorID))

	s.award(ctx, models.Award{UserID: authorID, Amount: st.KarmaPublish, Reason: models.ReasonPublish})

	return item, nil
}

// Get возвращает объявление по ID, предварительно применив ленивое истечение
// срока и увеличив счётчик просмотров.
func (s *Service) Get(ctx context.Context, id string) (*models.Item, error) {
	const op = "item.Get"
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.applyExpiry(ctx, item)

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.log.Warn("failed to increment views", sl.Err(err))
	} else {
		item.Views++
	}
	return item, nil
}

// List возвращает объявления по фильтру. Перед выборкой просроченные активные
// объявления переводятся в expired, чтобы фильтр по статусу видел актуальное состояние.
func (s *Service) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	const op = "item.List"
	now := s.clock.Now().UTC()
	if expired, err := s.repo.ExpireOverdue(ctx, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if expired > 0 {
		s.log.Info("expired overdue items", slog.Int("count", expired))
	}

	items, err := s.repo.ListItems(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// MarkTaken переводит активное объявление в taken и начисляет карму автору.
// Забрать вещь может любой пользователь, включая автора.
func (s *Service) MarkTaken(ctx context.Context, id, actorID string) (*models.Item, error) {
	const op = "item.MarkTaken"
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.applyExpiry(ctx, item)
	if item.Status != models.StatusActive {
		return nil, fmt.Errorf("%s: status is %s: %w", op, item.Status, apperr.ErrInvalidState)
	}

	now := s.clock.Now().UTC()
	rows, err := s.repo.MarkTaken(ctx, id, actorID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		// параллельная операция успела изменить статус первой
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidState)
	}
	item.Status = models.StatusTaken
	item.TakenBy = actorID
	item.TakenAt = &now
	item.UpdatedAt = now
	s.log.Info("item taken",
		slog.String("item_id", id),
		slog.String("actor_id", actorID))

	st, err := s.settings.Get(ctx)
	if err != nil {
		s.log.Warn("failed to load settings for karma award", sl.Err(err))
		return item, nil
	}
	s.award(ctx, models.Award{
		UserID: item.AuthorID,
		Amount: st.KarmaTaken,
		Reason: models.ReasonTaken,
		Pickup: now.Sub(item.CreatedAt),
	})

	return item, nil
}

// Extend продлевает объявление от текущего момента или от прежнего срока,
// смотря что позже: окно никогда не сокращается, просроченное объявление
// возвращается в active. Продлить может только автор. Скрытое объявление
// продлить нельзя, это терминальный статус для движка.
func (s *Service) Extend(ctx context.Context, id, actorID string) (*models.Item, error) {
	const op = "item.Extend"
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if item.AuthorID != actorID {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	s.applyExpiry(ctx, item)
	if item.Status == models.StatusHidden || item.Status == models.StatusTaken {
		return nil, fmt.Errorf("%s: status is %s: %w", op, item.Status, apperr.ErrInvalidState)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.clock.Now().UTC()
	base := item.ExpiresAt
	if now.After(base) {
		base = now
	}
	expiresAt := base.Add(time.Duration(st.ItemLifetimeHours) * time.Hour)

	rows, err := s.repo.ExtendItem(ctx, id, expiresAt, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrInvalidState)
	}
	item.Status = models.StatusActive
	item.ExpiresAt = expiresAt
	item.UpdatedAt = now
	s.log.Info("item extended",
		slog.String("item_id", id),
		slog.Time("expires_at", expiresAt))

	s.award(ctx, models.Award{UserID: actorID, Amount: st.KarmaExtend, Reason: models.ReasonExtend})

	return item, nil
}

// AutoHide скрывает объявление по решению автомодерации. Если объявление
// уже не активно, вызов ничего не меняет.
func (s *Service) AutoHide(ctx context.Context, id string) error {
	const op = "item.AutoHide"
	now := s.clock.Now().UTC()
	rows, err := s.repo.MarkHidden(ctx, id, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		s.log.Info("auto-hide skipped, item is not active", slog.String("item_id", id))
		return nil
	}
	s.log.Info("item hidden by auto-moderation", slog.String("item_id", id))
	return nil
}

// applyExpiry лениво переводит просроченное активное объявление в expired.
// Идемпотентно: на не-активных объявлениях ничего не делает, параллельные
// вызовы безопасны за счёт условия на статус в UPDATE.
func (s *Service) applyExpiry(ctx context.Context, item *models.Item) {
	if item.Status != models.StatusActive {
		return
	}
	now := s.clock.Now().UTC()
	if now.Before(item.ExpiresAt) {
		return
	}
	if _, err := s.repo.MarkExpired(ctx, item.ID, now); err != nil {
		s.log.Warn("failed to persist lazy expiry", sl.Err(err))
	}
	item.Status = models.StatusExpired
	item.UpdatedAt = now
}

// award начисляет карму после уже зафиксированного перехода.
// Сбой логируется и не откатывает переход.
func (s *Service) award(ctx context.Context, in models.Award) {
	if _, err := s.karma.Award(ctx, in); err != nil {
		s.log.Error("failed to award karma",
			slog.String("user_id", in.UserID),
			slog.String("reason", string(in.Reason)),
			sl.Err(err))
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
