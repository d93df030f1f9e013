// Package karma реализует начисление кармы пользователям.
//
// Каждое начисление пишется в журнал аудита, обновляет счётчики статистики
// по причине начисления и перепроверяет достижения. Начисление выполняется
// после уже зафиксированного перехода объявления: сбой любого шага после
// прибавления кармы логируется, но не откатывает ни карму, ни переход.
package karma

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
	"github.com/pomoechka/giveaway-service/internal/services/achievement"
)

// FastPickupWindow порог "молниеносного" забора: вещь забрали
// быстрее чем через полчаса после публикации.
const FastPickupWindow = 30 * time.Minute

// Repository определяет методы хранилища для начисления кармы.
type Repository interface {
	// AddKarma прибавляет карму и возвращает новое значение.
	AddKarma(ctx context.Context, id string, amount int, now time.Time) (int, error)
	// CreateKarmaEvent пишет запись журнала начислений.
	CreateKarmaEvent(ctx context.Context, event *models.KarmaEvent) error
	// IncrementStat увеличивает именованный счётчик статистики.
	IncrementStat(ctx context.Context, id, stat string, delta int) error
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// RankPosition возвращает позицию пользователя в топе по карме.
	RankPosition(ctx context.Context, id string) (int, error)
	// SaveAchievements перезаписывает набор достижений.
	SaveAchievements(ctx context.Context, id string, achievements []string) error
}

// Ledger реализует начисление кармы и сопутствующие обновления статистики.
type Ledger struct {
	repo  Repository
	clock clock.Clock
	log   *slog.Logger
}

// New создает новый Ledger.
func New(repo Repository, clk clock.Clock, log *slog.Logger) *Ledger {
	return &Ledger{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// Award прибавляет карму пользователю и возвращает новое значение.
// Журнал, статистика и достижения обновляются по принципу best-effort:
// их сбои логируются и не считаются ошибкой начисления.
func (l *Ledger) Award(ctx context.Context, in models.Award) (int, error) {
	const op = "karma.Award"
	if in.Amount <= 0 {
		return 0, fmt.Errorf("%s: amount must be positive: %w", op, apperr.ErrValidation)
	}
	switch in.Reason {
	case models.ReasonPublish, models.ReasonTaken, models.ReasonExtend, models.ReasonThanks:
	default:
		return 0, fmt.Errorf("%s: unknown reason %q: %w", op, in.Reason, apperr.ErrValidation)
	}

	now := l.clock.Now().UTC()
	total, err := l.repo.AddKarma(ctx, in.UserID, in.Amount, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	l.log.Info("karma awarded",
		slog.String("user_id", in.UserID),
		slog.Int("amount", in.Amount),
		slog.String("reason", string(in.Reason)))

	event := &models.KarmaEvent{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Amount:    in.Amount,
		Reason:    in.Reason,
		CreatedAt: now,
	}
	if err := l.repo.CreateKarmaEvent(ctx, event); err != nil {
		l.log.Warn("failed to record karma event", sl.Err(err))
	}

	l.applyStats(ctx, in)
	l.refreshAchievements(ctx, in.UserID)

	return total, nil
}

// applyStats увеличивает счётчики статистики, соответствующие причине начисления.
func (l *Ledger) applyStats(ctx context.Context, in models.Award) {
	increment := func(stat string) {
		if err := l.repo.IncrementStat(ctx, in.UserID, stat, 1); err != nil {
			l.log.Warn("failed to increment stat", slog.String("stat", stat), sl.Err(err))
		}
	}
	switch in.Reason {
	case models.ReasonPublish:
		increment("published")
	case models.ReasonTaken:
		increment("taken")
		if in.Pickup > 0 && in.Pickup < FastPickupWindow {
			increment("fast_pickups")
		}
	case models.ReasonThanks:
		increment("thanks")
	case models.ReasonExtend:
		// продление не меняет счётчиков
	}
}

// refreshAchievements перечитывает пользователя и сохраняет набор достижений,
// если после начисления открылись новые.
func (l *Ledger) refreshAchievements(ctx context.Context, userID string) {
	user, err := l.repo.GetUser(ctx, userID)
	if err != nil {
		l.log.Warn("failed to reload user for achievements", sl.Err(err))
		return
	}
	rank, err := l.repo.RankPosition(ctx, userID)
	if err != nil {
		l.log.Warn("failed to get rank position", sl.Err(err))
	} else {
		user.Rank = rank
	}

	unlocked := achievement.Evaluate(user)
	if len(unlocked) == len(user.Achievements) {
		return
	}
	if err := l.repo.SaveAchievements(ctx, userID, unlocked); err != nil {
		l.log.Warn("failed to save achievements", sl.Err(err))
		return
	}
	l.log.Info("achievements unlocked",
		slog.String("user_id", userID),
		slog.Int("total", len(unlocked)))
}
