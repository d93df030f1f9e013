// Package analytics собирает сводную статистику сервиса.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// Repository определяет методы хранилища для сводной статистики.
type Repository interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int, error)
	CountItemsByStatus(ctx context.Context) (map[models.ItemStatus]int, error)
	CountReports(ctx context.Context) (total, pending int, err error)
	CountUsers(ctx context.Context) (int, error)
}

// Service считает сводную статистику по объявлениям, жалобам и пользователям.
type Service struct {
	repo  Repository
	clock clock.Clock
	log   *slog.Logger
}

// New создает новый Service.
func New(repo Repository, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		clock: clk,
		log:   log,
	}
}

// Snapshot возвращает сводку по сервису. Перед подсчётом просроченные
// активные объявления переводятся в expired, чтобы разбивка по статусам
// отражала фактическое состояние.
func (s *Service) Snapshot(ctx context.Context) (*models.Analytics, error) {
	const op = "analytics.Snapshot"
	now := s.clock.Now().UTC()
	if expired, err := s.repo.ExpireOverdue(ctx, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	} else if expired > 0 {
		s.log.Info("expired overdue items", slog.Int("count", expired))
	}

	byStatus, err := s.repo.CountItemsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	totalReports, pendingReports, err := s.repo.CountReports(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &models.Analytics{
		ActiveItems:    byStatus[models.StatusActive],
		TakenItems:     byStatus[models.StatusTaken],
		ExpiredItems:   byStatus[models.StatusExpired],
		HiddenItems:    byStatus[models.StatusHidden],
		TotalReports:   totalReports,
		PendingReports: pendingReports,
		TotalUsers:     totalUsers,
	}
	result.TotalItems = result.ActiveItems + result.TakenItems + result.ExpiredItems + result.HiddenItems
	return result, nil
}
