// Package user реализует профили, таблицу лидеров и благодарности.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

const leaderboardCacheKey = "leaderboard"
const leaderboardCacheTTL = time.Minute
const leaderboardLimit = 20

// Repository определяет методы хранилища пользователей.
type Repository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetOrCreateUser(ctx context.Context, id, name, username string, now time.Time) (*models.User, error)
	RankPosition(ctx context.Context, id string) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// KarmaLedger начисляет карму за благодарности.
type KarmaLedger interface {
	Award(ctx context.Context, in models.Award) (int, error)
}

// Service реализует операции над пользователями.
type Service struct {
	repo  Repository
	cache Cache
	karma KarmaLedger
	log   *slog.Logger

	// размер начисления за благодарность, из настроек движка
	settings SettingsProvider
}

// SettingsProvider возвращает действующие настройки движка.
type SettingsProvider interface {
	Get(ctx context.Context) (models.Settings, error)
}

// New создает новый Service.
func New(repo Repository, cache Cache, karma KarmaLedger, settings SettingsProvider, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		karma:    karma,
		settings: settings,
		log:      log,
	}
}

// Profile возвращает профиль пользователя вместе с позицией в топе по карме.
func (s *Service) Profile(ctx context.Context, id string) (*models.User, error) {
	const op = "user.Profile"
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rank, err := s.repo.RankPosition(ctx, id)
	if err != nil {
		s.log.Warn("failed to get rank position", sl.Err(err))
	} else {
		user.Rank = rank
	}
	return user, nil
}

// Leaderboard возвращает топ пользователей по карме.
// Результат кешируется на минуту, ошибки кеша не фатальны.
func (s *Service) Leaderboard(ctx context.Context) ([]*models.User, error) {
	const op = "user.Leaderboard"
	var cached []*models.User
	found, err := s.cache.Get(leaderboardCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read leaderboard from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	users, err := s.repo.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i, u := range users {
		u.Rank = i + 1
	}

	if err := s.cache.Set(leaderboardCacheKey, users, leaderboardCacheTTL); err != nil {
		s.log.Warn("failed to cache leaderboard", sl.Err(err))
	}
	return users, nil
}

// Thanks начисляет карму получателю от имени отправителя.
// Поблагодарить самого себя нельзя.
func (s *Service) Thanks(ctx context.Context, fromID, toID string) (int, error) {
	const op = "user.Thanks"
	if fromID == toID {
		return 0, fmt.Errorf("%s: cannot thank yourself: %w", op, apperr.ErrValidation)
	}
	if _, err := s.repo.GetUser(ctx, toID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	total, err := s.karma.Award(ctx, models.Award{
		UserID: toID,
		Amount: st.KarmaThanks,
		Reason: models.ReasonThanks,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("thanks sent",
		slog.String("from_id", fromID),
		slog.String("to_id", toID))
	return total, nil
}
