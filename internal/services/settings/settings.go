// Package settings предоставляет настройки движка объявлений.
//
// Действующие значения лежат в таблице settings и накладываются на значения
// по умолчанию из конфига. Прочитанные настройки кешируются в redis на минуту,
// обновление инвалидирует кеш.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pomoechka/giveaway-service/internal/lib/clock"
	"github.com/pomoechka/giveaway-service/internal/lib/sl"
	"github.com/pomoechka/giveaway-service/internal/models"
)

const cacheKey = "settings"
const cacheTTL = time.Minute

// Repository определяет методы хранилища настроек.
type Repository interface {
	GetSettings(ctx context.Context) (map[string]string, error)
	UpsertSetting(ctx context.Context, key, value string, now time.Time) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service читает и обновляет настройки движка.
type Service struct {
	repo     Repository
	cache    Cache
	defaults models.Settings
	clock    clock.Clock
	log      *slog.Logger
}

// New создает новый Service с переданными хранилищем, кешем и значениями по умолчанию.
func New(repo Repository, cache Cache, defaults models.Settings, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		defaults: defaults,
		clock:    clk,
		log:      log,
	}
}

// Get возвращает действующие настройки движка.
// Ошибка кеша не фатальна: настройки перечитываются из хранилища.
func (s *Service) Get(ctx context.Context) (models.Settings, error) {
	var cached models.Settings
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read settings from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	raw, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("settings.Get: %w", err)
	}
	result := models.SettingsFromMap(raw, s.defaults)

	if err := s.cache.Set(cacheKey, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache settings", sl.Err(err))
	}
	return result, nil
}

// Update сохраняет переданные пары ключ-значение и инвалидирует кеш.
// Неизвестные ключи отклоняются на уровне обработчика.
func (s *Service) Update(ctx context.Context, values map[string]string) (models.Settings, error) {
	now := s.clock.Now().UTC()
	for key, value := range values {
		if err := s.repo.UpsertSetting(ctx, key, value, now); err != nil {
			return models.Settings{}, fmt.Errorf("settings.Update: %w", err)
		}
	}
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate settings cache", sl.Err(err))
	}
	s.log.Info("settings updated", slog.Int("keys", len(values)))

	raw, err := s.repo.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("settings.Update: %w", err)
	}
	return models.SettingsFromMap(raw, s.defaults), nil
}
