package repository

import (
	"context"
	"fmt"
	"time"
)

// GetSettings возвращает все пары ключ-значение из таблицы settings.
func (s *Storage) GetSettings(ctx context.Context) (map[string]string, error) {
	const op = "storage.GetSettings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertSetting записывает значение настройки по ключу.
func (s *Storage) UpsertSetting(ctx context.Context, key, value string, now time.Time) error {
	const op = "storage.UpsertSetting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, $3)
	          ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`
	if _, err := s.DB.ExecContext(ctx, query, key, value, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
