package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/models"
)

const userColumns = `id, name, username, karma, stats_published, stats_taken, stats_saved_kg,
	stats_fast_pickups, stats_thanks, stats_reliability, achievements, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var user models.User
	var achievements string
	if err := row.Scan(&user.ID, &user.Name, &user.Username, &user.Karma,
		&user.Stats.Published, &user.Stats.Taken, &user.Stats.SavedKg,
		&user.Stats.FastPickups, &user.Stats.Thanks, &user.Stats.Reliability,
		&achievements, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	if achievements != "" {
		if err := json.Unmarshal([]byte(achievements), &user.Achievements); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// GetUser возвращает пользователя по ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// GetOrCreateUser возвращает пользователя, создавая запись при первом обращении.
func (s *Storage) GetOrCreateUser(ctx context.Context, id, name, username string, now time.Time) (*models.User, error) {
	const op = "storage.GetOrCreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if name == "" {
		name = "Пользователь"
	}
	query := `INSERT INTO users (id, name, username, karma, achievements, created_at, updated_at)
	          VALUES ($1, $2, $3, 0, '[]', $4, $4)
	          ON CONFLICT (id) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, id, name, username, now); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetUser(ctx, id)
}

// AddKarma прибавляет карму пользователю и возвращает новое значение.
func (s *Storage) AddKarma(ctx context.Context, id string, amount int, now time.Time) (int, error) {
	const op = "storage.AddKarma"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET karma = karma + $2, updated_at = $3 WHERE id = $1 RETURNING karma`
	var karma int
	err := s.DB.QueryRowContext(ctx, query, id, amount, now).Scan(&karma)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return karma, nil
}

// statColumns белый список колонок счётчиков статистики.
var statColumns = map[string]string{
	"published":    "stats_published",
	"taken":        "stats_taken",
	"saved_kg":     "stats_saved_kg",
	"fast_pickups": "stats_fast_pickups",
	"thanks":       "stats_thanks",
	"reliability":  "stats_reliability",
}

// IncrementStat увеличивает именованный счётчик статистики пользователя.
func (s *Storage) IncrementStat(ctx context.Context, id, stat string, delta int) error {
	const op = "storage.IncrementStat"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	column, ok := statColumns[stat]
	if !ok {
		return fmt.Errorf("%s: unknown stat %q", op, stat)
	}
	query := fmt.Sprintf(`UPDATE users SET %s = %s + $2, updated_at = now() WHERE id = $1`, column, column)
	if _, err := s.DB.ExecContext(ctx, query, id, delta); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveAchievements перезаписывает набор достижений пользователя.
func (s *Storage) SaveAchievements(ctx context.Context, id string, achievements []string) error {
	const op = "storage.SaveAchievements"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	data, err := json.Marshal(achievements)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	query := `UPDATE users SET achievements = $2, updated_at = now() WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id, string(data)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Leaderboard возвращает пользователей с наибольшей кармой.
func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	const op = "storage.Leaderboard"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY karma DESC, id LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RankPosition возвращает позицию пользователя в топе по карме (с единицы).
func (s *Storage) RankPosition(ctx context.Context, id string) (int, error) {
	const op = "storage.RankPosition"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT 1 + COUNT(*) FROM users
	          WHERE karma > (SELECT karma FROM users WHERE id = $1)`
	var rank int
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&rank); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rank, nil
}

// CountUsers возвращает общее количество пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// IsAdmin проверяет, есть ли пользователь в таблице админов.
func (s *Storage) IsAdmin(ctx context.Context, id string) (bool, error) {
	const op = "storage.IsAdmin"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
