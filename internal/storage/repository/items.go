package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/models"
)

const itemColumns = `id, author_id, title, description, category, condition, latitude, longitude,
	address, photo_url, status, views, reports_count, created_at, updated_at, expires_at, taken_by, taken_at`

func scanItem(row interface{ Scan(dest ...any) error }) (*models.Item, error) {
	var item models.Item
	var takenBy sql.NullString
	var takenAt sql.NullTime
	if err := row.Scan(&item.ID, &item.AuthorID, &item.Title, &item.Description, &item.Category,
		&item.Condition, &item.Latitude, &item.Longitude, &item.Address, &item.PhotoURL,
		&item.Status, &item.Views, &item.ReportsCount, &item.CreatedAt, &item.UpdatedAt,
		&item.ExpiresAt, &takenBy, &takenAt); err != nil {
		return nil, err
	}
	if takenBy.Valid {
		item.TakenBy = takenBy.String
	}
	if takenAt.Valid {
		t := takenAt.Time
		item.TakenAt = &t
	}
	return &item, nil
}

// CreateItem вставляет новое объявление.
func (s *Storage) CreateItem(ctx context.Context, item *models.Item) error {
	const op = "storage.CreateItem"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO items (id, author_id, title, description, category, condition,
	              latitude, longitude, address, photo_url, status, views, reports_count,
	              created_at, updated_at, expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, 0, $12, $13, $14)`
	_, err := s.DB.ExecContext(ctx, query,
		item.ID, item.AuthorID, item.Title, item.Description, item.Category, item.Condition,
		item.Latitude, item.Longitude, item.Address, item.PhotoURL, item.Status,
		item.CreatedAt, item.UpdatedAt, item.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetItem возвращает объявление по ID.
func (s *Storage) GetItem(ctx context.Context, id string) (*models.Item, error) {
	const op = "storage.GetItem"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	item, err := scanItem(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// ListItems возвращает объявления по фильтру, новые первыми.
func (s *Storage) ListItems(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	const op = "storage.ListItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if filter.Category != "" && filter.Category != "all" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.AuthorID != "" {
		conds = append(conds, "author_id = "+arg(filter.AuthorID))
	}
	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		conds = append(conds, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(address) LIKE %s)", p, p, p))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(limit)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkExpired переводит активное объявление с истёкшим сроком в expired.
// Идемпотентно: повторный вызов на уже истёкшем объявлении не меняет строк.
func (s *Storage) MarkExpired(ctx context.Context, id string, now time.Time) (int, error) {
	const op = "storage.MarkExpired"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET status = 'expired', updated_at = $2
	          WHERE id = $1 AND status = 'active' AND expires_at <= $2`
	result, err := s.DB.ExecContext(ctx, query, id, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ExpireOverdue переводит в expired все активные объявления с истёкшим сроком.
// Вызывается на путях чтения списков вместо фонового процесса.
func (s *Storage) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.ExpireOverdue"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET status = 'expired', updated_at = $1
	          WHERE status = 'active' AND expires_at <= $1`
	result, err := s.DB.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkTaken переводит активное объявление в taken. Условие на статус гарантирует,
// что из двух одновременных попыток пройдёт только одна.
func (s *Storage) MarkTaken(ctx context.Context, id, takenBy string, takenAt time.Time) (int, error) {
	const op = "storage.MarkTaken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET status = 'taken', taken_by = $2, taken_at = $3, updated_at = $3
	          WHERE id = $1 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, id, takenBy, takenAt)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ExtendItem продлевает срок объявления и возвращает его в active.
// Допустимо только из статусов active и expired.
func (s *Storage) ExtendItem(ctx context.Context, id string, expiresAt, now time.Time) (int, error) {
	const op = "storage.ExtendItem"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET status = 'active', expires_at = $2, updated_at = $3
	          WHERE id = $1 AND status IN ('active', 'expired')`
	result, err := s.DB.ExecContext(ctx, query, id, expiresAt, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// MarkHidden скрывает активное объявление по решению автомодерации.
func (s *Storage) MarkHidden(ctx context.Context, id string, now time.Time) (int, error) {
	const op = "storage.MarkHidden"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET status = 'hidden', updated_at = $2
	          WHERE id = $1 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, id, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// IncrementViews увеличивает счётчик просмотров объявления.
func (s *Storage) IncrementViews(ctx context.Context, id string) error {
	const op = "storage.IncrementViews"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET views = views + 1 WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IncrementReports увеличивает счётчик жалоб и возвращает новое значение.
func (s *Storage) IncrementReports(ctx context.Context, id string) (int, error) {
	const op = "storage.IncrementReports"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE items SET reports_count = reports_count + 1, updated_at = now()
	          WHERE id = $1 RETURNING reports_count`
	var count int
	err := s.DB.QueryRowContext(ctx, query, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountItemsByStatus возвращает количество объявлений в разбивке по статусам.
func (s *Storage) CountItemsByStatus(ctx context.Context) (map[models.ItemStatus]int, error) {
	const op = "storage.CountItemsByStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT status, COUNT(*) FROM items GROUP BY status`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[models.ItemStatus]int)
	for rows.Next() {
		var status models.ItemStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
