package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pomoechka/giveaway-service/internal/apperr"
	"github.com/pomoechka/giveaway-service/internal/models"
)

// CreateReport вставляет жалобу. Уникальный индекс (item_id, reporter_id)
// гарантирует не больше одной жалобы от пользователя на объявление,
// нарушение возвращается как apperr.ErrConflict.
func (s *Storage) CreateReport(ctx context.Context, report *models.Report) error {
	const op = "storage.CreateReport"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO reports (id, item_id, reporter_id, reason, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		report.ID, report.ItemID, report.ReporterID, report.Reason, report.Status, report.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListReports возвращает жалобы, новые первыми. Пустой статус — все жалобы.
func (s *Storage) ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]*models.Report, error) {
	const op = "storage.ListReports"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, item_id, reporter_id, reason, status, created_at FROM reports`
	args := []any{limit}
	if status != "" {
		query += ` WHERE status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC LIMIT $1`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(&report.ID, &report.ItemID, &report.ReporterID,
			&report.Reason, &report.Status, &report.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateReportStatus меняет статус жалобы и возвращает обновлённую запись.
func (s *Storage) UpdateReportStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	const op = "storage.UpdateReportStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reports SET status = $2 WHERE id = $1
	          RETURNING id, item_id, reporter_id, reason, status, created_at`
	var report models.Report
	err := s.DB.QueryRowContext(ctx, query, id, status).Scan(&report.ID, &report.ItemID,
		&report.ReporterID, &report.Reason, &report.Status, &report.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &report, nil
}

// CountReports возвращает общее число жалоб и число жалоб в статусе pending.
func (s *Storage) CountReports(ctx context.Context) (total, pending int, err error) {
	const op = "storage.CountReports"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'pending') FROM reports`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total, &pending); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, pending, nil
}
