package repository

import (
	"context"
	"fmt"

	"github.com/pomoechka/giveaway-service/internal/models"
)

// CreateKarmaEvent пишет запись в журнал начислений кармы.
func (s *Storage) CreateKarmaEvent(ctx context.Context, event *models.KarmaEvent) error {
	const op = "storage.CreateKarmaEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO karma_events (id, user_id, amount, reason, created_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		event.ID, event.UserID, event.Amount, event.Reason, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
