package repository

import (
	"context"
	"fmt"
	"time"

	"ecochampions/database"
	"ecochampions/models"

	"github.com/google/uuid"
)

// RecyclingLogRepository implements the RecyclingLogRepository interface
type RecyclingLogRepository struct {
	q queryable
}

// NewRecyclingLogRepository creates a new recycling log repository
func NewRecyclingLogRepository(db *database.DB) *RecyclingLogRepository {
	return &RecyclingLogRepository{q: db.Pool}
}

// newRecyclingLogRepositoryWithTx creates a new recycling log repository with a transaction
func newRecyclingLogRepositoryWithTx(tx queryable) *RecyclingLogRepository {
	return &RecyclingLogRepository{q: tx}
}

// Create inserts a recycling log
func (r *RecyclingLogRepository) Create(ctx context.Context, entry *models.RecyclingLog) error {
	query := `
		INSERT INTO recycling_logs (user_id, material_type, weight, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query, entry.UserID, entry.MaterialType, entry.Weight, entry.PhotoURL).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recycling log for user %s: %w", entry.UserID, mapPgError(err))
	}

	return nil
}

// CountByUser returns the lifetime number of logs for a user
func (r *RecyclingLogRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM recycling_logs WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count recycling logs for user %s: %w", userID, err)
	}
	return count, nil
}

// GetByUserSince returns a user's logs created at or after since, oldest first
func (r *RecyclingLogRepository) GetByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.RecyclingLog, error) {
	query := `
		SELECT id, user_id, material_type, weight, photo_url, created_at
		FROM recycling_logs
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recycling logs for user %s: %w", userID, err)
	}
	defer rows.Close()

	var logs []*models.RecyclingLog
	for rows.Next() {
		var l models.RecyclingLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.MaterialType, &l.Weight, &l.PhotoURL, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recycling log: %w", err)
		}
		logs = append(logs, &l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recycling logs: %w", err)
	}

	return logs, nil
}
