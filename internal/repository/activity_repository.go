package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/persistence"
)

// ActivityRepository stores the append-only request audit trail.
// Entries are never updated or deleted.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.RequestActivity) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.RequestActivity, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds the repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.RequestActivity) error {
	const query = `
        INSERT INTO request_activities (request_id, user_id, kind, description, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		activity.RequestID,
		activity.UserID,
		activity.Kind,
		activity.Description,
		activity.OldValue,
		activity.NewValue,
	).Scan(&activity.ID, &activity.CreatedAt)
}

// ListByRequest returns the full trail, newest first.
func (r *activityRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.RequestActivity, error) {
	const query = `
        SELECT id, request_id, user_id, kind, description, old_value, new_value, created_at
        FROM request_activities WHERE request_id=$1 ORDER BY created_at DESC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RequestActivity
	for rows.Next() {
		var activity domain.RequestActivity
		if err := rows.Scan(
			&activity.ID,
			&activity.RequestID,
			&activity.UserID,
			&activity.Kind,
			&activity.Description,
			&activity.OldValue,
			&activity.NewValue,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}
