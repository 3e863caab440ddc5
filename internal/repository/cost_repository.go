package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/persistence"
)

// CostRepository stores request cost line items. Rows are immutable once
// created; there is no update path.
type CostRepository interface {
	Create(ctx context.Context, cost *domain.RequestCost) error
	ListByRequest(ctx context.Context, requestID string) ([]domain.RequestCost, error)
}

type costRepository struct {
	pool *pgxpool.Pool
}

// NewCostRepository builds the repository.
func NewCostRepository(pool *pgxpool.Pool) CostRepository {
	return &costRepository{pool: pool}
}

func (r *costRepository) Create(ctx context.Context, cost *domain.RequestCost) error {
	const query = `
        INSERT INTO request_costs (request_id, added_by_id, description, amount, currency, cost_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		cost.RequestID,
		cost.AddedByID,
		cost.Description,
		cost.Amount,
		cost.Currency,
		cost.CostType,
	).Scan(&cost.ID, &cost.CreatedAt)
}

// ListByRequest returns cost items, newest first.
func (r *costRepository) ListByRequest(ctx context.Context, requestID string) ([]domain.RequestCost, error) {
	const query = `
        SELECT id, request_id, added_by_id, description, amount, currency, cost_type, created_at
        FROM request_costs WHERE request_id=$1 ORDER BY created_at DESC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RequestCost
	for rows.Next() {
		var cost domain.RequestCost
		if err := rows.Scan(
			&cost.ID,
			&cost.RequestID,
			&cost.AddedByID,
			&cost.Description,
			&cost.Amount,
			&cost.Currency,
			&cost.CostType,
			&cost.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, cost)
	}
	return result, rows.Err()
}
