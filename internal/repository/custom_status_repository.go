package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/persistence"
)

// CustomStatusRepository stores operator-defined status names. These are
// labels only; the lifecycle state machine does not consult them.
type CustomStatusRepository interface {
	Create(ctx context.Context, status *domain.CustomStatus) error
	Delete(ctx context.Context, id string) error
	GetByName(ctx context.Context, name string) (*domain.CustomStatus, error)
	List(ctx context.Context) ([]domain.CustomStatus, error)
}

type customStatusRepository struct {
	pool *pgxpool.Pool
}

// NewCustomStatusRepository builds the repository.
func NewCustomStatusRepository(pool *pgxpool.Pool) CustomStatusRepository {
	return &customStatusRepository{pool: pool}
}

func (r *customStatusRepository) Create(ctx context.Context, status *domain.CustomStatus) error {
	const query = `
        INSERT INTO custom_statuses (name, color)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		status.Name,
		status.Color,
	).Scan(&status.ID, &status.CreatedAt)
}

func (r *customStatusRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM custom_statuses WHERE id=$1`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customStatusRepository) GetByName(ctx context.Context, name string) (*domain.CustomStatus, error) {
	const query = `SELECT id, name, color, created_at FROM custom_statuses WHERE name=$1`
	var status domain.CustomStatus
	if err := persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, name).Scan(
		&status.ID,
		&status.Name,
		&status.Color,
		&status.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *customStatusRepository) List(ctx context.Context) ([]domain.CustomStatus, error) {
	const query = `SELECT id, name, color, created_at FROM custom_statuses ORDER BY name ASC`
	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomStatus
	for rows.Next() {
		var status domain.CustomStatus
		if err := rows.Scan(&status.ID, &status.Name, &status.Color, &status.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}
