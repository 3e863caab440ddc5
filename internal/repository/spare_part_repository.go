package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/persistence"
)

// SparePartRepository manages warehouse stock persistence.
type SparePartRepository interface {
	Create(ctx context.Context, part *domain.SparePart) error
	Update(ctx context.Context, part *domain.SparePart) error
	GetByID(ctx context.Context, id string) (*domain.SparePart, error)
	List(ctx context.Context, search string, departmentID *string, limit, offset int) ([]domain.SparePart, error)
	// AdjustQuantity applies a delta atomically and fails when stock would
	// go negative.
	AdjustQuantity(ctx context.Context, id string, delta int) (*domain.SparePart, error)
}

type sparePartRepository struct {
	pool *pgxpool.Pool
}

// NewSparePartRepository builds the repository.
func NewSparePartRepository(pool *pgxpool.Pool) SparePartRepository {
	return &sparePartRepository{pool: pool}
}

const sparePartColumns = `id, name, part_number, quantity, unit_price, currency, department_id, created_at, updated_at`

func (r *sparePartRepository) Create(ctx context.Context, part *domain.SparePart) error {
	const query = `
        INSERT INTO spare_parts (name, part_number, quantity, unit_price, currency, department_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query,
		part.Name,
		part.PartNumber,
		part.Quantity,
		part.UnitPrice,
		part.Currency,
		part.DepartmentID,
	).Scan(&part.ID, &part.CreatedAt, &part.UpdatedAt)
}

func (r *sparePartRepository) Update(ctx context.Context, part *domain.SparePart) error {
	const query = `
        UPDATE spare_parts SET name=$1, part_number=$2, quantity=$3, unit_price=$4,
            currency=$5, department_id=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := persistence.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		part.Name,
		part.PartNumber,
		part.Quantity,
		part.UnitPrice,
		part.Currency,
		part.DepartmentID,
		part.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sparePartRepository) GetByID(ctx context.Context, id string) (*domain.SparePart, error) {
	query := fmt.Sprintf(`SELECT %s FROM spare_parts WHERE id=$1`, sparePartColumns)
	var part domain.SparePart
	if err := scanSparePart(persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id), &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *sparePartRepository) List(ctx context.Context, search string, departmentID *string, limit, offset int) ([]domain.SparePart, error) {
	query := fmt.Sprintf(`SELECT %s FROM spare_parts`, sparePartColumns)
	args := []any{}
	clauses := []string{}

	if strings.TrimSpace(search) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(search))+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %[1]s OR LOWER(part_number) LIKE %[1]s)", placeholder))
	}
	if departmentID != nil {
		args = append(args, *departmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT %d OFFSET %d", limit, offset)

	rows, err := persistence.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SparePart
	for rows.Next() {
		var part domain.SparePart
		if err := scanSparePart(rows, &part); err != nil {
			return nil, err
		}
		result = append(result, part)
	}
	return result, rows.Err()
}

func (r *sparePartRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.SparePart, error) {
	query := fmt.Sprintf(`
        UPDATE spare_parts SET quantity = quantity + $1, updated_at=NOW()
        WHERE id=$2 AND quantity + $1 >= 0
        RETURNING %s`, sparePartColumns)
	var part domain.SparePart
	if err := scanSparePart(persistence.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, delta, id), &part); err != nil {
		return nil, err
	}
	return &part, nil
}

func scanSparePart(row pgx.Row, part *domain.SparePart) error {
	return row.Scan(
		&part.ID,
		&part.Name,
		&part.PartNumber,
		&part.Quantity,
		&part.UnitPrice,
		&part.Currency,
		&part.DepartmentID,
		&part.CreatedAt,
		&part.UpdatedAt,
	)
}
