package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/persistence"
)

// RequestFilter captures list query parameters.
type RequestFilter struct {
	Statuses      []domain.RequestStatus
	Priorities    []domain.RequestPriority
	DepartmentID  *string
	TechnicianID  *string
	Warranty      *domain.WarrantyStatus
	Overdue       *bool
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	SearchTerm    *string
	// VisibleToUserID restricts results to requests where the user is the
	// assigned technician or the original receiver.
	VisibleToUserID *string
	Limit           int
	Offset          int
}

// RequestRepository encapsulates request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.Request) error
	Update(ctx context.Context, request *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	GetByNumber(ctx context.Context, number string) (*domain.Request, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error)
	CountWithFilter(ctx context.Context, filter RequestFilter) (int, error)
	// NextDailySequence atomically increments and returns the per-day
	// counter used for request numbers. Safe under concurrent creation.
	NextDailySequence(ctx context.Context, day time.Time) (int, error)
	// ListOverdueIDs reconciles the persisted overdue flag against the SLA
	// clock in both directions and returns ids of unfinished requests whose
	// SLA due date has passed.
	ListOverdueIDs(ctx context.Context, now time.Time) ([]string, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates the repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, request_number, customer_id, product_id, department_id,
       assigned_technician_id, received_by_id, issue_description, execution_method,
       warranty_status, purchase_date, priority, status, sla_due_date, is_overdue,
       final_notes, customer_satisfaction, created_at, updated_at,
       assigned_at, started_at, completed_at, closed_at`

func (r *requestRepository) q(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *requestRepository) Create(ctx context.Context, request *domain.Request) error {
	const query = `
        INSERT INTO requests (request_number, customer_id, product_id, department_id,
            assigned_technician_id, received_by_id, issue_description, execution_method,
            warranty_status, purchase_date, priority, status, sla_due_date, is_overdue)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.q(ctx).QueryRow(ctx, query,
		request.RequestNumber,
		request.CustomerID,
		request.ProductID,
		request.DepartmentID,
		request.AssignedTechnicianID,
		request.ReceivedByID,
		request.IssueDescription,
		request.ExecutionMethod,
		request.WarrantyStatus,
		request.PurchaseDate,
		request.Priority,
		request.Status,
		request.SLADueDate,
		request.IsOverdue,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.Request) error {
	const query = `
        UPDATE requests SET department_id=$1, assigned_technician_id=$2, status=$3,
            priority=$4, sla_due_date=$5, is_overdue=$6, final_notes=$7,
            customer_satisfaction=$8, assigned_at=$9, started_at=$10,
            completed_at=$11, closed_at=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.q(ctx).Exec(ctx, query,
		request.DepartmentID,
		request.AssignedTechnicianID,
		request.Status,
		request.Priority,
		request.SLADueDate,
		request.IsOverdue,
		request.FinalNotes,
		request.CustomerSatisfaction,
		request.AssignedAt,
		request.StartedAt,
		request.CompletedAt,
		request.ClosedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id=$1`, requestColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *requestRepository) GetByNumber(ctx context.Context, number string) (*domain.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE request_number=$1`, requestColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *requestRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Request, error) {
	var request domain.Request
	if err := scanRequest(r.q(ctx).QueryRow(ctx, query, arg), &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.Request, error) {
	clauses, args := buildRequestClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM requests r
        LEFT JOIN customers c ON c.id = r.customer_id
        LEFT JOIN products p ON p.id = r.product_id
        WHERE %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d`,
		prefixed(requestColumns, "r."), strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

func (r *requestRepository) CountWithFilter(ctx context.Context, filter RequestFilter) (int, error) {
	clauses, args := buildRequestClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM requests r
        LEFT JOIN customers c ON c.id = r.customer_id
        LEFT JOIN products p ON p.id = r.product_id
        WHERE %s`, strings.Join(clauses, " AND "))

	var total int
	if err := r.q(ctx).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *requestRepository) NextDailySequence(ctx context.Context, day time.Time) (int, error) {
	const query = `
        INSERT INTO request_counters (day, counter) VALUES ($1, 1)
        ON CONFLICT (day) DO UPDATE SET counter = request_counters.counter + 1
        RETURNING counter`
	var seq int
	if err := r.q(ctx).QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *requestRepository) ListOverdueIDs(ctx context.Context, now time.Time) ([]string, error) {
	// A stale TRUE on a finished or re-dated request must clear, so the
	// flag is rewritten wherever it disagrees with the SLA clock.
	const query = `
        WITH reconciled AS (
            UPDATE requests
            SET is_overdue = (sla_due_date < $1 AND status NOT IN ($2, $3))
            WHERE is_overdue <> (sla_due_date < $1 AND status NOT IN ($2, $3))
            RETURNING id
        )
        SELECT id FROM requests
        WHERE sla_due_date < $1 AND status NOT IN ($2, $3)`
	rows, err := r.q(ctx).Query(ctx, query, now,
		domain.RequestStatusCompleted, domain.RequestStatusClosed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func buildRequestClauses(filter RequestFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("r.status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("r.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("r.department_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("r.assigned_technician_id=$%d", len(args)))
	}
	if filter.Warranty != nil {
		args = append(args, *filter.Warranty)
		clauses = append(clauses, fmt.Sprintf("r.warranty_status=$%d", len(args)))
	}
	if filter.Overdue != nil {
		args = append(args, *filter.Overdue)
		clauses = append(clauses, fmt.Sprintf("r.is_overdue=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("r.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("r.created_at <= $%d", len(args)))
	}
	if filter.VisibleToUserID != nil {
		args = append(args, *filter.VisibleToUserID)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(r.assigned_technician_id=%s OR r.received_by_id=%s)", placeholder, placeholder))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(r.request_number) LIKE %[1]s OR LOWER(r.issue_description) LIKE %[1]s OR LOWER(c.name) LIKE %[1]s OR c.phone LIKE %[1]s OR LOWER(p.name) LIKE %[1]s)",
			placeholder))
	}

	return clauses, args
}

func prefixed(columns, prefix string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

func scanRequest(row pgx.Row, request *domain.Request) error {
	return row.Scan(
		&request.ID,
		&request.RequestNumber,
		&request.CustomerID,
		&request.ProductID,
		&request.DepartmentID,
		&request.AssignedTechnicianID,
		&request.ReceivedByID,
		&request.IssueDescription,
		&request.ExecutionMethod,
		&request.WarrantyStatus,
		&request.PurchaseDate,
		&request.Priority,
		&request.Status,
		&request.SLADueDate,
		&request.IsOverdue,
		&request.FinalNotes,
		&request.CustomerSatisfaction,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.AssignedAt,
		&request.StartedAt,
		&request.CompletedAt,
		&request.ClosedAt,
	)
}

func scanRequests(rows pgx.Rows) ([]domain.Request, error) {
	var result []domain.Request
	for rows.Next() {
		var request domain.Request
		if err := scanRequest(rows, &request); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}
