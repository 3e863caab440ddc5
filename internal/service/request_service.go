package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/aftersales-service/internal/authz"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/repository"
	"github.com/spec-kit/aftersales-service/internal/routing"
	"github.com/spec-kit/aftersales-service/internal/sla"
	apperrors "github.com/spec-kit/aftersales-service/pkg/util/errorutil"
)

// TxRunner runs a function inside a single storage transaction.
// persistence.Postgres satisfies it; tests substitute a passthrough.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RequestService is the lifecycle engine: it owns every transition on a
// request and is the only writer of status, assignment and the derived
// timestamps. Each mutation and its audit entry commit in one transaction;
// notification fan-out runs after commit via the event dispatcher.
type RequestService struct {
	tx          TxRunner
	requests    repository.RequestRepository
	activities  repository.ActivityRepository
	costs       repository.CostRepository
	customers   repository.CustomerRepository
	products    repository.ProductRepository
	departments repository.DepartmentRepository
	users       repository.UserRepository
	router      *routing.Router
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// RequestDependencies bundles collaborators for the lifecycle engine.
type RequestDependencies struct {
	Tx             TxRunner
	RequestRepo    repository.RequestRepository
	ActivityRepo   repository.ActivityRepository
	CostRepo       repository.CostRepository
	CustomerRepo   repository.CustomerRepository
	ProductRepo    repository.ProductRepository
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	Router         *routing.Router
	Dispatcher     events.Dispatcher
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	router := deps.Router
	if router == nil {
		router = routing.NewDefaultRouter()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &RequestService{
		tx:          deps.Tx,
		requests:    deps.RequestRepo,
		activities:  deps.ActivityRepo,
		costs:       deps.CostRepo,
		customers:   deps.CustomerRepo,
		products:    deps.ProductRepo,
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		router:      router,
		dispatcher:  deps.Dispatcher,
		now:         now,
	}
}

// CreateInput describes request creation payload.
type CreateInput struct {
	CustomerID       string
	ProductID        *string
	IssueDescription string
	ExecutionMethod  domain.ExecutionMethod
	WarrantyStatus   domain.WarrantyStatus
	PurchaseDate     *time.Time
	Priority         domain.RequestPriority
}

// ListInput describes list filters; scoping by the acting user happens on
// top of these.
type ListInput struct {
	Statuses     []domain.RequestStatus
	Priorities   []domain.RequestPriority
	DepartmentID *string
	TechnicianID *string
	Warranty     *domain.WarrantyStatus
	Overdue      *bool
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	SearchTerm   *string
	Page         int
	Limit        int
}

// ListResult carries one page plus the unpaged total.
type ListResult struct {
	Requests []domain.Request
	Total    int
	Page     int
	Limit    int
}

// RequestDetail is the eager-loaded single-request view.
type RequestDetail struct {
	Request    *domain.Request
	Customer   *domain.Customer
	Product    *domain.Product
	Department *domain.Department
	Technician *domain.User
	Receiver   *domain.User
	Activities []domain.RequestActivity
	Costs      []domain.RequestCost
}

// CostInput describes a cost line item payload.
type CostInput struct {
	Description string
	Amount      float64
	Currency    string
	CostType    domain.CostType
}

// Create validates the intake payload, resolves the department, mints the
// request number and records the request with its audit entry.
func (s *RequestService) Create(ctx context.Context, input CreateInput, actor *domain.User) (*domain.Request, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, apperrors.NewValidationError("customer_id is required", nil)
	}
	if strings.TrimSpace(input.IssueDescription) == "" {
		return nil, apperrors.NewValidationError("issue_description is required", nil)
	}
	if input.ExecutionMethod != domain.ExecutionOnSite && input.ExecutionMethod != domain.ExecutionWorkshop {
		return nil, apperrors.NewValidationError("execution_method must be ON_SITE or WORKSHOP", nil)
	}
	if input.WarrantyStatus != domain.WarrantyUnderWarranty && input.WarrantyStatus != domain.WarrantyOutOfWarranty {
		return nil, apperrors.NewValidationError("warranty_status must be UNDER_WARRANTY or OUT_OF_WARRANTY", nil)
	}

	customer, err := s.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("customer does not exist", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}

	departmentID, err := s.resolveDepartment(ctx, input)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.RequestPriorityNormal
	}

	now := s.now()
	seq, err := s.requests.NextDailySequence(ctx, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	request := &domain.Request{
		RequestNumber:    fmt.Sprintf("REQ%s-%03d", now.Format("060102"), seq),
		CustomerID:       customer.ID,
		ProductID:        input.ProductID,
		DepartmentID:     departmentID,
		ReceivedByID:     actor.ID,
		IssueDescription: strings.TrimSpace(input.IssueDescription),
		ExecutionMethod:  input.ExecutionMethod,
		WarrantyStatus:   input.WarrantyStatus,
		PurchaseDate:     input.PurchaseDate,
		Priority:         priority,
		Status:           domain.RequestStatusNew,
		SLADueDate:       sla.DueDate(input.WarrantyStatus, input.ExecutionMethod, now),
	}

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Create(txCtx, request); err != nil {
			return err
		}
		return s.activities.Create(txCtx, &domain.RequestActivity{
			RequestID:   request.ID,
			UserID:      actor.ID,
			Kind:        domain.ActivityCreated,
			Description: fmt.Sprintf("request %s created", request.RequestNumber),
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRequestCreated, request.ID, actor, events.RequestCreatedPayload{
		RequestNumber: request.RequestNumber,
		DepartmentID:  request.DepartmentID,
		CustomerID:    request.CustomerID,
		Priority:      request.Priority,
		IssuePreview:  preview(request.IssueDescription, 120),
	})
	return request, nil
}

// List returns a page of requests visible to the acting user. An overdue
// scan runs first so the returned page carries fresh overdue flags; rows
// outside the page keep their persisted flag until a later scan.
func (s *RequestService) List(ctx context.Context, input ListInput, actor *domain.User) (*ListResult, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}

	now := s.now()
	if _, err := s.requests.ListOverdueIDs(ctx, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	page := input.Page
	if page <= 0 {
		page = 1
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	filter := repository.RequestFilter{
		Statuses:     input.Statuses,
		Priorities:   input.Priorities,
		DepartmentID: input.DepartmentID,
		TechnicianID: input.TechnicianID,
		Warranty:     input.Warranty,
		Overdue:      input.Overdue,
		CreatedFrom:  input.CreatedFrom,
		CreatedTo:    input.CreatedTo,
		SearchTerm:   input.SearchTerm,
		Limit:        limit,
		Offset:       (page - 1) * limit,
	}
	s.applyScope(&filter, actor)

	requests, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total, err := s.requests.CountWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	for i := range requests {
		requests[i].IsOverdue = sla.Overdue(requests[i].SLADueDate, requests[i].Status, now)
	}

	return &ListResult{Requests: requests, Total: total, Page: page, Limit: limit}, nil
}

// GetByID returns the request with its nested customer, product,
// department, technician, receiver, activity history and cost history.
// The same visibility scope as List applies.
func (s *RequestService) GetByID(ctx context.Context, id string, actor *domain.User) (*RequestDetail, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, apperrors.NewForbidden("request outside your visibility scope")
	}

	detail := &RequestDetail{Request: request}

	if detail.Customer, err = s.customers.GetByID(ctx, request.CustomerID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if request.ProductID != nil {
		if detail.Product, err = s.products.GetByID(ctx, *request.ProductID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	if detail.Department, err = s.departments.GetByID(ctx, request.DepartmentID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if request.AssignedTechnicianID != nil {
		if detail.Technician, err = s.users.GetByID(ctx, *request.AssignedTechnicianID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}
	if detail.Receiver, err = s.users.GetByID(ctx, request.ReceivedByID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	if detail.Activities, err = s.activities.ListByRequest(ctx, request.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if detail.Costs, err = s.costs.ListByRequest(ctx, request.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return detail, nil
}

// UpdateStatus moves a request through the lifecycle state machine.
// Technicians may touch their own requests but never change status.
func (s *RequestService) UpdateStatus(ctx context.Context, id string, newStatus domain.RequestStatus, comment string, actor *domain.User) (*domain.Request, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, apperrors.NewForbidden("request outside your visibility scope")
	}
	if actor.Role == domain.RoleTechnician || !authz.Can(actor.Role, authz.ActionChangeStatus) {
		return nil, apperrors.NewForbidden("your role cannot change request status")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	if !domain.CanTransition(request.Status, newStatus) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("transition %s -> %s is not permitted", request.Status, newStatus), nil)
	}

	now := s.now()
	oldStatus := request.Status
	request.Status = newStatus
	s.stampStatus(request, newStatus, now)

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Update(txCtx, request); err != nil {
			return err
		}
		return s.activities.Create(txCtx, &domain.RequestActivity{
			RequestID:   request.ID,
			UserID:      actor.ID,
			Kind:        domain.ActivityStatusChange,
			Description: statusChangeDescription(oldStatus, newStatus, comment),
			OldValue:    map[string]any{"status": oldStatus},
			NewValue:    map[string]any{"status": newStatus, "comment": comment},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRequestStatusChanged, request.ID, actor, events.RequestStatusChangedPayload{
		RequestNumber:        request.RequestNumber,
		OldStatus:            oldStatus,
		NewStatus:            newStatus,
		Comment:              comment,
		DepartmentID:         request.DepartmentID,
		AssignedTechnicianID: request.AssignedTechnicianID,
	})
	return request, nil
}

// AssignTechnician places a request with an active technician and forces
// the status to ASSIGNED. Non-manager-level assigners are confined to
// technicians of their own department.
func (s *RequestService) AssignTechnician(ctx context.Context, id, technicianID string, actor *domain.User) (*domain.Request, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	if !authz.CanAssignTechnicians(actor.Role) {
		return nil, apperrors.NewForbidden("your role cannot assign technicians")
	}

	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if technician.Role != domain.RoleTechnician {
		return nil, apperrors.NewValidationError("target user is not a technician", map[string]any{"technician_id": technicianID})
	}
	if !technician.Active {
		return nil, apperrors.NewValidationError("technician is inactive", map[string]any{"technician_id": technicianID})
	}

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, apperrors.NewForbidden("request outside your visibility scope")
	}
	if !authz.IsManagerLevel(actor.Role) && !technician.InDepartment(request.DepartmentID) {
		return nil, apperrors.NewForbidden("technician belongs to another department")
	}
	if request.Status.IsTerminal() {
		return nil, apperrors.NewValidationError("closed requests cannot be reassigned", nil)
	}

	now := s.now()
	prevTechnician := request.AssignedTechnicianID
	request.AssignedTechnicianID = &technician.ID
	request.AssignedAt = &now
	request.Status = domain.RequestStatusAssigned

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Update(txCtx, request); err != nil {
			return err
		}
		return s.activities.Create(txCtx, &domain.RequestActivity{
			RequestID:   request.ID,
			UserID:      actor.ID,
			Kind:        domain.ActivityAssignment,
			Description: fmt.Sprintf("assigned to %s", technician.Name),
			OldValue:    map[string]any{"technician_id": prevTechnician},
			NewValue:    map[string]any{"technician_id": technician.ID},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRequestAssigned, request.ID, actor, events.RequestAssignedPayload{
		RequestNumber:    request.RequestNumber,
		TechnicianID:     technician.ID,
		PrevTechnicianID: prevTechnician,
	})
	return request, nil
}

// AddCost attaches an immutable cost line item. Under-warranty requests
// accept costs from manager-level roles only.
func (s *RequestService) AddCost(ctx context.Context, id string, input CostInput, actor *domain.User) (*domain.RequestCost, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("description is required", nil)
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"amount": input.Amount})
	}
	if input.CostType == "" {
		return nil, apperrors.NewValidationError("cost_type is required", nil)
	}

	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, request) {
		return nil, apperrors.NewForbidden("request outside your visibility scope")
	}
	if request.WarrantyStatus == domain.WarrantyUnderWarranty && !authz.IsManagerLevel(actor.Role) {
		return nil, apperrors.NewForbidden("only manager-level roles may add costs to under-warranty requests")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	cost := &domain.RequestCost{
		RequestID:   request.ID,
		AddedByID:   actor.ID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Currency:    currency,
		CostType:    input.CostType,
	}

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.costs.Create(txCtx, cost); err != nil {
			return err
		}
		return s.activities.Create(txCtx, &domain.RequestActivity{
			RequestID:   request.ID,
			UserID:      actor.ID,
			Kind:        domain.ActivityCostAdded,
			Description: fmt.Sprintf("cost added: %s %.2f %s", cost.Description, cost.Amount, cost.Currency),
			NewValue:    map[string]any{"amount": cost.Amount, "currency": cost.Currency, "cost_type": cost.CostType},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRequestCostAdded, request.ID, actor, events.RequestCostAddedPayload{
		RequestNumber:        request.RequestNumber,
		CostID:               cost.ID,
		Amount:               cost.Amount,
		Currency:             cost.Currency,
		CostType:             cost.CostType,
		AssignedTechnicianID: request.AssignedTechnicianID,
	})
	return cost, nil
}

// Close finishes a completed request, storing final notes and the customer
// satisfaction score.
func (s *RequestService) Close(ctx context.Context, id string, finalNotes *string, satisfaction *int, actor *domain.User) (*domain.Request, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("acting user required")
	}
	request, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canClose(actor, request) {
		return nil, apperrors.NewForbidden("your role cannot close requests")
	}
	if request.Status != domain.RequestStatusCompleted {
		return nil, apperrors.NewValidationError("only completed requests can be closed", map[string]any{"status": request.Status})
	}
	if satisfaction != nil && (*satisfaction < 1 || *satisfaction > 5) {
		return nil, apperrors.NewValidationError("customer_satisfaction must be between 1 and 5", nil)
	}

	now := s.now()
	request.Status = domain.RequestStatusClosed
	s.stampStatus(request, domain.RequestStatusClosed, now)
	request.FinalNotes = finalNotes
	request.CustomerSatisfaction = satisfaction

	err = s.runTx(ctx, func(txCtx context.Context) error {
		if err := s.requests.Update(txCtx, request); err != nil {
			return err
		}
		return s.activities.Create(txCtx, &domain.RequestActivity{
			RequestID:   request.ID,
			UserID:      actor.ID,
			Kind:        domain.ActivityStatusChange,
			Description: statusChangeDescription(domain.RequestStatusCompleted, domain.RequestStatusClosed, ""),
			OldValue:    map[string]any{"status": domain.RequestStatusCompleted},
			NewValue:    map[string]any{"status": domain.RequestStatusClosed},
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventRequestClosed, request.ID, actor, events.RequestClosedPayload{
		RequestNumber:        request.RequestNumber,
		AssignedTechnicianID: request.AssignedTechnicianID,
		CustomerSatisfaction: satisfaction,
	})
	return request, nil
}

func (s *RequestService) resolveDepartment(ctx context.Context, input CreateInput) (string, error) {
	if input.ProductID != nil && *input.ProductID != "" {
		product, err := s.products.GetByID(ctx, *input.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return "", apperrors.NewValidationError("product does not exist", map[string]any{"product_id": *input.ProductID})
			}
			return "", apperrors.MapError(err)
		}
		return product.DepartmentID, nil
	}

	name := s.router.Resolve(input.IssueDescription)
	dept, err := s.departments.GetByName(ctx, name)
	if err == nil {
		return dept.ID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", apperrors.MapError(err)
	}
	// routed department missing from the store; fall back explicitly
	fallback, err := s.departments.GetByName(ctx, s.router.Fallback())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewValidationError("no department available for routing", map[string]any{"routed": name})
		}
		return "", apperrors.MapError(err)
	}
	return fallback.ID, nil
}

func (s *RequestService) getRequest(ctx context.Context, id string) (*domain.Request, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// applyScope narrows a list filter to what the acting user may see:
// manager-level roles see everything, technicians see their own work, and
// everyone else is confined to their department.
func (s *RequestService) applyScope(filter *repository.RequestFilter, actor *domain.User) {
	if authz.IsManagerLevel(actor.Role) {
		return
	}
	if actor.Role == domain.RoleTechnician {
		filter.VisibleToUserID = &actor.ID
		return
	}
	if actor.DepartmentID != nil {
		filter.DepartmentID = actor.DepartmentID
		return
	}
	filter.VisibleToUserID = &actor.ID
}

func (s *RequestService) canView(actor *domain.User, request *domain.Request) bool {
	if authz.IsManagerLevel(actor.Role) {
		return true
	}
	if actor.Role == domain.RoleTechnician {
		assigned := request.AssignedTechnicianID != nil && *request.AssignedTechnicianID == actor.ID
		return assigned || request.ReceivedByID == actor.ID
	}
	if actor.InDepartment(request.DepartmentID) {
		return true
	}
	return request.ReceivedByID == actor.ID
}

func (s *RequestService) canClose(actor *domain.User, request *domain.Request) bool {
	if authz.IsManagerLevel(actor.Role) {
		return true
	}
	return actor.Role == domain.RoleSectionSupervisor && actor.InDepartment(request.DepartmentID)
}

// stampStatus sets derived timestamps at most once per request, so
// re-entering a state never rewrites history. Finished requests no longer
// count toward SLA, so the overdue flag clears with them.
func (s *RequestService) stampStatus(request *domain.Request, status domain.RequestStatus, now time.Time) {
	switch status {
	case domain.RequestStatusUnderInspection:
		if request.StartedAt == nil {
			request.StartedAt = &now
		}
	case domain.RequestStatusCompleted:
		if request.CompletedAt == nil {
			request.CompletedAt = &now
		}
		request.IsOverdue = false
	case domain.RequestStatusClosed:
		if request.ClosedAt == nil {
			request.ClosedAt = &now
		}
		request.IsOverdue = false
	}
}

func (s *RequestService) runTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.WithinTx(ctx, fn)
}

func (s *RequestService) publish(ctx context.Context, eventType events.EventType, requestID string, actor *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func statusChangeDescription(oldStatus, newStatus domain.RequestStatus, comment string) string {
	desc := fmt.Sprintf("status changed from %s to %s", oldStatus, newStatus)
	if strings.TrimSpace(comment) != "" {
		desc += ": " + strings.TrimSpace(comment)
	}
	return desc
}

// preview truncates on a rune boundary so multibyte text never ends up
// with a mangled trailing character.
func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
