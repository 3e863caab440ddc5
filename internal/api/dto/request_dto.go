package dto

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	CustomerID       string     `json:"customer_id" validate:"required"`
	ProductID        *string    `json:"product_id"`
	IssueDescription string     `json:"issue_description" validate:"required"`
	ExecutionMethod  string     `json:"execution_method" validate:"required,oneof=ON_SITE WORKSHOP"`
	WarrantyStatus   string     `json:"warranty_status" validate:"required,oneof=UNDER_WARRANTY OUT_OF_WARRANTY"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	Priority         string     `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH URGENT"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id" validate:"required"`
}

// AddCostRequest payload.
type AddCostRequest struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency"`
	CostType    string  `json:"cost_type" validate:"required,oneof=SPARE_PARTS LABOR TRANSPORT OTHER"`
}

// CloseRequestRequest payload.
type CloseRequestRequest struct {
	FinalNotes           *string `json:"final_notes"`
	CustomerSatisfaction *int    `json:"customer_satisfaction" validate:"omitempty,min=1,max=5"`
}

// RequestSummary response.
type RequestSummary struct {
	ID                   string     `json:"id"`
	RequestNumber        string     `json:"request_number"`
	CustomerID           string     `json:"customer_id"`
	ProductID            *string    `json:"product_id"`
	DepartmentID         string     `json:"department_id"`
	AssignedTechnicianID *string    `json:"assigned_technician_id"`
	ReceivedByID         string     `json:"received_by_id"`
	IssueDescription     string     `json:"issue_description"`
	ExecutionMethod      string     `json:"execution_method"`
	WarrantyStatus       string     `json:"warranty_status"`
	Priority             string     `json:"priority"`
	Status               string     `json:"status"`
	SLADueDate           time.Time  `json:"sla_due_date"`
	IsOverdue            bool       `json:"is_overdue"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	ClosedAt             *time.Time `json:"closed_at"`
}

// RequestDetailResponse is the eager-loaded single-request view.
type RequestDetailResponse struct {
	RequestSummary
	PurchaseDate         *time.Time          `json:"purchase_date"`
	FinalNotes           *string             `json:"final_notes"`
	CustomerSatisfaction *int                `json:"customer_satisfaction"`
	AssignedAt           *time.Time          `json:"assigned_at"`
	StartedAt            *time.Time          `json:"started_at"`
	CompletedAt          *time.Time          `json:"completed_at"`
	Customer             *CustomerResponse   `json:"customer,omitempty"`
	Product              *ProductResponse    `json:"product,omitempty"`
	Department           *DepartmentResponse `json:"department,omitempty"`
	Technician           *UserResponse       `json:"technician,omitempty"`
	ReceivedBy           *UserResponse       `json:"received_by,omitempty"`
	Activities           []ActivityResponse  `json:"activities"`
	Costs                []CostResponse      `json:"costs"`
}

// ActivityResponse is one audit trail entry.
type ActivityResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Kind        string         `json:"kind"`
	Description string         `json:"description"`
	OldValue    map[string]any `json:"old_value,omitempty"`
	NewValue    map[string]any `json:"new_value,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CostResponse is one cost line item.
type CostResponse struct {
	ID          string    `json:"id"`
	AddedByID   string    `json:"added_by_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	CostType    string    `json:"cost_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRequestSummary maps a request aggregate to its list representation.
func NewRequestSummary(request *domain.Request) RequestSummary {
	return RequestSummary{
		ID:                   request.ID,
		RequestNumber:        request.RequestNumber,
		CustomerID:           request.CustomerID,
		ProductID:            request.ProductID,
		DepartmentID:         request.DepartmentID,
		AssignedTechnicianID: request.AssignedTechnicianID,
		ReceivedByID:         request.ReceivedByID,
		IssueDescription:     request.IssueDescription,
		ExecutionMethod:      string(request.ExecutionMethod),
		WarrantyStatus:       string(request.WarrantyStatus),
		Priority:             string(request.Priority),
		Status:               string(request.Status),
		SLADueDate:           request.SLADueDate,
		IsOverdue:            request.IsOverdue,
		CreatedAt:            request.CreatedAt,
		UpdatedAt:            request.UpdatedAt,
		ClosedAt:             request.ClosedAt,
	}
}

// NewRequestDetail maps the eager-loaded view.
func NewRequestDetail(detail *service.RequestDetail) RequestDetailResponse {
	response := RequestDetailResponse{
		RequestSummary:       NewRequestSummary(detail.Request),
		PurchaseDate:         detail.Request.PurchaseDate,
		FinalNotes:           detail.Request.FinalNotes,
		CustomerSatisfaction: detail.Request.CustomerSatisfaction,
		AssignedAt:           detail.Request.AssignedAt,
		StartedAt:            detail.Request.StartedAt,
		CompletedAt:          detail.Request.CompletedAt,
		Activities:           make([]ActivityResponse, 0, len(detail.Activities)),
		Costs:                make([]CostResponse, 0, len(detail.Costs)),
	}
	if detail.Customer != nil {
		customer := NewCustomerResponse(detail.Customer)
		response.Customer = &customer
	}
	if detail.Product != nil {
		product := NewProductResponse(detail.Product)
		response.Product = &product
	}
	if detail.Department != nil {
		department := NewDepartmentResponse(detail.Department)
		response.Department = &department
	}
	if detail.Technician != nil {
		technician := NewUserResponse(detail.Technician)
		response.Technician = &technician
	}
	if detail.Receiver != nil {
		receiver := NewUserResponse(detail.Receiver)
		response.ReceivedBy = &receiver
	}
	for i := range detail.Activities {
		response.Activities = append(response.Activities, NewActivityResponse(&detail.Activities[i]))
	}
	for i := range detail.Costs {
		response.Costs = append(response.Costs, NewCostResponse(&detail.Costs[i]))
	}
	return response
}

// NewActivityResponse maps one audit entry.
func NewActivityResponse(activity *domain.RequestActivity) ActivityResponse {
	return ActivityResponse{
		ID:          activity.ID,
		UserID:      activity.UserID,
		Kind:        string(activity.Kind),
		Description: activity.Description,
		OldValue:    activity.OldValue,
		NewValue:    activity.NewValue,
		CreatedAt:   activity.CreatedAt,
	}
}

// NewCostResponse maps one cost line.
func NewCostResponse(cost *domain.RequestCost) CostResponse {
	return CostResponse{
		ID:          cost.ID,
		AddedByID:   cost.AddedByID,
		Description: cost.Description,
		Amount:      cost.Amount,
		Currency:    cost.Currency,
		CostType:    string(cost.CostType),
		CreatedAt:   cost.CreatedAt,
	}
}
