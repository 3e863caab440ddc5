package events

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestCostAdded     EventType = "request_cost_added"
	EventRequestClosed        EventType = "request_closed"
)

// Event represents a domain event emitted by the lifecycle engine after a
// mutation has committed.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	ActorID   string      `json:"actor_id"`
	ActorRole domain.Role `json:"actor_role"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	RequestNumber string                 `json:"request_number"`
	DepartmentID  string                 `json:"department_id"`
	CustomerID    string                 `json:"customer_id"`
	Priority      domain.RequestPriority `json:"priority"`
	IssuePreview  string                 `json:"issue_preview"`
}

// RequestStatusChangedPayload payload.
type RequestStatusChangedPayload struct {
	RequestNumber        string               `json:"request_number"`
	OldStatus            domain.RequestStatus `json:"old_status"`
	NewStatus            domain.RequestStatus `json:"new_status"`
	Comment              string               `json:"comment,omitempty"`
	DepartmentID         string               `json:"department_id"`
	AssignedTechnicianID *string              `json:"assigned_technician_id,omitempty"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	RequestNumber    string  `json:"request_number"`
	TechnicianID     string  `json:"technician_id"`
	PrevTechnicianID *string `json:"prev_technician_id,omitempty"`
}

// RequestCostAddedPayload payload.
type RequestCostAddedPayload struct {
	RequestNumber        string          `json:"request_number"`
	CostID               string          `json:"cost_id"`
	Amount               float64         `json:"amount"`
	Currency             string          `json:"currency"`
	CostType             domain.CostType `json:"cost_type"`
	AssignedTechnicianID *string         `json:"assigned_technician_id,omitempty"`
}

// RequestClosedPayload payload.
type RequestClosedPayload struct {
	RequestNumber        string  `json:"request_number"`
	AssignedTechnicianID *string `json:"assigned_technician_id,omitempty"`
	CustomerSatisfaction *int    `json:"customer_satisfaction,omitempty"`
}
