package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusNew             RequestStatus = "NEW"
	RequestStatusAssigned        RequestStatus = "ASSIGNED"
	RequestStatusUnderInspection RequestStatus = "UNDER_INSPECTION"
	RequestStatusWaitingParts    RequestStatus = "WAITING_PARTS"
	RequestStatusInRepair        RequestStatus = "IN_REPAIR"
	RequestStatusCompleted       RequestStatus = "COMPLETED"
	RequestStatusClosed          RequestStatus = "CLOSED"
)

// RequestPriority enumerates urgency levels.
type RequestPriority string

const (
	RequestPriorityLow    RequestPriority = "LOW"
	RequestPriorityNormal RequestPriority = "NORMAL"
	RequestPriorityHigh   RequestPriority = "HIGH"
	RequestPriorityUrgent RequestPriority = "URGENT"
)

// ExecutionMethod distinguishes on-site service from workshop repair.
type ExecutionMethod string

const (
	ExecutionOnSite   ExecutionMethod = "ON_SITE"
	ExecutionWorkshop ExecutionMethod = "WORKSHOP"
)

// WarrantyStatus captures product coverage at intake time.
type WarrantyStatus string

const (
	WarrantyUnderWarranty WarrantyStatus = "UNDER_WARRANTY"
	WarrantyOutOfWarranty WarrantyStatus = "OUT_OF_WARRANTY"
)

// Request is the aggregate for after-sales service requests.
type Request struct {
	ID                   string
	RequestNumber        string
	CustomerID           string
	ProductID            *string
	DepartmentID         string
	AssignedTechnicianID *string
	ReceivedByID         string
	IssueDescription     string
	ExecutionMethod      ExecutionMethod
	WarrantyStatus       WarrantyStatus
	PurchaseDate         *time.Time
	Priority             RequestPriority
	Status               RequestStatus
	SLADueDate           time.Time
	IsOverdue            bool
	FinalNotes           *string
	CustomerSatisfaction *int
	CreatedAt            time.Time
	UpdatedAt            time.Time
	AssignedAt           *time.Time
	StartedAt            *time.Time
	CompletedAt          *time.Time
	ClosedAt             *time.Time
}

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusClosed
}

// IsFinished reports whether the request no longer counts toward SLA.
func (s RequestStatus) IsFinished() bool {
	return s == RequestStatusCompleted || s == RequestStatusClosed
}

// lateralStatuses are the states reachable from any open, not-yet-completed
// status. Lateral and backward moves between them are permitted so operators
// can correct a mis-set status.
var lateralStatuses = []RequestStatus{
	RequestStatusAssigned,
	RequestStatusUnderInspection,
	RequestStatusWaitingParts,
	RequestStatusInRepair,
	RequestStatusCompleted,
}

// allowedTransitions is the explicit adjacency set per status.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusNew:             lateralStatuses,
	RequestStatusAssigned:        lateralStatuses,
	RequestStatusUnderInspection: lateralStatuses,
	RequestStatusWaitingParts:    lateralStatuses,
	RequestStatusInRepair:        lateralStatuses,
	RequestStatusCompleted:       {RequestStatusClosed},
	RequestStatusClosed:          {},
}

// CanTransition reports whether moving from current to next is permitted.
// A transition to the current status itself is never permitted.
func CanTransition(current, next RequestStatus) bool {
	if current == next {
		return false
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the built-in lifecycle states.
func ValidStatus(s RequestStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
