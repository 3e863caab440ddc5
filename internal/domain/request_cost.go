package domain

import "time"

// CostType classifies a cost line item.
type CostType string

const (
	CostTypeSpareParts CostType = "SPARE_PARTS"
	CostTypeLabor      CostType = "LABOR"
	CostTypeTransport  CostType = "TRANSPORT"
	CostTypeOther      CostType = "OTHER"
)

// RequestCost is a line-item cost attached to a request.
// Immutable once created; there is no update path.
type RequestCost struct {
	ID          string
	RequestID   string
	AddedByID   string
	Description string
	Amount      float64
	Currency    string
	CostType    CostType
	CreatedAt   time.Time
}
