package domain

import "time"

// SparePart is a warehouse stock item used during repairs.
type SparePart struct {
	ID           string
	Name         string
	PartNumber   string
	Quantity     int
	UnitPrice    float64
	Currency     string
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
