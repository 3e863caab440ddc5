package domain

import "time"

// Product is a serviceable product type; its department determines where
// requests for it are routed.
type Product struct {
	ID           string
	Name         string
	Model        string
	Brand        string
	DepartmentID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
