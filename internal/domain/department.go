package domain

import "time"

// Department groups users and products; every request is scoped to
// exactly one department.
type Department struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
