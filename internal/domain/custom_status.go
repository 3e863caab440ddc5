package domain

import "time"

// CustomStatus is an operator-defined status name registered alongside the
// built-in lifecycle states. The lifecycle engine does not enforce
// transitions for custom statuses; they exist for labeling and reporting.
type CustomStatus struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}
