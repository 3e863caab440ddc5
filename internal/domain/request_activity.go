package domain

import "time"

// ActivityKind captures what kind of mutation an audit entry records.
type ActivityKind string

const (
	ActivityCreated      ActivityKind = "CREATED"
	ActivityStatusChange ActivityKind = "STATUS_CHANGE"
	ActivityAssignment   ActivityKind = "ASSIGNMENT"
	ActivityCostAdded    ActivityKind = "COST_ADDED"
	ActivityComment      ActivityKind = "COMMENT"
	ActivityUpdated      ActivityKind = "UPDATED"
)

// RequestActivity is an immutable audit trail entry tied to one request.
// Rows are appended once per mutating action and never updated or deleted.
type RequestActivity struct {
	ID          string
	RequestID   string
	UserID      string
	Kind        ActivityKind
	Description string
	OldValue    map[string]any
	NewValue    map[string]any
	CreatedAt   time.Time
}
