package domain

import "time"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationRequestCreated  NotificationType = "REQUEST_CREATED"
	NotificationStatusChanged   NotificationType = "STATUS_CHANGED"
	NotificationAssigned        NotificationType = "ASSIGNED"
	NotificationAssignmentMoved NotificationType = "ASSIGNMENT_MOVED"
	NotificationCostAdded       NotificationType = "COST_ADDED"
	NotificationRequestClosed   NotificationType = "REQUEST_CLOSED"
)

// Notification is addressed to exactly one user and optionally references
// a request. Mutated only to flip the read flag; never deleted in normal flow.
type Notification struct {
	ID        string
	UserID    string
	RequestID *string
	Title     string
	Message   string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}
