package sla

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// Base resolution windows by warranty status.
const (
	WindowUnderWarranty = 168 * time.Hour // 7 days
	WindowOutOfWarranty = 240 * time.Hour // 10 days

	// OnSiteBuffer accounts for travel and scheduling when service happens
	// at the customer's site.
	OnSiteBuffer = 48 * time.Hour
)

// DueDate computes the SLA deadline for a request created at createdAt.
func DueDate(warranty domain.WarrantyStatus, method domain.ExecutionMethod, createdAt time.Time) time.Time {
	window := WindowOutOfWarranty
	if warranty == domain.WarrantyUnderWarranty {
		window = WindowUnderWarranty
	}
	if method == domain.ExecutionOnSite {
		window += OnSiteBuffer
	}
	return createdAt.Add(window)
}

// Overdue reports whether a request has blown its deadline: the due date
// has passed and the request is neither completed nor closed.
func Overdue(dueDate time.Time, status domain.RequestStatus, now time.Time) bool {
	return dueDate.Before(now) && !status.IsFinished()
}
