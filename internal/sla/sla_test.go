package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

func TestDueDate(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		warranty domain.WarrantyStatus
		method   domain.ExecutionMethod
		want     time.Duration
	}{
		{"under warranty workshop", domain.WarrantyUnderWarranty, domain.ExecutionWorkshop, 168 * time.Hour},
		{"under warranty on-site", domain.WarrantyUnderWarranty, domain.ExecutionOnSite, 216 * time.Hour},
		{"out of warranty workshop", domain.WarrantyOutOfWarranty, domain.ExecutionWorkshop, 240 * time.Hour},
		{"out of warranty on-site", domain.WarrantyOutOfWarranty, domain.ExecutionOnSite, 288 * time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DueDate(tc.warranty, tc.method, createdAt)
			assert.Equal(t, createdAt.Add(tc.want), got)
		})
	}
}

func TestOverdue(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, Overdue(past, domain.RequestStatusInRepair, now))
	assert.False(t, Overdue(future, domain.RequestStatusInRepair, now))

	// finished requests never count as overdue
	assert.False(t, Overdue(past, domain.RequestStatusCompleted, now))
	assert.False(t, Overdue(past, domain.RequestStatusClosed, now))
}
