package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// forward flow
	assert.True(t, CanTransition(RequestStatusNew, RequestStatusAssigned))
	assert.True(t, CanTransition(RequestStatusAssigned, RequestStatusUnderInspection))
	assert.True(t, CanTransition(RequestStatusUnderInspection, RequestStatusWaitingParts))
	assert.True(t, CanTransition(RequestStatusWaitingParts, RequestStatusInRepair))
	assert.True(t, CanTransition(RequestStatusInRepair, RequestStatusCompleted))
	assert.True(t, CanTransition(RequestStatusCompleted, RequestStatusClosed))

	// lateral and backward moves between open states
	assert.True(t, CanTransition(RequestStatusInRepair, RequestStatusUnderInspection))
	assert.True(t, CanTransition(RequestStatusWaitingParts, RequestStatusAssigned))
	assert.True(t, CanTransition(RequestStatusNew, RequestStatusCompleted))

	// completed only moves to closed
	assert.False(t, CanTransition(RequestStatusCompleted, RequestStatusInRepair))
	assert.False(t, CanTransition(RequestStatusCompleted, RequestStatusNew))

	// closed is terminal
	assert.False(t, CanTransition(RequestStatusClosed, RequestStatusAssigned))
	assert.False(t, CanTransition(RequestStatusClosed, RequestStatusCompleted))

	// nothing returns to NEW, self-transitions rejected
	assert.False(t, CanTransition(RequestStatusAssigned, RequestStatusNew))
	assert.False(t, CanTransition(RequestStatusInRepair, RequestStatusInRepair))
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, RequestStatusClosed.IsTerminal())
	assert.False(t, RequestStatusCompleted.IsTerminal())

	assert.True(t, RequestStatusCompleted.IsFinished())
	assert.True(t, RequestStatusClosed.IsFinished())
	assert.False(t, RequestStatusInRepair.IsFinished())
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(RequestStatusNew))
	assert.True(t, ValidStatus(RequestStatusClosed))
	assert.False(t, ValidStatus(RequestStatus("PENDING_REVIEW")))
}
