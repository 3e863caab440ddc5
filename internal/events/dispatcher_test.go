package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventRequestCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})
	dispatcher.Subscribe(EventRequestClosed, func(_ context.Context, event Event) error {
		t.Fatal("handler for another event type must not fire")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRequestCreated, RequestID: "r1"})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "r1", received[0].RequestID)
}

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var secondRan bool
	dispatcher.Subscribe(EventRequestAssigned, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventRequestAssigned, func(context.Context, Event) error {
		secondRan = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventRequestAssigned})
	require.NoError(t, err)
	assert.True(t, secondRan)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventRequestCostAdded}))
}
