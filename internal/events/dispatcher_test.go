package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesAllHandlersDespiteFailure(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("webhook down")

	var calls []string
	d.Subscribe(EventMemberRegistered, func(context.Context, Event) error {
		calls = append(calls, "first")
		return boom
	})
	d.Subscribe(EventMemberRegistered, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventMemberDeleted, func(context.Context, Event) error {
		calls = append(calls, "other-type")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventMemberRegistered, Email: "a@x.com"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestPublishNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventMemberPurged}))
}
