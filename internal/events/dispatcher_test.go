package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/garage-service/internal/domain"
)

func TestDispatcher_DeliversToSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var seen []string

	d.Subscribe(EventReviewSubmitted, func(ctx context.Context, e Event) error {
		seen = append(seen, "first:"+e.GarageID)
		return nil
	})
	d.Subscribe(EventReviewSubmitted, func(ctx context.Context, e Event) error {
		seen = append(seen, "second:"+e.GarageID)
		return nil
	})
	d.Subscribe(EventGarageUpdated, func(ctx context.Context, e Event) error {
		seen = append(seen, "other")
		return nil
	})

	event := New(EventReviewSubmitted, Actor{AccountID: "c1", Role: domain.RoleCustomer}, "g1", ReviewSubmittedPayload{Rating: 5})
	require.NoError(t, d.Publish(context.Background(), event))

	assert.Equal(t, []string{"first:g1", "second:g1"}, seen)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestDispatcher_HandlerErrorDoesNotStopOthers(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))
	called := false

	d.Subscribe(EventGarageUpdated, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventGarageUpdated, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), New(EventGarageUpdated, Actor{}, "g1", GarageUpdatedPayload{Change: ChangeHours}))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestDispatcher_PanickingHandlerIsIsolated(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))
	called := false

	d.Subscribe(EventReviewSubmitted, func(ctx context.Context, e Event) error {
		panic("nil map")
	})
	d.Subscribe(EventReviewSubmitted, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	require.NotPanics(t, func() {
		_ = d.Publish(context.Background(), New(EventReviewSubmitted, Actor{}, "g1", ReviewSubmittedPayload{Rating: 3}))
	})
	assert.True(t, called)
	entries := logs.FilterMessage("event handler failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "g1", entries[0].ContextMap()["garage_id"])
}
