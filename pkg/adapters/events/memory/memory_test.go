package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ihuarraquax/santavibe-sub004/pkg/adapters/events/memory"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
)

// TestBus_PublishDeliversToSubscriber checks topic routing and that
// delivery happens synchronously within Publish.
func TestBus_PublishDeliversToSubscriber(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	ctx := context.Background()

	var got []domain.Event
	require.NoError(t, bus.Subscribe(ctx, "group.events", "observer", func(ctx context.Context, e domain.Event) error {
		got = append(got, e)
		return nil
	}))

	event := domain.Event{ID: "e1", Type: domain.EventTypeDrawCompleted, GroupID: "g1"}
	require.NoError(t, bus.Publish(ctx, "group.events", event))
	require.NoError(t, bus.Publish(ctx, "other.topic", event))

	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
}

// TestBus_BroadcastsAcrossSubscriberNames verifies every distinct
// subscriber name sees every event: one consumer taking an event must not
// starve another.
func TestBus_BroadcastsAcrossSubscriberNames(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	ctx := context.Background()

	counts := map[string]int{}
	for _, name := range []string{"notifications", "ws-1", "ws-2"} {
		name := name
		require.NoError(t, bus.Subscribe(ctx, "t", name, func(ctx context.Context, e domain.Event) error {
			counts[name]++
			return nil
		}))
	}

	require.NoError(t, bus.Publish(ctx, "t", domain.Event{ID: "e1"}))

	assert.Equal(t, map[string]int{"notifications": 1, "ws-1": 1, "ws-2": 1}, counts)
}

// TestBus_SharedNameDeliversOnce verifies subscriptions under one name
// form a single logical consumer.
func TestBus_SharedNameDeliversOnce(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	ctx := context.Background()

	total := 0
	for i := 0; i < 2; i++ {
		require.NoError(t, bus.Subscribe(ctx, "t", "replicas", func(ctx context.Context, e domain.Event) error {
			total++
			return nil
		}))
	}

	require.NoError(t, bus.Publish(ctx, "t", domain.Event{ID: "e1"}))
	assert.Equal(t, 1, total)
}

// TestBus_CancelledSubscriptionIsDropped verifies a subscription ends with
// its context and stops receiving events.
func TestBus_CancelledSubscriptionIsDropped(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	subCtx, cancel := context.WithCancel(context.Background())

	calls := 0
	require.NoError(t, bus.Subscribe(subCtx, "t", "ephemeral", func(ctx context.Context, e domain.Event) error {
		calls++
		return nil
	}))

	require.NoError(t, bus.Publish(context.Background(), "t", domain.Event{ID: "e1"}))
	require.Equal(t, 1, calls)

	cancel()
	require.NoError(t, bus.Publish(context.Background(), "t", domain.Event{ID: "e2"}))
	assert.Equal(t, 1, calls)
}

// TestBus_HandlerErrorsDoNotFailPublish verifies a failing handler does not
// stop delivery to the remaining subscribers.
func TestBus_HandlerErrorsDoNotFailPublish(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	ctx := context.Background()

	require.NoError(t, bus.Subscribe(ctx, "t", "broken", func(ctx context.Context, e domain.Event) error {
		return errors.New("boom")
	}))

	delivered := false
	require.NoError(t, bus.Subscribe(ctx, "t", "healthy", func(ctx context.Context, e domain.Event) error {
		delivered = true
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "t", domain.Event{ID: "e1"}))
	assert.True(t, delivered)
}

// TestBus_CloseDropsSubscribers verifies nothing is delivered after Close.
func TestBus_CloseDropsSubscribers(t *testing.T) {
	bus := memory.NewInMemoryEventBus()
	ctx := context.Background()

	calls := 0
	require.NoError(t, bus.Subscribe(ctx, "t", "observer", func(ctx context.Context, e domain.Event) error {
		calls++
		return nil
	}))

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Publish(ctx, "t", domain.Event{ID: "e1"}))
	assert.Zero(t, calls)
}
