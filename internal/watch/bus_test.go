package watch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub *Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.C:
		require.True(t, ok, "subscription channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestWatchSingleDocument(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionUsers, "7")
	require.NoError(t, err)
	defer sub.Cancel()

	bus.Publish(CollectionUsers, "7", map[string]string{"name": "Ada"})

	ev := receive(t, sub)
	assert.Equal(t, CollectionUsers, ev.Collection)
	assert.Equal(t, "7", ev.Key)
	assert.False(t, ev.Deleted)
	assert.NotNil(t, ev.Document)
}

func TestWatchIgnoresOtherDocuments(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionUsers, "7")
	require.NoError(t, err)
	defer sub.Cancel()

	bus.Publish(CollectionUsers, "8", nil)
	bus.Publish(CollectionUsers, "7", nil)

	ev := receive(t, sub)
	assert.Equal(t, "7", ev.Key)
	select {
	case extra := <-sub.C:
		t.Fatalf("unexpected event for key %q", extra.Key)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchWholeCollection(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionOrders, "")
	require.NoError(t, err)
	defer sub.Cancel()

	bus.Publish(CollectionOrders, "ord-1", nil)
	ev := receive(t, sub)
	assert.Equal(t, "ord-1", ev.Key)

	bus.Publish(CollectionOrders, "ord-2", nil)
	ev = receive(t, sub)
	assert.Equal(t, "ord-2", ev.Key)
}

func TestPublishDelete(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionOrders, "ord-1")
	require.NoError(t, err)
	defer sub.Cancel()

	bus.PublishDelete(CollectionOrders, "ord-1")

	ev := receive(t, sub)
	assert.True(t, ev.Deleted)
	assert.Nil(t, ev.Document)
}

func TestCancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionUsers, "7")
	require.NoError(t, err)

	sub.Cancel()
	sub.Cancel() // idempotent

	bus.Publish(CollectionUsers, "7", nil)

	deadline := time.After(200 * time.Millisecond)
	for {
		select {
		case _, ok := <-sub.C:
			require.False(t, ok, "no events may arrive after cancel")
			return
		case <-deadline:
			return
		}
	}
}

func TestSlowConsumerDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	sub, err := bus.Watch(CollectionUsers, "7")
	require.NoError(t, err)
	defer sub.Cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			bus.Publish(CollectionUsers, "7", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publisher blocked on a slow consumer")
	}
}
