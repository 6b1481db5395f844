package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/atriumhq/atrium/pkg/channels/gochannel"
	"github.com/atriumhq/atrium/pkg/eventbus"
	"github.com/atriumhq/atrium/pkg/events"
	"github.com/atriumhq/atrium/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus(t *testing.T) eventbus.EventBus {
	t.Helper()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	t.Cleanup(func() { _ = bus.Close() })

	return bus
}

func TestWatermillEventBus_RoundTrip(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.DraftSaved, 1)

	err := bus.Handle(events.DraftSavedEvent, func(_ context.Context, event any) error {
		saved, ok := event.(*events.DraftSaved)
		require.True(t, ok)
		received <- saved

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	event := events.DraftSaved{
		BaseEvent: events.BaseEvent{
			ID:        bus.GenerateID(),
			Type:      events.DraftSavedEvent,
			Timestamp: time.Now().UTC(),
			DraftID:   "d-1",
			DraftType: models.DraftTypeProperty,
			Owner:     "alice",
		},
		FieldCount: 7,
	}

	require.NoError(t, bus.Publish(t.Context(), "d-1", event))

	select {
	case saved := <-received:
		assert.Equal(t, "d-1", saved.DraftID)
		assert.Equal(t, models.DraftTypeProperty, saved.DraftType)
		assert.Equal(t, 7, saved.FieldCount)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_UnhandledTypesAreAcked(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.DraftDeleted, 1)

	err := bus.Handle(events.DraftDeletedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.DraftDeleted)

		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Subscribe(t.Context()))

	// An event type without a handler must not wedge the stream.
	created := events.DraftCreated{BaseEvent: events.BaseEvent{
		ID: bus.GenerateID(), Type: events.DraftCreatedEvent, DraftID: "d-2",
	}}
	require.NoError(t, bus.Publish(t.Context(), "d-2", created))

	deleted := events.DraftDeleted{BaseEvent: events.BaseEvent{
		ID: bus.GenerateID(), Type: events.DraftDeletedEvent, DraftID: "d-2",
	}}
	require.NoError(t, bus.Publish(t.Context(), "d-2", deleted))

	select {
	case event := <-received:
		assert.Equal(t, "d-2", event.DraftID)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	bus := newTestBus(t)

	first := bus.GenerateID()
	second := bus.GenerateID()

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
