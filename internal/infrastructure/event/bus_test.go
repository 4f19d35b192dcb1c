package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", "agg-1")}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("Migrated")
	bus.Subscribe(handler)

	event := newTestEvent("Migrated")
	require.NoError(t, bus.Publish(context.Background(), event))

	require.Equal(t, 1, handler.count())
	assert.Same(t, event, handler.handled[0])
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	specific := newTestHandler("A")
	wildcard := newTestHandler()
	bus.Subscribe(specific)
	bus.Subscribe(wildcard)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))

	assert.Equal(t, 1, specific.count())
	assert.Equal(t, 2, wildcard.count())
	assert.Equal(t, 2, bus.HandlerCount("A"))
	assert.Equal(t, 1, bus.HandlerCount("B"))
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newTestHandler("A")
	bus.Subscribe(handler, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_FailingHandlersDoNotStopDelivery(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("A")
	failing.err = errors.New("handler error")
	panicking := newTestHandler("A")
	panicking.panics = true
	healthy := newTestHandler("A")

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))

	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, 2, recorded.FilterMessage("handler failed to process event").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	handler := newTestHandler("A", "B")
	other := newTestHandler()
	bus.Subscribe(handler)
	bus.Subscribe(other)

	bus.Unsubscribe(handler)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))

	assert.Equal(t, 0, handler.count())
	assert.Equal(t, 1, other.count())
	assert.Equal(t, 1, bus.HandlerCount("B"))
}

func TestNotificationInbox(t *testing.T) {
	ctx := context.Background()

	t.Run("migration events become notices", func(t *testing.T) {
		bus := NewInMemoryEventBus(nil)
		inbox := NewNotificationInbox(0)
		bus.Subscribe(inbox)

		require.NoError(t, bus.Publish(ctx,
			ledger.NewLegacyDataMigrated(ledger.KindSale, ledger.KeyLegacyIncomes, ledger.KeySales, 3),
			ledger.NewLegacyDataMigrated(ledger.KindPurchase, ledger.KeyLegacyExpenses, ledger.KeyPurchases, 1),
		))

		assert.Equal(t, []string{
			"✅ Datos migrados al nuevo formato (3 ventas)",
			"✅ Datos migrados al nuevo formato (1 compra)",
		}, inbox.Drain())
		assert.Empty(t, inbox.Drain())
	})

	t.Run("unexpected event type is an error", func(t *testing.T) {
		inbox := NewNotificationInbox(0)
		err := inbox.Handle(ctx, newTestEvent(ledger.EventTypeLegacyDataMigrated))
		assert.Error(t, err)
		assert.Empty(t, inbox.Drain())
	})

	t.Run("capacity drops the oldest", func(t *testing.T) {
		inbox := NewNotificationInbox(2)
		inbox.Push("a")
		inbox.Push("b")
		inbox.Push("c")

		assert.Equal(t, []string{"b", "c"}, inbox.Drain())
	})
}
