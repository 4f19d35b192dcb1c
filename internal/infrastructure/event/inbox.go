package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/domain/shared"
)

const defaultInboxCap = 20

// NotificationInbox collects toast-style notices from ledger events until
// the interface drains them.
type NotificationInbox struct {
	mu      sync.Mutex
	notices []string
	cap     int
}

// NewNotificationInbox creates an inbox that keeps at most capacity
// undrained notices, dropping the oldest. capacity <= 0 uses 20.
func NewNotificationInbox(capacity int) *NotificationInbox {
	if capacity <= 0 {
		capacity = defaultInboxCap
	}
	return &NotificationInbox{cap: capacity}
}

// EventTypes implements shared.EventHandler
func (i *NotificationInbox) EventTypes() []string {
	return []string{ledger.EventTypeLegacyDataMigrated}
}

// Handle implements shared.EventHandler
func (i *NotificationInbox) Handle(_ context.Context, event shared.DomainEvent) error {
	migrated, ok := event.(*ledger.LegacyDataMigrated)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}
	i.push(migrationNotice(migrated))
	return nil
}

// Push queues a free-form notice
func (i *NotificationInbox) Push(notice string) {
	i.push(notice)
}

func (i *NotificationInbox) push(notice string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.notices = append(i.notices, notice)
	if over := len(i.notices) - i.cap; over > 0 {
		i.notices = i.notices[over:]
	}
}

// Drain returns pending notices, oldest first, and empties the inbox
func (i *NotificationInbox) Drain() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := i.notices
	i.notices = nil
	return out
}

func migrationNotice(e *ledger.LegacyDataMigrated) string {
	return fmt.Sprintf("✅ Datos migrados al nuevo formato (%d %s)", e.Count, kindNoun(e.Kind, e.Count))
}

func kindNoun(kind ledger.Kind, n int) string {
	noun := "registro"
	switch kind {
	case ledger.KindSale:
		noun = "venta"
	case ledger.KindPurchase:
		noun = "compra"
	}
	if n != 1 {
		noun += "s"
	}
	return noun
}

var _ shared.EventHandler = (*NotificationInbox)(nil)
