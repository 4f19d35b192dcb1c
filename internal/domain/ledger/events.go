package ledger

import "github.com/ministock/backend/internal/domain/shared"

// EventTypeLegacyDataMigrated is published once per migrated transaction kind.
const EventTypeLegacyDataMigrated = "LegacyDataMigrated"

// AggregateTypeLedger identifies the ledger in published events.
const AggregateTypeLedger = "Ledger"

// LegacyDataMigrated is raised when single-item records were rewritten into
// the multi-item transaction shape.
type LegacyDataMigrated struct {
	shared.BaseDomainEvent
	Kind      Kind   `json:"kind"`
	SourceKey string `json:"source_key"`
	TargetKey string `json:"target_key"`
	Count     int    `json:"count"`
}

// NewLegacyDataMigrated creates the migration event.
func NewLegacyDataMigrated(kind Kind, sourceKey, targetKey string, count int) *LegacyDataMigrated {
	return &LegacyDataMigrated{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLegacyDataMigrated, AggregateTypeLedger, targetKey),
		Kind:            kind,
		SourceKey:       sourceKey,
		TargetKey:       targetKey,
		Count:           count,
	}
}
