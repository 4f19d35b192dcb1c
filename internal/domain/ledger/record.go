package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is a flattened income (sale line) or expense (purchase line). It is
// derived from transactions and never persisted.
type Record struct {
	ID               string
	TransactionID    string
	Kind             Kind
	ProductID        string
	ProductName      string
	Quantity         int
	UnitPrice        decimal.Decimal
	Total            decimal.Decimal
	CounterpartyID   string
	CounterpartyName string
	Date             time.Time
}
