package ledger

import (
	"time"

	"github.com/ministock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Kind distinguishes sales from purchases.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

// String implements fmt.Stringer
func (k Kind) String() string {
	return string(k)
}

// LineItem is one product entry within a transaction. ProductName is the
// snapshot taken when the transaction was recorded.
type LineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// NewLineItem builds a line item with Subtotal = Quantity x UnitPrice.
func NewLineItem(productID, productName string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	if productID == "" {
		return LineItem{}, shared.ErrInvalidInput.Withf("line item requires a product")
	}
	if quantity <= 0 {
		return LineItem{}, shared.ErrInvalidInput.Withf("quantity for %q must be positive", productName)
	}
	if unitPrice.IsNegative() {
		return LineItem{}, shared.ErrInvalidInput.Withf("unit price for %q cannot be negative", productName)
	}
	return LineItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// Transaction is a sale (counterparty = client) or a purchase
// (counterparty = provider) with an ordered list of line items.
type Transaction struct {
	ID               string
	Kind             Kind
	CounterpartyID   string
	CounterpartyName string
	Items            []LineItem
	Total            decimal.Decimal
	Date             time.Time
}

// NewTransaction builds a transaction whose Total is the sum of its item
// subtotals.
func NewTransaction(id string, kind Kind, counterpartyID, counterpartyName string, items []LineItem, date time.Time) (Transaction, error) {
	if id == "" {
		return Transaction{}, shared.ErrInvalidInput.Withf("transaction requires an id")
	}
	if len(items) == 0 {
		return Transaction{}, shared.ErrInvalidInput.Withf("transaction %s has no items", id)
	}
	tx := Transaction{
		ID:               id,
		Kind:             kind,
		CounterpartyID:   counterpartyID,
		CounterpartyName: counterpartyName,
		Items:            append([]LineItem(nil), items...),
		Date:             date,
	}
	tx.Total = tx.ItemsTotal()
	return tx, nil
}

// ItemsTotal sums the line item subtotals.
func (t Transaction) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range t.Items {
		total = total.Add(item.Subtotal)
	}
	return total
}

// Flatten returns one Record per line item, in item order.
func (t Transaction) Flatten() []Record {
	records := make([]Record, 0, len(t.Items))
	for _, item := range t.Items {
		records = append(records, Record{
			ID:               t.ID + "-" + item.ProductID,
			TransactionID:    t.ID,
			Kind:             t.Kind,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			Total:            item.Subtotal,
			CounterpartyID:   t.CounterpartyID,
			CounterpartyName: t.CounterpartyName,
			Date:             t.Date,
		})
	}
	return records
}

// FlattenAll flattens transactions preserving transaction and item order.
func FlattenAll(txs []Transaction) []Record {
	var records []Record
	for _, tx := range txs {
		records = append(records, tx.Flatten()...)
	}
	return records
}
