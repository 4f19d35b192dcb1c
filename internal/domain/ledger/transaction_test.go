package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/ministock/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustItem(t *testing.T, productID, name string, qty int, price string) LineItem {
	t.Helper()
	item, err := NewLineItem(productID, name, qty, decimal.RequireFromString(price))
	require.NoError(t, err)
	return item
}

func TestNewLineItem(t *testing.T) {
	t.Run("computes subtotal", func(t *testing.T) {
		item := mustItem(t, "p1", "Widget", 3, "9.99")
		assert.True(t, item.Subtotal.Equal(decimal.RequireFromString("29.97")))
	})

	tests := []struct {
		name      string
		productID string
		qty       int
		price     string
	}{
		{"missing product", "", 1, "1"},
		{"zero quantity", "p1", 0, "1"},
		{"negative price", "p1", 1, "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLineItem(tt.productID, "x", tt.qty, decimal.RequireFromString(tt.price))
			require.Error(t, err)
			assert.True(t, errors.Is(err, shared.ErrInvalidInput))
		})
	}
}

func TestTransaction_Flatten(t *testing.T) {
	date := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	tx, err := NewTransaction("s1", KindSale, "c1", "Ana", []LineItem{
		mustItem(t, "p1", "Widget", 2, "9.99"),
		mustItem(t, "p2", "Gadget", 1, "15.50"),
	}, date)
	require.NoError(t, err)

	records := tx.Flatten()
	require.Len(t, records, 2)

	assert.Equal(t, "s1-p1", records[0].ID)
	assert.Equal(t, "s1-p2", records[1].ID)
	assert.Equal(t, "Ana", records[1].CounterpartyName)
	assert.Equal(t, date, records[0].Date)

	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Total)
		assert.True(t, r.Total.Equal(r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))))
	}
	assert.True(t, sum.Equal(tx.Total), "flattened subtotals must sum to the transaction total")
}

func TestNewTransaction_RequiresItems(t *testing.T) {
	_, err := NewTransaction("s1", KindSale, "", "", nil, time.Now())
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestFlattenAll_PreservesOrder(t *testing.T) {
	a, err := NewTransaction("a", KindPurchase, "v1", "Prov", []LineItem{mustItem(t, "p1", "Widget", 1, "1")}, time.Now())
	require.NoError(t, err)
	b, err := NewTransaction("b", KindPurchase, "v1", "Prov", []LineItem{
		mustItem(t, "p2", "Gadget", 1, "1"),
		mustItem(t, "p3", "Doohickey", 1, "1"),
	}, time.Now())
	require.NoError(t, err)

	records := FlattenAll([]Transaction{a, b})
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"a-p1", "b-p2", "b-p3"}, ids)
}
