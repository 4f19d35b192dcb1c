// Package analytics computes aggregates over the normalized ledger. Every
// function is pure: results depend only on the arguments, which are never
// modified.
package analytics

import (
	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals summarizes income against expense.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	// Margin is Balance / Income x 100, zero when there is no income.
	Margin decimal.Decimal
}

// MarginText renders the margin with one decimal, or "0" without income.
func (t Totals) MarginText() string {
	if t.Income.IsZero() {
		return "0"
	}
	return t.Margin.StringFixed(1)
}

// ComputeTotals sums incomes and expenses.
func ComputeTotals(incomes, expenses []ledger.Record) Totals {
	t := Totals{
		Income:  SumTotal(incomes),
		Expense: SumTotal(expenses),
	}
	t.Balance = t.Income.Sub(t.Expense)
	if !t.Income.IsZero() {
		t.Margin = t.Balance.Div(t.Income).Mul(hundred)
	}
	return t
}

// SumTotal adds the record totals.
func SumTotal(records []ledger.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Total)
	}
	return sum
}

// SumUnits adds the record quantities.
func SumUnits(records []ledger.Record) int {
	units := 0
	for _, r := range records {
		units += r.Quantity
	}
	return units
}

// Average divides total by count, zero when count is zero.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

// InventoryValue sums price x quantity over products.
func InventoryValue(products []ledger.Product) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(p.StockValue())
	}
	return sum
}

// InventoryUnits sums quantity on hand over products.
func InventoryUnits(products []ledger.Product) int {
	units := 0
	for _, p := range products {
		units += p.Quantity
	}
	return units
}

// Share returns part as a percentage of whole, zero when whole is zero.
func Share(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
