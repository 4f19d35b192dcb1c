package analytics

import (
	"sort"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CategoryValue is the inventory held in one category.
type CategoryValue struct {
	ID    string
	Name  string
	Count int
	Value decimal.Decimal
}

// CategoryValues computes product count and stock value per category,
// highest value first.
func CategoryValues(products []ledger.Product, categories []ledger.Category) []CategoryValue {
	out := make([]CategoryValue, 0, len(categories))
	for _, c := range categories {
		cv := CategoryValue{ID: c.ID, Name: c.Name, Value: decimal.Zero}
		for _, p := range products {
			if p.CategoryID == c.ID {
				cv.Count++
				cv.Value = cv.Value.Add(p.StockValue())
			}
		}
		out = append(out, cv)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Value.GreaterThan(out[b].Value)
	})
	return out
}
