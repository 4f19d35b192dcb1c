package analytics

import (
	"sort"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// DefaultTopN is the ranking length used when callers pass n <= 0.
const DefaultTopN = 5

// ProductSales is the sales volume of one product.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  int
	Revenue   decimal.Decimal
}

// RankProducts groups incomes by product name and sorts by revenue,
// highest first. Equal revenues keep first-encountered order.
func RankProducts(incomes []ledger.Record) []ProductSales {
	index := make(map[string]int)
	var out []ProductSales
	for _, r := range incomes {
		i, ok := index[r.ProductName]
		if !ok {
			i = len(out)
			index[r.ProductName] = i
			out = append(out, ProductSales{ProductID: r.ProductID, Name: r.ProductName, Revenue: decimal.Zero})
		}
		out[i].Quantity += r.Quantity
		out[i].Revenue = out[i].Revenue.Add(r.Total)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Revenue.GreaterThan(out[b].Revenue)
	})
	return out
}

// TopProducts returns the n best-selling products by revenue.
func TopProducts(incomes []ledger.Record, n int) []ProductSales {
	return truncate(RankProducts(incomes), n)
}

// BottomProducts returns the n products with the least revenue among those
// that sold at least once, lowest first.
func BottomProducts(incomes []ledger.Record, n int) []ProductSales {
	ranked := RankProducts(incomes)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Revenue.LessThan(ranked[b].Revenue)
	})
	return truncate(ranked, n)
}

// PriceRanking returns n products ordered by unit price, most expensive
// first when descending is true.
func PriceRanking(products []ledger.Product, descending bool, n int) []ledger.Product {
	sorted := append([]ledger.Product(nil), products...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if descending {
			return sorted[a].Price.GreaterThan(sorted[b].Price)
		}
		return sorted[a].Price.LessThan(sorted[b].Price)
	})
	return truncate(sorted, n)
}

func truncate[T any](list []T, n int) []T {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(list) > n {
		return list[:n]
	}
	return list
}
