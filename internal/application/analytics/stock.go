package analytics

import (
	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the exclusive upper bound of "low stock".
const DefaultLowStockThreshold = 10

// HighValueThreshold is the stock value above which a product is flagged.
var HighValueThreshold = decimal.NewFromInt(1000)

// StockReport classifies products by stock state, each list in store order.
type StockReport struct {
	// Low holds products with 0 < quantity < threshold.
	Low []ledger.Product
	// Out holds products with quantity == 0.
	Out []ledger.Product
	// Unsold holds products in stock that never appear in incomes.
	Unsold []ledger.Product
	// HighValue holds products whose stock value exceeds HighValueThreshold.
	HighValue []ledger.Product
}

// ClassifyStock builds the stock report. A non-positive threshold means
// DefaultLowStockThreshold.
func ClassifyStock(products []ledger.Product, incomes []ledger.Record, threshold int) StockReport {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	sold := make(map[string]struct{}, len(incomes))
	for _, r := range incomes {
		sold[r.ProductID] = struct{}{}
	}

	var report StockReport
	for _, p := range products {
		switch {
		case p.Quantity == 0:
			report.Out = append(report.Out, p)
		case p.Quantity > 0 && p.Quantity < threshold:
			report.Low = append(report.Low, p)
		}
		if _, ok := sold[p.ID]; !ok && p.Quantity > 0 {
			report.Unsold = append(report.Unsold, p)
		}
		if p.StockValue().GreaterThan(HighValueThreshold) {
			report.HighValue = append(report.HighValue, p)
		}
	}
	return report
}

// StockLevel describes a single product's stock state.
type StockLevel int

const (
	StockAdequate StockLevel = iota
	StockLow
	StockOut
)

// LevelOf classifies one product quantity.
func LevelOf(quantity, threshold int) StockLevel {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case quantity <= 0:
		return StockOut
	case quantity < threshold:
		return StockLow
	default:
		return StockAdequate
	}
}
