package analytics

import (
	"sort"
	"time"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ProductQuantity is a product and a unit count.
type ProductQuantity struct {
	Name     string
	Quantity int
}

// CounterpartyStats aggregates the records of one client or provider.
type CounterpartyStats struct {
	Name     string
	ID       string
	Count    int
	Units    int
	Total    decimal.Decimal
	LastDate time.Time
	products []ProductQuantity
}

// Average returns the mean record total.
func (c CounterpartyStats) Average() decimal.Decimal {
	return Average(c.Total, c.Count)
}

// Products returns the units bought per product, most units first. Equal
// counts keep first-purchase order.
func (c CounterpartyStats) Products() []ProductQuantity {
	out := append([]ProductQuantity(nil), c.products...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Quantity > out[b].Quantity
	})
	return out
}

// DaysSinceLastPurchase counts whole days between the last purchase and now.
func (c CounterpartyStats) DaysSinceLastPurchase(now time.Time) int {
	if c.LastDate.IsZero() {
		return 0
	}
	return int(now.Sub(c.LastDate).Hours() / 24)
}

// RankClients groups incomes by client name and sorts by total spend,
// highest first. Equal totals keep first-encountered order.
func RankClients(incomes []ledger.Record) []CounterpartyStats {
	return rankCounterparties(incomes)
}

// BestClient returns the client with the highest total spend; ties go to
// the client encountered first.
func BestClient(incomes []ledger.Record) (CounterpartyStats, bool) {
	ranked := RankClients(incomes)
	if len(ranked) == 0 {
		return CounterpartyStats{}, false
	}
	return ranked[0], true
}

// ClientRecords returns the incomes attributed to the named client.
func ClientRecords(incomes []ledger.Record, name string) []ledger.Record {
	var out []ledger.Record
	for _, r := range incomes {
		if r.CounterpartyName == name {
			out = append(out, r)
		}
	}
	return out
}

// RankProviders groups expenses by provider name, highest spend first.
func RankProviders(expenses []ledger.Record) []CounterpartyStats {
	return rankCounterparties(expenses)
}

func rankCounterparties(records []ledger.Record) []CounterpartyStats {
	index := make(map[string]int)
	var out []CounterpartyStats
	for _, r := range records {
		i, ok := index[r.CounterpartyName]
		if !ok {
			i = len(out)
			index[r.CounterpartyName] = i
			out = append(out, CounterpartyStats{Name: r.CounterpartyName, ID: r.CounterpartyID, Total: decimal.Zero})
		}
		c := &out[i]
		c.Count++
		c.Units += r.Quantity
		c.Total = c.Total.Add(r.Total)
		if r.Date.After(c.LastDate) {
			c.LastDate = r.Date
		}
		c.products = addQuantity(c.products, r.ProductName, r.Quantity)
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Total.GreaterThan(out[b].Total)
	})
	return out
}

func addQuantity(list []ProductQuantity, name string, qty int) []ProductQuantity {
	for i := range list {
		if list[i].Name == name {
			list[i].Quantity += qty
			return list
		}
	}
	return append(list, ProductQuantity{Name: name, Quantity: qty})
}
