package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

var shortMonths = [...]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sept", "oct", "nov", "dic"}

// MonthPoint is one calendar month of activity.
type MonthPoint struct {
	Year    int
	Month   time.Month
	Label   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// MonthLabel formats a month the way es-ES short dates do, e.g. "ene 2026".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", shortMonths[month-1], year)
}

// MonthlySeries buckets incomes and expenses by calendar month of loc.
// Only months with at least one record are emitted, oldest first.
func MonthlySeries(incomes, expenses []ledger.Record, loc *time.Location) []MonthPoint {
	if loc == nil {
		loc = time.Local
	}
	type key struct {
		year  int
		month time.Month
	}
	buckets := make(map[key]*MonthPoint)
	bucket := func(t time.Time) *MonthPoint {
		t = t.In(loc)
		k := key{t.Year(), t.Month()}
		p, ok := buckets[k]
		if !ok {
			p = &MonthPoint{Year: k.year, Month: k.month, Label: MonthLabel(k.year, k.month), Income: decimal.Zero, Expense: decimal.Zero}
			buckets[k] = p
		}
		return p
	}
	for _, r := range incomes {
		p := bucket(r.Date)
		p.Income = p.Income.Add(r.Total)
	}
	for _, r := range expenses {
		p := bucket(r.Date)
		p.Expense = p.Expense.Add(r.Total)
	}

	out := make([]MonthPoint, 0, len(buckets))
	for _, p := range buckets {
		p.Balance = p.Income.Sub(p.Expense)
		out = append(out, *p)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Year != out[b].Year {
			return out[a].Year < out[b].Year
		}
		return out[a].Month < out[b].Month
	})
	return out
}

// SameDay returns the records dated on the same calendar day as day.
func SameDay(records []ledger.Record, day time.Time) []ledger.Record {
	y, m, d := day.Date()
	var out []ledger.Record
	for _, r := range records {
		ry, rm, rd := r.Date.In(day.Location()).Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// SameMonth returns the records dated in the same calendar month and year
// as day.
func SameMonth(records []ledger.Record, day time.Time) []ledger.Record {
	y, m, _ := day.Date()
	var out []ledger.Record
	for _, r := range records {
		ry, rm, _ := r.Date.In(day.Location()).Date()
		if ry == y && rm == m {
			out = append(out, r)
		}
	}
	return out
}
