package assistant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ministock/backend/internal/application/analytics"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func balanceMark(balance decimal.Decimal) string {
	if balance.IsNegative() {
		return "⚠️"
	}
	return "✅"
}

func stockVerdict(quantity, threshold int) string {
	switch analytics.LevelOf(quantity, threshold) {
	case analytics.StockOut:
		return "⚠️ Producto sin stock"
	case analytics.StockLow:
		return "⚠️ Stock bajo - considera reabastecer"
	default:
		return "✅ Stock adecuado"
	}
}

// numbered renders lines as "1. a\n2. b".
func numbered(lines []string) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, l)
	}
	return b.String()
}

func bullets(lines []string, indent string) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = indent + "• " + l
	}
	return strings.Join(out, "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
