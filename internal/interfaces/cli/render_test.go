package cli

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministock/backend/internal/application/analytics"
	"github.com/ministock/backend/internal/application/assistant"
)

func TestRenderer_Markdown(t *testing.T) {
	r, err := NewRenderer(WithStyle("dark"), WithWordWrap(60))
	require.NoError(t, err)

	out := r.Markdown("💰 **Ventas totales:** $10.00\nSegunda línea")

	assert.Contains(t, out, "Ventas")
	assert.Contains(t, out, "totales:")
	assert.Contains(t, out, "Segunda")
}

func TestRenderer_Plain(t *testing.T) {
	r := plainRenderer(t)
	assert.Equal(t, "**hola**\n", r.Markdown("**hola**\n\n"))
}

func TestChart_Pie(t *testing.T) {
	out := Chart(assistant.ChartDescriptor{
		Kind:  assistant.ChartPie,
		Title: "Ventas por categoría",
		Series: []assistant.Point{
			{Label: "Bebidas", Value: decimal.NewFromInt(75)},
			{Label: "Snacks", Value: decimal.NewFromInt(25)},
		},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Ventas por categoría", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "Bebidas")
	assert.Contains(t, lines[1], strings.Repeat("█", 18)+strings.Repeat("·", 6))
	assert.True(t, strings.HasSuffix(lines[1], " 75.0%"))
	assert.True(t, strings.HasSuffix(lines[2], " 25.0%"))
}

func TestChart_BarScalesToPeak(t *testing.T) {
	out := Chart(assistant.ChartDescriptor{
		Kind:  assistant.ChartBar,
		Title: "Top productos",
		Series: []assistant.Point{
			{Label: "Un nombre de producto muy largo", Value: decimal.NewFromInt(40)},
			{Label: "Agua", Value: decimal.NewFromInt(0)},
		},
	})

	assert.Contains(t, out, strings.Repeat("█", barWidth)+" 40.00")
	assert.Contains(t, out, "Un nombre de prod…")
	assert.Contains(t, out, strings.Repeat("·", barWidth)+" 0.00")
}

func TestChart_Line(t *testing.T) {
	out := Chart(assistant.ChartDescriptor{
		Kind:  assistant.ChartLine,
		Title: "Tendencia mensual",
		Monthly: []analytics.MonthPoint{
			{Label: "ene 2024", Income: decimal.NewFromInt(100), Expense: decimal.NewFromInt(50)},
		},
	})

	assert.Contains(t, out, "ene 2024  ↑ "+strings.Repeat("█", barWidth)+" 100.00")
	assert.Contains(t, out, "↓ "+strings.Repeat("█", barWidth/2)+strings.Repeat("·", barWidth/2)+" 50.00")
}

func TestChart_SmallValuesStillVisible(t *testing.T) {
	assert.Equal(t, "█"+strings.Repeat("·", barWidth-1), bar(decimal.NewFromInt(1), decimal.NewFromInt(1000)))
}
