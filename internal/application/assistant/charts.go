package assistant

import (
	"fmt"

	"github.com/ministock/backend/internal/application/analytics"
	"github.com/ministock/backend/internal/application/textmatch"
	"github.com/ministock/backend/internal/domain/conversation"
)

var (
	chartTrigger = textmatch.MustCompile(`(grafica|grafico|chart|visualiza|dibuja|estadistica)`)
	chartPie     = textmatch.MustCompile(`(balance|distribucion|ingresos.*egresos|pie)`)
	chartBar     = textmatch.MustCompile(`(producto|vendido|top|mejor.*producto|bar)`)
	chartLine    = textmatch.MustCompile(`(tendencia|mensual|evolucion|line|tiempo|histori)`)
)

const (
	noBalanceChartText  = "📊 No hay datos suficientes para generar la gráfica de balance. Registra algunas ventas y compras primero."
	noProductsChartText = "📊 No hay ventas registradas para generar la gráfica de productos."
	noTrendChartText    = "📊 No hay datos suficientes para generar la gráfica de tendencias. Registra algunas transacciones primero."
)

// chartRule handles visualization requests. "Estadísticas de clientes" is a
// client question, not a chart request, so client nouns are excluded.
func chartRule() Rule {
	return Rule{
		Name: "chart",
		Match: func(t *Turn) bool {
			return t.Has(chartTrigger) && !t.Has(nounClient)
		},
		Respond: always(func(t *Turn) Reply {
			switch {
			case t.Has(chartPie):
				return balanceChart(t)
			case t.Has(chartBar):
				return productsChart(t)
			case t.Has(chartLine):
				return trendChart(t)
			}
			r := say(chartMenuText)
			r.Intent = "menu"
			return r
		}),
	}
}

func balanceChart(t *Turn) Reply {
	totals := analytics.ComputeTotals(t.View.Incomes, t.View.Expenses)
	r := Reply{Intent: "pie"}
	if !hasActivity(totals) {
		r.Response.Text = noBalanceChartText
		return r
	}
	r.Response = Response{
		Text: fmt.Sprintf("📊 **Gráfica de Distribución: Ingresos vs Egresos**\n\nIngresos: %s\nEgresos: %s\nBalance: %s",
			money(totals.Income), money(totals.Expense), money(totals.Balance)),
		Chart: &ChartDescriptor{
			Kind:  ChartPie,
			Title: "Ingresos vs Egresos",
			Series: []Point{
				{Label: "Ingresos", Value: totals.Income},
				{Label: "Egresos", Value: totals.Expense},
			},
		},
	}
	r.Update = conversation.Update{Analysis: conversation.AnalysisBalance}.WithValue(totals.Balance)
	return r
}

func productsChart(t *Turn) Reply {
	top := analytics.TopProducts(t.View.Incomes, t.Settings.TopN)
	r := Reply{Intent: "bar"}
	if len(top) == 0 {
		r.Response.Text = noProductsChartText
		return r
	}
	series := make([]Point, len(top))
	lines := make([]string, len(top))
	for i, p := range top {
		series[i] = Point{Label: p.Name, Value: p.Revenue}
		lines[i] = fmt.Sprintf("%s: %s", p.Name, money(p.Revenue))
	}
	r.Response = Response{
		Text: fmt.Sprintf("📊 **Gráfica de Barras: Top %d Productos Más Vendidos**\n\n%s", len(top), numbered(lines)),
		Chart: &ChartDescriptor{
			Kind:   ChartBar,
			Title:  "Productos más vendidos",
			Series: series,
		},
	}
	r.Update = conversation.Update{Analysis: conversation.AnalysisProducts}
	return r
}

func trendChart(t *Turn) Reply {
	series := analytics.MonthlySeries(t.View.Incomes, t.View.Expenses, t.Settings.Location)
	r := Reply{Intent: "line"}
	if len(series) == 0 {
		r.Response.Text = noTrendChartText
		return r
	}
	r.Response = Response{
		Text: fmt.Sprintf("📊 **Gráfica de Tendencia: Evolución Mensual**\n\nMostrando %d periodo(s) de datos", len(series)),
		Chart: &ChartDescriptor{
			Kind:    ChartLine,
			Title:   "Evolución mensual",
			Monthly: series,
		},
	}
	r.Update = conversation.Update{Analysis: conversation.AnalysisBalance}
	return r
}

func summaryChart(totals analytics.Totals) *ChartDescriptor {
	return &ChartDescriptor{
		Kind:  ChartSummary,
		Title: "Resumen financiero",
		Summary: &SummaryValues{
			Income:  totals.Income,
			Expense: totals.Expense,
			Balance: totals.Balance,
		},
	}
}

func hasActivity(totals analytics.Totals) bool {
	return !totals.Income.IsZero() || !totals.Expense.IsZero()
}

const chartMenuText = `📊 **Gráficas y Estadísticas Disponibles**

Puedo mostrarte varias visualizaciones de tus datos:

📈 **Productos:**
• "Muestra gráfica de productos más vendidos"
• "Gráfica top productos"

📉 **Balance:**
• "Muestra gráfica de balance"
• "Gráfica de ingresos vs egresos"

📊 **Tendencias:**
• "Gráfica de ventas en el tiempo"
• "Gráfica de tendencia mensual"

💡 **Tip:** también puedo darte análisis con "Dame un resumen general", "Análisis de tendencias" o "Recomendaciones".

¿Qué gráfica quieres ver?`
