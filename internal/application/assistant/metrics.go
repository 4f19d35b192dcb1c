package assistant

import (
	"fmt"
	"strings"

	"github.com/ministock/backend/internal/application/analytics"
	"github.com/ministock/backend/internal/application/textmatch"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/domain/ledger"
)

var (
	askPrice        = textmatch.MustCompile(`(precio|cuanto cuesta)`)
	askStock        = textmatch.MustCompile(`(stock|cantidad|cuantas)`)
	askSummary      = textmatch.MustCompile(`(analisis|resumen|overview|dashboard|general)`)
	askTrends       = textmatch.MustCompile(`(tendencia|trend|evolucion|comportamiento)`)
	askAdvice       = textmatch.MustCompile(`(recomend|suger|consejo|que debo|ayuda)`)
	askSales        = textmatch.MustCompile(`(venta|vendido|ingreso)`)
	askToday        = textmatch.Words("hoy", "dia")
	askMonth        = textmatch.Words("mes")
	askPurchases    = textmatch.MustCompile(`(compra|adquisicion|egreso|gasto)`)
	askClients      = textmatch.MustCompile(`(cliente|comprador)`)
	askTopClients   = textmatch.MustCompile(`(mejor|\bmas\b|top|estadistica|quien.*compra)`)
	askBestClient   = textmatch.MustCompile(`(quien|cual|mejor cliente|cliente.*\bmas\b)`)
	askAllClients   = textmatch.MustCompile(`(todos|estadistica|analisis|resumen)`)
	askProviders    = textmatch.MustCompile(`(proveedor|supplier)`)
	askCategories   = textmatch.MustCompile(`(categoria|clasificacion)`)
	askLowStock     = textmatch.All(textmatch.MustCompile(`(stock|inventario|disponible)`), textmatch.MustCompile(`(bajo|poco)`))
	askPriceExtreme = textmatch.MustCompile(`(caro|costoso|barato|economico)`)
	askExpensive    = textmatch.MustCompile(`(caro|costoso)`)
	askRanking      = textmatch.All(textmatch.MustCompile(`(mejor|top|peor|menos)`), textmatch.MustCompile(`(producto|vendido)`))
	askBest         = textmatch.MustCompile(`(mejor|top)`)
	askProducts     = textmatch.MustCompile(`(producto|articulo|item)`)
	askCount        = textmatch.MustCompile(`(cuantos|total)`)
	askBalance      = textmatch.MustCompile(`(balance|ganancia|utilidad|beneficio|perdida|rentabilidad)`)
)

// inactiveDays is how long a client may go without buying before the
// drill-down suggests reaching out.
const inactiveDays = 30

func when(m textmatch.Matcher) func(t *Turn) bool {
	return func(t *Turn) bool { return t.Has(m) }
}

func metricRules() []Rule {
	return []Rule{
		{Name: "product.price", Match: when(askPrice), Respond: productPriceLookup},
		{Name: "product.stock", Match: when(askStock), Respond: productStockLookup},
		{Name: "summary", Match: when(askSummary), Respond: always(businessSummary)},
		{Name: "trends", Match: when(askTrends), Respond: always(trendAnalysis)},
		{Name: "recommendations", Match: when(askAdvice), Respond: always(recommendations)},
		{Name: "sales", Match: when(askSales), Respond: always(salesSummary)},
		{Name: "purchases", Match: when(askPurchases), Respond: always(purchasesSummary)},
		{Name: "clients", Match: when(askClients), Respond: always(clientsSummary)},
		{Name: "providers", Match: when(askProviders), Respond: always(providersSummary)},
		{Name: "categories", Match: when(askCategories), Respond: always(categoriesSummary)},
		{Name: "stock.low", Match: when(askLowStock), Respond: always(lowStockReport)},
		{Name: "products.price", Match: when(askPriceExtreme), Respond: always(priceExtremes)},
		{Name: "products.ranking", Match: when(askRanking), Respond: always(salesRanking)},
		{Name: "products", Match: when(askProducts), Respond: productsSummary},
		{Name: "balance", Match: when(askBalance), Respond: always(balanceSummary)},
	}
}

func productPriceLookup(t *Turn) (Reply, bool) {
	p, ok := t.FindProduct()
	if !ok {
		return Reply{}, false
	}
	text := fmt.Sprintf("💵 **%s**\n\nPrecio: %s\nStock: %d unidades\nValor total: %s",
		p.Name, money(p.Price), p.Quantity, money(p.StockValue()))
	if p.Description != "" {
		text += "\n\n📝 " + p.Description
	}
	return say(text).withUpdate(mentionProduct(p).WithValue(p.Price)), true
}

func productStockLookup(t *Turn) (Reply, bool) {
	p, ok := t.FindProduct()
	if !ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("📦 **%s**\n\nStock actual: %d unidades\nPrecio unitario: %s\nValor en inventario: %s\n\n%s",
		p.Name, p.Quantity, money(p.Price), money(p.StockValue()), stockVerdict(p.Quantity, t.Settings.LowStockThreshold))).
		withUpdate(mentionProduct(p)), true
}

func mentionProduct(p ledger.Product) conversation.Update {
	return conversation.Update{}.WithEntity(conversation.EntityProduct, p.Name, p.ID)
}

func businessSummary(t *Turn) Reply {
	v := t.View
	totals := analytics.ComputeTotals(v.Incomes, v.Expenses)
	text := fmt.Sprintf(`📊 **Resumen Completo del Negocio**

📦 **Inventario:**
  • %d productos diferentes
  • %d unidades totales
  • Valor: %s

💰 **Financiero:**
  • Ventas: %s
  • Compras: %s
  • Balance: %s

👥 **Contactos:**
  • %d clientes
  • %d proveedores

📁 **Categorías:** %d`,
		len(v.Products), analytics.InventoryUnits(v.Products), money(analytics.InventoryValue(v.Products)),
		money(totals.Income), money(totals.Expense), money(totals.Balance),
		len(v.Clients), len(v.Providers), len(v.Categories))
	return say(text)
}

func trendAnalysis(t *Turn) Reply {
	totals := analytics.ComputeTotals(t.View.Incomes, t.View.Expenses)
	var b strings.Builder
	fmt.Fprintf(&b, "📈 **Análisis de Tendencias**\n\n💰 Ventas totales: %s\n🛒 Compras totales: %s\n%s Balance: %s\n📊 Margen: %s%%\n",
		money(totals.Income), money(totals.Expense), balanceMark(totals.Balance), money(totals.Balance), totals.MarginText())
	if top := analytics.TopProducts(t.View.Incomes, 3); len(top) > 0 {
		lines := make([]string, len(top))
		for i, p := range top {
			lines[i] = fmt.Sprintf("%s: %d unidades (%s)", p.Name, p.Quantity, money(p.Revenue))
		}
		b.WriteString("\n🏆 **Productos más vendidos:**\n" + numbered(lines) + "\n")
	}
	return say(b.String()).withUpdate(conversation.Update{Analysis: conversation.AnalysisBalance}.WithValue(totals.Balance))
}

func recommendations(t *Turn) Reply {
	v := t.View
	report := analytics.ClassifyStock(v.Products, v.Incomes, t.Settings.LowStockThreshold)
	var sections []string

	// out-of-stock products are listed here too
	var low []ledger.Product
	for _, p := range v.Products {
		if p.Quantity < t.Settings.LowStockThreshold {
			low = append(low, p)
		}
	}
	if len(low) > 0 {
		lines := make([]string, len(low))
		for i, p := range low {
			lines[i] = fmt.Sprintf("%s: %d unidades", p.Name, p.Quantity)
		}
		sections = append(sections, fmt.Sprintf("⚠️ **Productos con bajo stock (%d):**\n%s", len(low), bullets(lines, "  ")))
	}
	if len(report.Out) > 0 {
		sections = append(sections, fmt.Sprintf("🚨 **Productos sin stock (%d):**\n%s", len(report.Out), bullets(names(report.Out, len(report.Out)), "  ")))
	}
	if len(report.Unsold) > 0 {
		sections = append(sections, fmt.Sprintf("💡 **Productos sin ventas aún (%d):**\n%s", len(report.Unsold), bullets(names(report.Unsold, 5), "  ")))
	}
	if len(report.HighValue) > 0 {
		hv := report.HighValue
		if len(hv) > 3 {
			hv = hv[:3]
		}
		lines := make([]string, len(hv))
		for i, p := range hv {
			lines[i] = fmt.Sprintf("%s: %s", p.Name, money(p.StockValue()))
		}
		sections = append(sections, "💎 **Productos de alto valor en inventario:**\n"+bullets(lines, "  "))
	}
	if len(sections) == 0 {
		return say("✅ ¡Tu inventario está en excelente estado! No tengo recomendaciones críticas por el momento.")
	}
	return say(strings.Join(sections, "\n\n"))
}

func names(products []ledger.Product, limit int) []string {
	var out []string
	for i, p := range products {
		if i == limit {
			break
		}
		out = append(out, p.Name)
	}
	return out
}

func salesSummary(t *Turn) Reply {
	incomes := t.View.Incomes
	update := conversation.Update{Analysis: conversation.AnalysisSales}
	switch {
	case t.Has(askToday):
		today := analytics.SameDay(incomes, t.Now)
		total := analytics.SumTotal(today)
		return say(fmt.Sprintf("📅 **Ventas de hoy:**\n\n%d ventas\n%d unidades\nTotal: %s", len(today), analytics.SumUnits(today), money(total))).
			withUpdate(update.WithValue(total))
	case t.Has(askMonth):
		month := analytics.SameMonth(incomes, t.Now)
		total := analytics.SumTotal(month)
		return say(fmt.Sprintf("📅 **Ventas del mes:**\n\n%d ventas\n%d unidades\nTotal: %s", len(month), analytics.SumUnits(month), money(total))).
			withUpdate(update.WithValue(total))
	}
	total := analytics.SumTotal(incomes)
	return say(fmt.Sprintf("💰 **Resumen de Ventas**\n\nTotal de ventas: %d\nUnidades vendidas: %d\nIngresos totales: %s\nPromedio por venta: %s",
		len(incomes), analytics.SumUnits(incomes), money(total), money(analytics.Average(total, len(incomes))))).
		withUpdate(update.WithValue(total))
}

func purchasesSummary(t *Turn) Reply {
	expenses := t.View.Expenses
	total := analytics.SumTotal(expenses)
	return say(fmt.Sprintf("🛒 **Resumen de Compras**\n\nTotal de compras: %d\nUnidades compradas: %d\nGastos totales: %s\nPromedio por compra: %s",
		len(expenses), analytics.SumUnits(expenses), money(total), money(analytics.Average(total, len(expenses))))).
		withUpdate(conversation.Update{Analysis: conversation.AnalysisPurchases}.WithValue(total))
}

func clientsSummary(t *Turn) Reply {
	clientsUpdate := conversation.Update{Analysis: conversation.AnalysisClients}
	if t.Has(askTopClients) {
		ranked := analytics.RankClients(t.View.Incomes)
		if len(ranked) == 0 {
			return say("📊 Aún no tienes ventas registradas para analizar clientes.")
		}
		if t.Has(askBestClient) {
			return bestClientReport(t, ranked[0])
		}
		if len(ranked) > 10 {
			ranked = ranked[:10]
		}
		return say(fmt.Sprintf("👥 **Top %d Mejores Clientes**\n\n%s\n\n💡 **Tip:** pregunta \"¿quién es mi mejor cliente?\" para ver estadísticas detalladas.",
			len(ranked), counterpartyBlocks(ranked))).withUpdate(clientsUpdate)
	}
	if t.Has(askAllClients) {
		return clientStatistics(t).withUpdate(clientsUpdate)
	}

	clients := t.View.Clients
	body := "No hay clientes registrados aún."
	if len(clients) > 0 {
		var lines []string
		for i, c := range clients {
			if i == 5 {
				break
			}
			line := c.Name
			if c.Phone != "" {
				line += " - " + c.Phone
			}
			lines = append(lines, line)
		}
		body = bullets(lines, "")
		if len(clients) > 5 {
			body += "\n\n...y más."
		}
	}
	return say(fmt.Sprintf("👥 **Clientes Registrados:** %d\n\n%s\n\n💡 **Consultas disponibles:**\n• \"¿Quién es mi mejor cliente?\"\n• \"Estadísticas de clientes\"\n• \"Todos los clientes\"",
		len(clients), body)).withUpdate(clientsUpdate)
}

func bestClientReport(t *Turn, best analytics.CounterpartyStats) Reply {
	var favourites []string
	for i, p := range best.Products() {
		if i == 3 {
			break
		}
		favourites = append(favourites, fmt.Sprintf("%s (%d unidades)", p.Name, p.Quantity))
	}

	contact := "• Información no disponible"
	for _, c := range t.View.Clients {
		if c.ID == best.ID {
			contact = fmt.Sprintf("• Teléfono: %s\n• Email: %s", orDefault(c.Phone, "No registrado"), orDefault(c.Email, "No registrado"))
			break
		}
	}

	days := best.DaysSinceLastPurchase(t.Now)
	advice := "✅ Cliente activo. Mantén la buena relación."
	if days > inactiveDays {
		advice = "⚠️ Este cliente no compra desde hace más de un mes. Considera contactarlo con una promoción."
	}

	share := analytics.Share(best.Total, analytics.SumTotal(t.View.Incomes)).StringFixed(1)

	text := fmt.Sprintf(`🏆 **Mejor Cliente: %s**

📊 **Estadísticas Generales:**
• Total gastado: %s
• Número de compras: %d
• Promedio por compra: %s
• Participación en ventas: %s%%
• Última compra: hace %d día(s)

📦 **Productos Favoritos:**
%s

📞 **Información de Contacto:**
%s

💡 **Recomendación:**
%s`,
		best.Name, money(best.Total), best.Count, money(best.Average()), share, days,
		numbered(favourites), contact, advice)

	update := conversation.Update{Analysis: conversation.AnalysisClients}.
		WithEntity(conversation.EntityClient, best.Name, best.ID).
		WithValue(best.Total)
	return say(text).withUpdate(update)
}

func clientStatistics(t *Turn) Reply {
	clients := t.View.Clients
	if len(clients) == 0 {
		return say("👥 No tienes clientes registrados aún.")
	}
	ranked := analytics.RankClients(t.View.Incomes)
	active := len(ranked)
	inactive := len(clients) - active
	if inactive < 0 {
		inactive = 0
	}
	revenue := analytics.SumTotal(t.View.Incomes)

	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	lines := make([]string, len(top))
	for i, c := range top {
		lines[i] = fmt.Sprintf("%s: %s (%d compras)", c.Name, money(c.Total), c.Count)
	}

	advice := "✅ Todos tus clientes han realizado compras."
	if inactive > 0 {
		advice = fmt.Sprintf("⚠️ Tienes %d cliente(s) que aún no han comprado. ¡Contáctalos!", inactive)
	}

	return say(fmt.Sprintf(`👥 **Análisis Completo de Clientes**

📊 **Resumen General:**
• Total de clientes: %d
• Clientes activos: %d
• Clientes sin compras: %d

💰 **Ingresos por Clientes:**
• Ingresos totales: %s
• Promedio por cliente: %s

🏆 **Top 3 Clientes:**
%s

💡 **Recomendación:**
%s`,
		len(clients), active, inactive, money(revenue), money(analytics.Average(revenue, active)), numbered(lines), advice))
}

func providersSummary(t *Turn) Reply {
	providers := t.View.Providers
	body := "No hay proveedores registrados aún."
	if len(providers) > 0 {
		var lines []string
		for i, p := range providers {
			if i == 5 {
				break
			}
			line := p.Name
			if p.Contact != "" {
				line += " - " + p.Contact
			}
			lines = append(lines, line)
		}
		body = bullets(lines, "")
	}
	return say(fmt.Sprintf("🏭 **Proveedores Registrados:** %d\n\n%s", len(providers), body)).
		withUpdate(conversation.Update{Analysis: conversation.AnalysisPurchases})
}

func categoriesSummary(t *Turn) Reply {
	if len(t.View.Categories) == 0 {
		return say("📁 No tienes categorías creadas aún. Te recomiendo crear categorías para organizar mejor tus productos.")
	}
	values := analytics.CategoryValues(t.View.Products, t.View.Categories)
	lines := make([]string, len(values))
	for i, c := range values {
		lines[i] = fmt.Sprintf("%s: %d productos (%s)", c.Name, c.Count, money(c.Value))
	}
	return say(fmt.Sprintf("📁 **Categorías (%d):**\n\n%s", len(values), bullets(lines, ""))).
		withUpdate(conversation.Update{Analysis: conversation.AnalysisProducts})
}

const noLowStockText = "✅ No hay productos con stock bajo. ¡Todo está bien!"

func lowStockReport(t *Turn) Reply {
	report := analytics.ClassifyStock(t.View.Products, t.View.Incomes, t.Settings.LowStockThreshold)
	var sections []string
	if len(report.Out) > 0 {
		sections = append(sections, fmt.Sprintf("🚨 **Sin stock (%d):**\n%s", len(report.Out), bullets(names(report.Out, len(report.Out)), "  ")))
	}
	if len(report.Low) > 0 {
		lines := make([]string, len(report.Low))
		for i, p := range report.Low {
			lines[i] = fmt.Sprintf("%s: %d unidades", p.Name, p.Quantity)
		}
		sections = append(sections, fmt.Sprintf("⚠️ **Stock bajo (%d):**\n%s", len(report.Low), bullets(lines, "  ")))
	}
	if len(sections) == 0 {
		return say(noLowStockText)
	}
	return say(strings.Join(sections, "\n\n")).withUpdate(conversation.Update{Analysis: conversation.AnalysisProducts})
}

func priceExtremes(t *Turn) Reply {
	if len(t.View.Products) == 0 {
		return say("📦 No hay productos registrados aún.")
	}
	expensive := t.Has(askExpensive)
	ranked := analytics.PriceRanking(t.View.Products, expensive, t.Settings.TopN)
	lines := make([]string, len(ranked))
	for i, p := range ranked {
		lines[i] = fmt.Sprintf("%s: %s (%d en stock)", p.Name, money(p.Price), p.Quantity)
	}
	header := "💵 **Productos más económicos:**"
	if expensive {
		header = "💎 **Productos más caros:**"
	}
	return say(header + "\n\n" + numbered(lines))
}

func salesRanking(t *Turn) Reply {
	if len(t.View.Incomes) == 0 {
		return say("📊 Aún no hay ventas registradas para analizar.")
	}
	best := t.Has(askBest)
	var ranked []analytics.ProductSales
	header := "📉 **Productos con menos ventas:**"
	if best {
		ranked = analytics.TopProducts(t.View.Incomes, t.Settings.TopN)
		header = "🏆 **Mejores:**"
	} else {
		ranked = analytics.BottomProducts(t.View.Incomes, t.Settings.TopN)
	}
	lines := make([]string, len(ranked))
	for i, p := range ranked {
		lines[i] = fmt.Sprintf("%s: %d unidades (%s)", p.Name, p.Quantity, money(p.Revenue))
	}
	return say(header + "\n\n" + numbered(lines)).withUpdate(conversation.Update{Analysis: conversation.AnalysisProducts})
}

func productsSummary(t *Turn) (Reply, bool) {
	products := t.View.Products
	update := conversation.Update{Analysis: conversation.AnalysisProducts}
	if t.Has(askCount) {
		value := analytics.InventoryValue(products)
		return say(fmt.Sprintf("📦 **Productos:** %d\n\nTotal de unidades: %d\nValor total del inventario: %s\nValor promedio por producto: %s",
			len(products), analytics.InventoryUnits(products), money(value), money(analytics.Average(value, len(products))))).
			withUpdate(update.WithValue(value)), true
	}
	if len(products) == 0 {
		return Reply{}, false
	}
	var lines []string
	for i, p := range products {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s - %s (%d unidades)", p.Name, money(p.Price), p.Quantity))
	}
	text := fmt.Sprintf("📦 Tienes %d productos registrados. Algunos son:\n\n%s", len(products), bullets(lines, ""))
	if len(products) > 5 {
		text += "\n\n...y más. ¿Quieres saber algo específico?"
	}
	return say(text).withUpdate(update), true
}

func balanceSummary(t *Turn) Reply {
	totals := analytics.ComputeTotals(t.View.Incomes, t.View.Expenses)
	verdict := "Considera optimizar tus costos y aumentar ventas."
	switch {
	case totals.Balance.IsPositive():
		verdict = "¡Excelente! Estás generando ganancias."
	case totals.Balance.IsZero():
		verdict = "Estás en punto de equilibrio."
	}
	r := say(fmt.Sprintf("💰 **Análisis Financiero**\n\nIngresos: %s\nEgresos: %s\n%s Balance: %s\n📊 Margen: %s%%\n\n%s",
		money(totals.Income), money(totals.Expense), balanceMark(totals.Balance), money(totals.Balance), totals.MarginText(), verdict)).
		withUpdate(conversation.Update{Analysis: conversation.AnalysisBalance}.WithValue(totals.Balance))
	if hasActivity(totals) {
		r = r.withChart(summaryChart(totals))
	}
	return r
}
