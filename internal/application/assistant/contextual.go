package assistant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ministock/backend/internal/application/analytics"
	"github.com/ministock/backend/internal/application/textmatch"
	"github.com/ministock/backend/internal/domain/conversation"
)

var (
	referenceMarker = textmatch.Any(
		textmatch.Words("el", "ella", "esa", "ese", "esto", "eso", "esta", "este", "su", "sus",
			"cuanto", "cuanta", "cuantos", "cuantas", "que", "como", "donde", "por que", "porque"),
		textmatch.MustCompile(`^(y|pero)\s`),
	)

	clientFollowUp  = textmatch.MustCompile(`(cuanto|cuanta|cuantos|cuantas|ha comprado|compras|gasta|gastado|productos|telefono|email|correo|contacto)`)
	clientSpend     = textmatch.MustCompile(`(cuanto|total|gastado|comprado)`)
	clientCount     = textmatch.MustCompile(`(cuantas|compras|veces|ha comprado)`)
	clientProducts  = textmatch.MustCompile(`(que|cuales|productos|items|articulos)`)
	clientContact   = textmatch.MustCompile(`(telefono|email|correo|contacto)`)
	productFollowUp = textmatch.MustCompile(`(cuanto|cuanta|stock|precio|cuesta|vale|cantidad|hay|quedan|descripcion|categoria)`)
	productPrice    = textmatch.MustCompile(`(cuanto|precio|cuesta|vale)`)
	productStock    = textmatch.MustCompile(`(cuanto|cuanta|stock|hay|quedan|cantidad|tengo)`)
	productDesc     = textmatch.MustCompile(`(descripcion|que es|de que)`)
	productCategory = textmatch.MustCompile(`(categoria|tipo|clasificacion)`)
	moreDetail      = textmatch.MustCompile(`(\bmas\b|detalle|informacion|completo|amplia)`)
	judgeValue      = textmatch.MustCompile(`(como|por que|porque|es mucho|es poco|esta bien)`)
)

var significantValue = decimal.NewFromInt(1000)
var moderateValue = decimal.NewFromInt(100)

// contextRouter resolves follow-ups against what the previous turns
// mentioned. Client references are tried before product references, then
// the last analysis, then the last figure quoted.
var contextRouter = NewRouter(
	Rule{Name: "client.spend", Match: clientRef(clientSpend), Respond: always(clientSpendReply)},
	Rule{Name: "client.purchases", Match: clientRef(clientCount), Respond: always(clientCountReply)},
	Rule{Name: "client.products", Match: clientRef(clientProducts), Respond: always(clientProductsReply)},
	Rule{Name: "client.contact", Match: clientRef(clientContact), Respond: clientContactReply},
	Rule{Name: "product.missing", Match: productRef(nil), Respond: productMissingReply},
	Rule{Name: "product.price", Match: productRef(productPrice), Respond: productPriceReply},
	Rule{Name: "product.stock", Match: productRef(productStock), Respond: productStockReply},
	Rule{Name: "product.description", Match: productRef(productDesc), Respond: productDescriptionReply},
	Rule{Name: "product.category", Match: productRef(productCategory), Respond: productCategoryReply},
	Rule{Name: "analysis.detail", Match: analysisRef, Respond: analysisDetailReply},
	Rule{Name: "value.judgement", Match: valueRef, Respond: always(valueJudgementReply)},
)

func contextualRule() Rule {
	return Rule{
		Name: "context",
		Match: func(t *Turn) bool {
			return t.HasHistory() && t.Has(referenceMarker)
		},
		Respond: func(t *Turn) (Reply, bool) {
			res, ok := contextRouter.Route(t)
			if !ok {
				return Reply{}, false
			}
			res.Reply.Intent = res.Rule
			return res.Reply, true
		},
	}
}

func clientRef(sub textmatch.Matcher) func(t *Turn) bool {
	return func(t *Turn) bool {
		return t.Memory.LastClient.Name != "" && t.Has(clientFollowUp) && t.Has(sub)
	}
}

func productRef(sub textmatch.Matcher) func(t *Turn) bool {
	return func(t *Turn) bool {
		if t.Memory.LastProduct.Name == "" || !t.Has(productFollowUp) {
			return false
		}
		return sub == nil || t.Has(sub)
	}
}

func analysisRef(t *Turn) bool {
	return t.Memory.LastAnalysis.Valid() && t.Has(moreDetail)
}

func valueRef(t *Turn) bool {
	v := t.Memory.LastValue
	return v.Valid && !v.Decimal.IsZero() && t.Has(judgeValue)
}

func clientSpendReply(t *Turn) Reply {
	name := t.Memory.LastClient.Name
	records := analytics.ClientRecords(t.View.Incomes, name)
	total := analytics.SumTotal(records)
	return say(fmt.Sprintf("💰 **%s** ha gastado un total de **%s** en %d compra(s).", name, money(total), len(records))).
		withUpdate(conversation.Update{}.WithValue(total))
}

func clientCountReply(t *Turn) Reply {
	name := t.Memory.LastClient.Name
	records := analytics.ClientRecords(t.View.Incomes, name)
	return say(fmt.Sprintf("📊 **%s** ha realizado **%d compra(s)** con un total de **%d unidad(es)**.",
		name, len(records), analytics.SumUnits(records)))
}

func clientProductsReply(t *Turn) Reply {
	name := t.Memory.LastClient.Name
	stats := analytics.RankClients(analytics.ClientRecords(t.View.Incomes, name))
	var lines []string
	if len(stats) > 0 {
		for i, p := range stats[0].Products() {
			if i == analytics.DefaultTopN {
				break
			}
			lines = append(lines, fmt.Sprintf("%s: %d unidad(es)", p.Name, p.Quantity))
		}
	}
	if len(lines) == 0 {
		return say(fmt.Sprintf("📦 **%s** aún no ha comprado productos.", name))
	}
	return say(fmt.Sprintf("📦 **Productos comprados por %s:**\n\n%s", name, numbered(lines)))
}

func clientContactReply(t *Turn) (Reply, bool) {
	name := t.Memory.LastClient.Name
	client, ok := t.View.ClientByName(name)
	if !ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("📞 **Contacto de %s:**\n\n• Teléfono: %s\n• Email: %s",
		name, orDefault(client.Phone, "No registrado"), orDefault(client.Email, "No registrado"))), true
}

func productMissingReply(t *Turn) (Reply, bool) {
	name := t.Memory.LastProduct.Name
	if _, ok := t.View.ProductByName(name); ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("❌ No encuentro información sobre \"%s\" en el inventario actual.", name)), true
}

func productPriceReply(t *Turn) (Reply, bool) {
	p, ok := t.View.ProductByName(t.Memory.LastProduct.Name)
	if !ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("💵 **%s** cuesta **%s** por unidad.", p.Name, money(p.Price))).
		withUpdate(conversation.Update{}.WithValue(p.Price)), true
}

func productStockReply(t *Turn) (Reply, bool) {
	p, ok := t.View.ProductByName(t.Memory.LastProduct.Name)
	if !ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("📦 **%s** tiene **%d unidad(es)** en stock.\n\n%s",
		p.Name, p.Quantity, stockVerdict(p.Quantity, t.Settings.LowStockThreshold))), true
}

func productDescriptionReply(t *Turn) (Reply, bool) {
	p, ok := t.View.ProductByName(t.Memory.LastProduct.Name)
	if !ok {
		return Reply{}, false
	}
	return say(fmt.Sprintf("📝 **%s**\n\n%s\n\n💵 Precio: %s\n📦 Stock: %d unidades",
		p.Name, orDefault(p.Description, "Sin descripción disponible"), money(p.Price), p.Quantity)), true
}

func productCategoryReply(t *Turn) (Reply, bool) {
	p, ok := t.View.ProductByName(t.Memory.LastProduct.Name)
	if !ok {
		return Reply{}, false
	}
	category := "Sin categoría"
	if c, found := t.View.CategoryByID(p.CategoryID); found {
		category = c.Name
	}
	return say(fmt.Sprintf("📁 **%s** pertenece a la categoría: **%s**", p.Name, category)), true
}

func valueJudgementReply(t *Turn) Reply {
	v := t.Memory.LastValue.Decimal
	verdict := "⚠️ Es un valor bajo, considera estrategias para incrementarlo."
	switch {
	case v.GreaterThan(significantValue):
		verdict = "✅ Es un valor significativo para tu negocio."
	case v.GreaterThan(moderateValue):
		verdict = "📊 Es un valor moderado."
	}
	return say(fmt.Sprintf("💡 Basándome en el valor de **%s** que mencioné antes, puedo decir que:\n\n%s", money(v), verdict))
}

func analysisDetailReply(t *Turn) (Reply, bool) {
	var text string
	switch t.Memory.LastAnalysis {
	case conversation.AnalysisClients:
		text = clientDetail(t)
	case conversation.AnalysisSales:
		text = salesDetail(t)
	case conversation.AnalysisPurchases:
		text = purchasesDetail(t)
	case conversation.AnalysisBalance:
		text = balanceDetail(t)
	case conversation.AnalysisProducts:
		text = productsDetail(t)
	default:
		return Reply{}, false
	}
	return say(text), true
}

func clientDetail(t *Turn) string {
	ranked := analytics.RankClients(t.View.Incomes)
	if len(ranked) == 0 {
		return "📊 Aún no tienes ventas registradas para analizar clientes."
	}
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return "👥 **Análisis Detallado de Clientes**\n\n" + counterpartyBlocks(ranked)
}

func counterpartyBlocks(stats []analytics.CounterpartyStats) string {
	blocks := make([]string, len(stats))
	for i, c := range stats {
		blocks[i] = fmt.Sprintf("%d. **%s**\n   • Compras: %d\n   • Total: %s\n   • Promedio: %s",
			i+1, c.Name, c.Count, money(c.Total), money(c.Average()))
	}
	return strings.Join(blocks, "\n\n")
}

func salesDetail(t *Turn) string {
	incomes := t.View.Incomes
	if len(incomes) == 0 {
		return "📊 Aún no hay ventas registradas para analizar."
	}
	today := analytics.SameDay(incomes, t.Now)
	month := analytics.SameMonth(incomes, t.Now)
	var lines []string
	for _, p := range analytics.TopProducts(incomes, t.Settings.TopN) {
		lines = append(lines, fmt.Sprintf("%s: %d unidades (%s)", p.Name, p.Quantity, money(p.Revenue)))
	}
	return fmt.Sprintf("💰 **Análisis Detallado de Ventas**\n\n📅 Hoy: %d ventas, %s\n📅 Este mes: %d ventas, %s\n\n🏆 **Productos más vendidos:**\n%s",
		len(today), money(analytics.SumTotal(today)), len(month), money(analytics.SumTotal(month)), numbered(lines))
}

func purchasesDetail(t *Turn) string {
	ranked := analytics.RankProviders(t.View.Expenses)
	if len(ranked) == 0 {
		return "📊 Aún no hay compras registradas para analizar."
	}
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	return "🛒 **Análisis Detallado de Compras por Proveedor**\n\n" + counterpartyBlocks(ranked)
}

func balanceDetail(t *Turn) string {
	series := analytics.MonthlySeries(t.View.Incomes, t.View.Expenses, t.Settings.Location)
	if len(series) == 0 {
		return "📊 Aún no hay transacciones registradas para analizar."
	}
	lines := make([]string, len(series))
	for i, m := range series {
		lines[i] = fmt.Sprintf("%s: ingresos %s, egresos %s, balance %s", m.Label, money(m.Income), money(m.Expense), money(m.Balance))
	}
	return "📈 **Balance Mes a Mes**\n\n" + bullets(lines, "")
}

func productsDetail(t *Turn) string {
	if len(t.View.Products) == 0 {
		return "📦 No hay productos registrados aún."
	}
	report := analytics.ClassifyStock(t.View.Products, t.View.Incomes, t.Settings.LowStockThreshold)
	text := fmt.Sprintf("📦 **Detalle del Inventario**\n\n• %d productos\n• %d unidades\n• Valor: %s\n• Stock bajo: %d\n• Sin stock: %d\n• Sin ventas aún: %d",
		len(t.View.Products), analytics.InventoryUnits(t.View.Products), money(analytics.InventoryValue(t.View.Products)),
		len(report.Low), len(report.Out), len(report.Unsold))
	if cats := analytics.CategoryValues(t.View.Products, t.View.Categories); len(cats) > 0 {
		lines := make([]string, len(cats))
		for i, c := range cats {
			lines[i] = fmt.Sprintf("%s: %d productos (%s)", c.Name, c.Count, money(c.Value))
		}
		text += "\n\n📁 **Por categoría:**\n" + bullets(lines, "")
	}
	return text
}
