package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	appledger "github.com/ministock/backend/internal/application/ledger"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/domain/ledger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSession_ContextualPriceFollowUp(t *testing.T) {
	widget := product("p1", "Widget", "9.99", 20)
	s := newTestSession(&fakeSource{view: viewOf([]ledger.Product{widget}, nil, nil)})
	ctx := context.Background()

	first := s.HandleUtterance(ctx, "¿Cuál es el precio del widget?")
	require.Contains(t, first.Text, "Widget")

	resp := s.HandleUtterance(ctx, "¿Y cuánto cuesta?")
	assert.Equal(t, "💵 **Widget** cuesta **$9.99** por unidad.", resp.Text)
	assert.Nil(t, resp.Chart)

	mem := s.Memory()
	assert.Equal(t, conversation.EntityRef{Name: "Widget", ID: "p1"}, mem.LastProduct)
	assert.True(t, mem.LastValue.Decimal.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 2, mem.Questions)
}

func TestSession_EmptyBalanceChartIsTextOnly(t *testing.T) {
	s := newTestSession(&fakeSource{view: &ledger.View{}})
	resp := s.HandleUtterance(context.Background(), "muestra la gráfica de balance")
	assert.Nil(t, resp.Chart)
	assert.Contains(t, resp.Text, "No hay datos suficientes")
}

func TestSession_LowStockReport(t *testing.T) {
	view := viewOf([]ledger.Product{
		product("a", "A", "1", 5),
		product("b", "B", "1", 0),
		product("c", "C", "1", 50),
	}, nil, nil)
	s := newTestSession(&fakeSource{view: view})

	resp := s.HandleUtterance(context.Background(), "muéstrame productos con bajo stock")
	assert.Contains(t, resp.Text, "🚨 **Sin stock (1):**\n  • B")
	assert.Contains(t, resp.Text, "⚠️ **Stock bajo (1):**\n  • A: 5 unidades")
	assert.NotContains(t, resp.Text, "• C")
}

func TestSession_LowStockAllGood(t *testing.T) {
	view := viewOf([]ledger.Product{product("c", "C", "1", 50)}, nil, nil)
	resp := newTestSession(&fakeSource{view: view}).HandleUtterance(context.Background(), "stock bajo")
	assert.Equal(t, noLowStockText, resp.Text)
}

func TestSession_GlossaryNotFallback(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	resp := s.HandleUtterance(context.Background(), "qué es el stock")
	assert.True(t, strings.HasPrefix(resp.Text, "📦 **¿Qué es el Stock o Inventario?**"))
	assert.NotContains(t, resp.Text, "Entiendo que preguntas")
	assert.Equal(t, []string{"glossary/stock"}, s.Memory().RecentTopics)
}

func TestSession_TranscriptCapped(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	for i := 0; i < 12; i++ {
		s.HandleUtterance(context.Background(), "hola")
	}
	mem := s.Memory()
	assert.Len(t, mem.Transcript, conversation.DefaultTranscriptCap)
	assert.Equal(t, 12, mem.Questions)
	assert.Len(t, mem.RecentTopics, conversation.DefaultRecentCap)
}

func TestSession_CustomTranscriptCap(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)}, WithMemoryOptions(conversation.WithTranscriptCap(4)))
	for i := 0; i < 5; i++ {
		s.HandleUtterance(context.Background(), "hola")
	}
	assert.Len(t, s.Memory().Transcript, 4)
}

func TestSession_EmptyInputLeavesMemory(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	resp := s.HandleUtterance(context.Background(), "   ")
	assert.Equal(t, emptyInputText, resp.Text)

	mem := s.Memory()
	assert.Zero(t, mem.Questions)
	assert.Empty(t, mem.Transcript)
}

func TestSession_LoadErrorDegradesToEmptyLedger(t *testing.T) {
	s := newTestSession(&fakeSource{err: errors.New("disk on fire")})
	resp := s.HandleUtterance(context.Background(), "algo raro")
	assert.True(t, strings.HasPrefix(resp.Text, "🎯 **Primeros pasos:**"))
}

func TestSession_FallbackEchoesUtterance(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	resp := s.HandleUtterance(context.Background(), "100% xyzzy")
	assert.Contains(t, resp.Text, `🤔 Entiendo que preguntas sobre "100% xyzzy".`)
}

func TestSession_StartMigratesOnce(t *testing.T) {
	src := &fakeSource{view: &ledger.View{}, report: appledger.MigrationReport{Sales: 2, Migrated: []ledger.Kind{ledger.KindSale}}}
	s := newTestSession(src)

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.Equal(t, 1, src.migrations)
}

func TestSession_Notifications(t *testing.T) {
	q := &queue{"Se migraron 2 ventas al nuevo formato"}
	s := newTestSession(&fakeSource{view: &ledger.View{}}, WithNotices(q))

	assert.Equal(t, []string{"Se migraron 2 ventas al nuevo formato"}, s.Notifications())
	assert.Empty(t, s.Notifications())
	assert.Nil(t, newTestSession(&fakeSource{}).Notifications())
}

func TestSession_BestClientThenFollowUps(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	ctx := context.Background()

	best := s.HandleUtterance(ctx, "¿Quién es mi mejor cliente?")
	require.Contains(t, best.Text, "🏆 **Mejor Cliente: Ana**")
	assert.Contains(t, best.Text, "• Número de compras: 3")
	assert.Contains(t, best.Text, "• Teléfono: 555-0101")
	assert.Contains(t, best.Text, "✅ Cliente activo")

	mem := s.Memory()
	assert.Equal(t, "Ana", mem.LastClient.Name)
	assert.Equal(t, conversation.AnalysisClients, mem.LastAnalysis)

	spend := s.HandleUtterance(ctx, "¿Cuánto ha gastado?")
	assert.Equal(t, "💰 **Ana** ha gastado un total de **$174.90** en 3 compra(s).", spend.Text)

	contact := s.HandleUtterance(ctx, "¿y su email?")
	assert.Contains(t, contact.Text, "• Email: ana@example.com")

	judge := s.HandleUtterance(ctx, "¿y eso es mucho?")
	assert.Contains(t, judge.Text, "📊 Es un valor moderado.")
}

func TestSession_BalanceCarriesSummaryChart(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	resp := s.HandleUtterance(context.Background(), "balance")

	require.NotNil(t, resp.Chart)
	assert.Equal(t, ChartSummary, resp.Chart.Kind)
	assert.Equal(t, "184.89", resp.Chart.Summary.Income.StringFixed(2))
	assert.Equal(t, "499.50", resp.Chart.Summary.Expense.StringFixed(2))
	assert.Contains(t, resp.Text, "⚠️ Balance: $-314.61")
	assert.Contains(t, resp.Text, "📊 Margen: -170.2%")
}

func TestSession_ResetForgetsContext(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)})
	s.HandleUtterance(context.Background(), "precio del widget")
	s.Reset()

	mem := s.Memory()
	assert.True(t, mem.LastProduct.IsZero())
	assert.Empty(t, mem.Transcript)
}

func TestSession_SocialUsesPicker(t *testing.T) {
	s := newTestSession(&fakeSource{view: shopView(t)}, WithPicker(fixedPicker(2)))
	assert.Equal(t, greetingLines[2], s.HandleUtterance(context.Background(), "hola").Text)

	seeded := newTestSession(&fakeSource{view: shopView(t)}, WithSeed(7))
	assert.Contains(t, greetingLines, seeded.HandleUtterance(context.Background(), "hola").Text)
}
