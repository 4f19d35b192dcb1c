package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	appledger "github.com/ministock/backend/internal/application/ledger"
	"github.com/ministock/backend/internal/domain/conversation"
	"github.com/ministock/backend/internal/domain/ledger"
)

var fixedNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	view       *ledger.View
	err        error
	migrations int
	report     appledger.MigrationReport
}

func (f *fakeSource) Load(context.Context) (*ledger.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

func (f *fakeSource) MigrateLegacy(context.Context) (appledger.MigrationReport, error) {
	f.migrations++
	return f.report, nil
}

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

type queue []string

func (q *queue) Drain() []string {
	out := *q
	*q = nil
	return out
}

func product(id, name string, price string, qty int) ledger.Product {
	return ledger.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func sale(t *testing.T, id, clientID, client string, date time.Time, lines ...ledger.LineItem) ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(id, ledger.KindSale, clientID, client, lines, date)
	require.NoError(t, err)
	return tx
}

func purchase(t *testing.T, id, providerID, provider string, date time.Time, lines ...ledger.LineItem) ledger.Transaction {
	t.Helper()
	tx, err := ledger.NewTransaction(id, ledger.KindPurchase, providerID, provider, lines, date)
	require.NoError(t, err)
	return tx
}

func line(t *testing.T, p ledger.Product, qty int) ledger.LineItem {
	t.Helper()
	item, err := ledger.NewLineItem(p.ID, p.Name, qty, p.Price)
	require.NoError(t, err)
	return item
}

func viewOf(products []ledger.Product, sales, purchases []ledger.Transaction) *ledger.View {
	return &ledger.View{
		Products:  products,
		Sales:     sales,
		Purchases: purchases,
		Incomes:   ledger.FlattenAll(sales),
		Expenses:  ledger.FlattenAll(purchases),
	}
}

// shopView is a small shop with two clients, one provider and activity in
// February and March 2026.
func shopView(t *testing.T) *ledger.View {
	t.Helper()
	widget := product("p1", "Widget", "9.99", 40)
	gadget := product("p2", "Gadget", "25.00", 3)
	bolt := product("p3", "Tornillo", "0.50", 0)
	widget.CategoryID = "c1"

	sales := []ledger.Transaction{
		sale(t, "s1", "cl1", "Ana", fixedNow.AddDate(0, -1, 0), line(t, widget, 10), line(t, gadget, 2)),
		sale(t, "s2", "cl2", "Luis", fixedNow.Add(-2*time.Hour), line(t, widget, 1)),
		sale(t, "s3", "cl1", "Ana", fixedNow.Add(-time.Hour), line(t, gadget, 1)),
	}
	purchases := []ledger.Transaction{
		purchase(t, "b1", "pr1", "Distribuidora Sur", fixedNow.AddDate(0, -1, -2), line(t, widget, 50)),
	}
	v := viewOf([]ledger.Product{widget, gadget, bolt}, sales, purchases)
	v.Categories = []ledger.Category{{ID: "c1", Name: "Ferretería"}}
	v.Clients = []ledger.Client{
		{ID: "cl1", Name: "Ana", Phone: "555-0101", Email: "ana@example.com"},
		{ID: "cl2", Name: "Luis"},
		{ID: "cl3", Name: "Marta"},
	}
	v.Providers = []ledger.Provider{{ID: "pr1", Name: "Distribuidora Sur", Contact: "Pedro"}}
	return v
}

func newTestSession(src *fakeSource, opts ...Option) *Session {
	opts = append([]Option{
		WithClock(func() time.Time { return fixedNow }),
		WithPicker(fixedPicker(0)),
		WithSettings(Settings{Location: time.UTC}),
	}, opts...)
	return NewSession(src, opts...)
}

func turnWith(raw string, view *ledger.View, mem conversation.Snapshot) *Turn {
	return NewTurn(raw, view, mem, fixedNow, Settings{Location: time.UTC}, fixedPicker(0))
}

// withHistory returns a snapshot holding one earlier exchange.
func withHistory(s conversation.Snapshot) conversation.Snapshot {
	s.Transcript = []conversation.Turn{
		{Role: conversation.RoleUser, Text: "hola", At: fixedNow},
		{Role: conversation.RoleAssistant, Text: "¡Hola!", At: fixedNow},
	}
	return s
}
