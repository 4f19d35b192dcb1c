//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ministock/backend/internal/application/assistant"
	appledger "github.com/ministock/backend/internal/application/ledger"
	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/internal/infrastructure/kvstore"
	"github.com/ministock/backend/internal/infrastructure/migration"
	"github.com/ministock/backend/tests/testutil"
)

func openPostgresStore(t *testing.T) *kvstore.GormStore {
	t.Helper()
	db := NewTestDB(t)
	store, err := kvstore.OpenPostgres(&db.Config, kvstore.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPostgresStore_Contract(t *testing.T) {
	testutil.RunBlobStoreContract(t, func(t *testing.T) ledger.BlobStore {
		return openPostgresStore(t)
	})
}

func TestMigrations_UpDown(t *testing.T) {
	db := NewTestDB(t)
	m, err := migration.New(db.SqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)

	names, err := migration.ListMigrations()
	require.NoError(t, err)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(len(names)), version)
	assert.False(t, dirty)

	require.NoError(t, m.Steps(-1))
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(len(names)-1), version)

	require.NoError(t, m.Up())
	var indexes int
	require.NoError(t, db.SqlDB.QueryRow(
		`SELECT count(*) FROM pg_indexes WHERE tablename = 'kv_blobs' AND indexname LIKE '%updated_at%'`,
	).Scan(&indexes))
	assert.Equal(t, 1, indexes)
}

func TestPostgresStore_AssistantConversation(t *testing.T) {
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)
	store := openPostgresStore(t)
	testutil.WriteSampleLedger(t, store)

	normalizer := appledger.NewNormalizer(store, zaptest.NewLogger(t))
	session := assistant.NewSession(normalizer, assistant.WithSeed(1))
	require.NoError(t, session.Start(ctx))

	resp := session.HandleUtterance(ctx, "precio del widget")
	assert.Contains(t, resp.Text, "$9.99")

	resp = session.HandleUtterance(ctx, "¿Y cuánto cuesta?")
	assert.Equal(t, "💵 **Widget** cuesta **$9.99** por unidad.", resp.Text)
	assert.Equal(t, "p1", session.Memory().LastProduct.ID)
}

func TestPostgresStore_PostingSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	db := NewTestDB(t)

	first, err := kvstore.OpenPostgres(&db.Config)
	require.NoError(t, err)
	testutil.WriteSampleLedger(t, first)

	poster := appledger.NewPoster(first, appledger.NewNormalizer(first, nil), nil)
	_, err = poster.PostSale(ctx, appledger.TransactionInput{
		ID:    "s-int",
		Items: []appledger.ItemInput{{ProductID: "p1", Quantity: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := kvstore.OpenPostgres(&db.Config)
	require.NoError(t, err)
	defer second.Close()

	view, err := appledger.NewNormalizer(second, nil).Load(ctx)
	require.NoError(t, err)
	widget, ok := view.ProductByID("p1")
	require.True(t, ok)
	assert.Equal(t, 10, widget.Quantity)
	assert.Len(t, view.Sales, 4)
}
