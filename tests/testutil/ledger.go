package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ministock/backend/internal/domain/ledger"
)

// Sample ledger blobs in the persisted JSON shape. Widget has 12 units at
// 9.99, Gadget 3 units at 15, Gizmo none; Ana bought twice.
const (
	SampleProducts = `[
  {"id":"p1","name":"Widget","description":"Small widget","price":9.99,"quantity":12,"categoryId":"c1"},
  {"id":"p2","name":"Gadget","price":15,"quantity":3,"categoryId":"c1"},
  {"id":"p3","name":"Gizmo","price":40,"quantity":0,"categoryId":"c2"}
]`
	SampleCategories = `[{"id":"c1","name":"Herramientas"},{"id":"c2","name":"Electrónica"}]`
	SampleClients    = `[{"id":"cl1","name":"Ana"},{"id":"cl2","name":"Beto"}]`
	SampleProviders  = `[{"id":"pr1","name":"Proveedora Central","contact":"Luis"}]`
	SampleSales      = `[
  {"id":"s1","clientId":"cl1","clientName":"Ana","items":[{"productId":"p1","productName":"Widget","quantity":2,"unitPrice":9.99,"subtotal":19.98}],"total":19.98,"date":"2026-03-05T10:00:00.000Z"},
  {"id":"s2","clientId":"cl1","clientName":"Ana","items":[{"productId":"p2","productName":"Gadget","quantity":1,"unitPrice":15,"subtotal":15}],"total":15,"date":"2026-04-02T10:00:00.000Z"},
  {"id":"s3","clientId":"cl2","clientName":"Beto","items":[{"productId":"p1","productName":"Widget","quantity":1,"unitPrice":9.99,"subtotal":9.99}],"total":9.99,"date":"2026-04-03T10:00:00.000Z"}
]`
	SamplePurchases = `[
  {"id":"b1","providerId":"pr1","providerName":"Proveedora Central","items":[{"productId":"p1","productName":"Widget","quantity":10,"unitPrice":5,"subtotal":50}],"total":50,"date":"2026-03-01T10:00:00.000Z"}
]`
)

// WriteSampleLedger stores the sample blobs under their keys.
func WriteSampleLedger(t *testing.T, store ledger.BlobStore) {
	t.Helper()
	ctx := context.Background()
	for key, blob := range map[string]string{
		ledger.KeyProducts:   SampleProducts,
		ledger.KeyCategories: SampleCategories,
		ledger.KeyClients:    SampleClients,
		ledger.KeyProviders:  SampleProviders,
		ledger.KeySales:      SampleSales,
		ledger.KeyPurchases:  SamplePurchases,
	} {
		require.NoError(t, store.Set(ctx, key, []byte(blob)), key)
	}
}
