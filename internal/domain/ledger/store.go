package ledger

import "context"

// Storage keys of the persisted JSON blobs.
const (
	KeyProducts   = "ministock_products"
	KeyCategories = "ministock_categories"
	KeyClients    = "ministock_clients"
	KeyProviders  = "ministock_providers"
	KeySales      = "ministock_sales"
	KeyPurchases  = "ministock_purchases"

	// Single-item shapes kept only for one-time migration.
	KeyLegacyIncomes  = "ministock_incomes"
	KeyLegacyExpenses = "ministock_expenses"
)

// BlobStore is the key-value persistence surface: named JSON blobs with
// read/overwrite semantics.
type BlobStore interface {
	// Get returns the blob stored under key; found is false when absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set overwrites the blob stored under key.
	Set(ctx context.Context, key string, value []byte) error
}
