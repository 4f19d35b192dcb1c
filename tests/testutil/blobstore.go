package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministock/backend/internal/domain/ledger"
)

// RunBlobStoreContract checks the read/overwrite semantics every backend
// shares. open must return an empty store.
func RunBlobStoreContract(t *testing.T, open func(t *testing.T) ledger.BlobStore) {
	ctx := context.Background()

	t.Run("absent key is not found", func(t *testing.T) {
		s := open(t)
		v, found, err := s.Get(ctx, ledger.KeySales)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, v)
	})

	t.Run("set then get returns the blob", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, ledger.KeyProducts, []byte(`[{"id":"p1"}]`)))

		v, found, err := s.Get(ctx, ledger.KeyProducts)
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `[{"id":"p1"}]`, string(v))
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, ledger.KeyClients, []byte(`[{"id":"c1"}]`)))
		require.NoError(t, s.Set(ctx, ledger.KeyClients, []byte(`[]`)))

		v, found, err := s.Get(ctx, ledger.KeyClients)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[]`, string(v))
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Set(ctx, ledger.KeySales, []byte(`["s"]`)))
		require.NoError(t, s.Set(ctx, ledger.KeyPurchases, []byte(`["p"]`)))

		sales, _, err := s.Get(ctx, ledger.KeySales)
		require.NoError(t, err)
		purchases, _, err := s.Get(ctx, ledger.KeyPurchases)
		require.NoError(t, err)
		assert.Equal(t, `["s"]`, string(sales))
		assert.Equal(t, `["p"]`, string(purchases))
	})

	t.Run("caller buffer is not retained", func(t *testing.T) {
		s := open(t)
		buf := []byte(`[1]`)
		require.NoError(t, s.Set(ctx, ledger.KeyCategories, buf))
		buf[1] = '9'

		v, _, err := s.Get(ctx, ledger.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, `[1]`, string(v))
	})
}
