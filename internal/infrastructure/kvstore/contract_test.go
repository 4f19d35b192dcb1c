package kvstore

import (
	"context"
	"testing"

	"github.com/ministock/backend/internal/domain/ledger"
	"github.com/ministock/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract runs the shared blob store contract plus the checks
// specific to this package's stores.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	testutil.RunBlobStoreContract(t, func(t *testing.T) ledger.BlobStore {
		return open(t)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		_, _, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, s.Set(ctx, "", []byte(`[]`)), ErrEmptyKey)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestGormStore_SQLiteContract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := OpenSQLite(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestS3Store_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewS3StoreWithClient(newFakeObjects(), "ledger", "stocky")
	})
}
